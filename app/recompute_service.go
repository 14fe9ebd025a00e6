package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	domain "aquafold/domain/assimilation"
	"aquafold/domain/core"
	"aquafold/internal"
	"aquafold/internal/assimilation"
	"aquafold/ports"
)

// RecomputeService runs daily assimilation over many assignments. Days
// within one assignment are strictly sequential; assignments share no
// mutable state, so the service fans out across them with a bounded
// worker group.
type RecomputeService struct {
	assignments  ports.AssignmentRepository
	scenarios    ports.ScenarioRepository
	measurements ports.MeasurementReader
	states       ports.DailyStateRepository
	policy       assimilation.Policy
	concurrency  int
	log          *internal.Logger
}

// NewRecomputeService creates a recompute service. concurrency bounds how
// many assignments run at once; values below 1 are treated as 1.
func NewRecomputeService(
	assignments ports.AssignmentRepository,
	scenarios ports.ScenarioRepository,
	measurements ports.MeasurementReader,
	states ports.DailyStateRepository,
	policy assimilation.Policy,
	concurrency int,
	logger *internal.Logger,
) *RecomputeService {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RecomputeService{
		assignments:  assignments,
		scenarios:    scenarios,
		measurements: measurements,
		states:       states,
		policy:       policy,
		concurrency:  concurrency,
		log:          logger,
	}
}

// AssignmentReport is one assignment's outcome within a bulk recompute.
// Err carries construction-time failures (missing scenario, unknown
// assignment); per-day failures live inside Result.Errors.
type AssignmentReport struct {
	AssignmentID core.AssignmentID            `json:"assignment_id"`
	Result       *domain.RecomputeResult      `json:"result,omitempty"`
	Err          error                        `json:"-"`
	ErrReason    string                       `json:"error,omitempty"`
	RuntimeMs    int64                        `json:"runtime_ms"`
}

// RecomputeAssignments reconstructs [start, end] for each assignment ID,
// concurrently up to the configured limit. One assignment's failure never
// aborts the others; every ID gets a report.
func (s *RecomputeService) RecomputeAssignments(ctx context.Context, ids []core.AssignmentID, start, end core.Date) ([]AssignmentReport, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no assignments given")
	}

	reports := make([]AssignmentReport, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			reports[i] = s.recomputeOne(gctx, id, start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}

// RecomputeBatch reconstructs the range for every assignment in a batch
func (s *RecomputeService) RecomputeBatch(ctx context.Context, batchID core.BatchID, start, end core.Date) ([]AssignmentReport, error) {
	assignments, err := s.assignments.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch assignments: %w", err)
	}
	ids := make([]core.AssignmentID, len(assignments))
	for i, a := range assignments {
		ids[i] = a.ID
	}
	return s.RecomputeAssignments(ctx, ids, start, end)
}

func (s *RecomputeService) recomputeOne(ctx context.Context, id core.AssignmentID, start, end core.Date) AssignmentReport {
	started := time.Now()
	report := AssignmentReport{AssignmentID: id}

	assignment, err := s.assignments.GetAssignment(ctx, id)
	if err != nil {
		report.Err = err
		report.ErrReason = err.Error()
		return report
	}

	engine, err := assimilation.New(ctx, assignment, s.scenarios, s.measurements, s.states, s.policy, s.log)
	if err != nil {
		report.Err = err
		report.ErrReason = err.Error()
		return report
	}

	result, err := engine.RecomputeRange(ctx, start, end)
	if err != nil {
		report.Err = err
		report.ErrReason = err.Error()
		return report
	}

	report.Result = result
	report.RuntimeMs = time.Since(started).Milliseconds()
	s.log.Info("assignment %s recomputed %s..%s: created=%d updated=%d errors=%d",
		id, start, end, result.RowsCreated, result.RowsUpdated, len(result.Errors))
	return report
}
