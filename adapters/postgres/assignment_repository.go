package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aquafold/domain/batch"
	"aquafold/domain/core"
	"aquafold/ports"

	"github.com/jmoiron/sqlx"
)

// AssignmentRepositoryImpl implements AssignmentRepository for PostgreSQL
type AssignmentRepositoryImpl struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new PostgreSQL assignment repository
func NewAssignmentRepository(db *sqlx.DB) ports.AssignmentRepository {
	return &AssignmentRepositoryImpl{db: db}
}

type assignmentRow struct {
	ID              string         `db:"id"`
	BatchID         string         `db:"batch_id"`
	ContainerID     string         `db:"container_id"`
	Stage           string         `db:"lifecycle_stage"`
	Population      int            `db:"population"`
	AvgWeightG      float64        `db:"avg_weight_g"`
	BiomassKG       float64        `db:"biomass_kg"`
	ProjectionRunID sql.NullString `db:"projection_run_id"`
	Active          bool           `db:"active"`
}

func (r assignmentRow) toDomain() (*batch.Assignment, error) {
	stage, err := batch.ParseLifecycleStage(r.Stage)
	if err != nil {
		return nil, err
	}
	a := &batch.Assignment{
		ID:          core.AssignmentID(r.ID),
		BatchID:     core.BatchID(r.BatchID),
		ContainerID: core.ContainerID(r.ContainerID),
		Stage:       stage,
		Population:  r.Population,
		AvgWeightG:  r.AvgWeightG,
		BiomassKG:   r.BiomassKG,
	}
	if r.ProjectionRunID.Valid {
		runID := core.ProjectionRunID(r.ProjectionRunID.String)
		a.ProjectionRunID = &runID
	}
	return a, nil
}

const assignmentColumns = `id, batch_id, container_id, lifecycle_stage, population,
	avg_weight_g, biomass_kg, projection_run_id, active`

// GetAssignment loads one assignment by ID
func (r *AssignmentRepositoryImpl) GetAssignment(ctx context.Context, id core.AssignmentID) (*batch.Assignment, error) {
	var row assignmentRow
	err := r.db.GetContext(ctx, &row, fmt.Sprintf(`
		SELECT %s FROM assignments WHERE id = $1`, assignmentColumns), id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrAssignmentNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

// ListByBatch returns all assignments belonging to a batch
func (r *AssignmentRepositoryImpl) ListByBatch(ctx context.Context, batchID core.BatchID) ([]*batch.Assignment, error) {
	var rows []assignmentRow
	err := r.db.SelectContext(ctx, &rows, fmt.Sprintf(`
		SELECT %s FROM assignments WHERE batch_id = $1 ORDER BY id`, assignmentColumns), batchID.String())
	if err != nil {
		return nil, err
	}
	return toAssignments(rows)
}

// ListActive returns all assignments currently holding fish
func (r *AssignmentRepositoryImpl) ListActive(ctx context.Context) ([]*batch.Assignment, error) {
	var rows []assignmentRow
	err := r.db.SelectContext(ctx, &rows, fmt.Sprintf(`
		SELECT %s FROM assignments WHERE active ORDER BY id`, assignmentColumns))
	if err != nil {
		return nil, err
	}
	return toAssignments(rows)
}

func toAssignments(rows []assignmentRow) ([]*batch.Assignment, error) {
	assignments := make([]*batch.Assignment, 0, len(rows))
	for _, row := range rows {
		a, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}
