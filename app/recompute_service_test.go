package app

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "aquafold/domain/assimilation"
	"aquafold/domain/batch"
	"aquafold/domain/core"
	"aquafold/domain/measurement"
	"aquafold/domain/scenario"
	"aquafold/internal/assimilation"
)

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) GetAssignment(ctx context.Context, id core.AssignmentID) (*batch.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListByBatch(ctx context.Context, batchID core.BatchID) ([]*batch.Assignment, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*batch.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListActive(ctx context.Context) ([]*batch.Assignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*batch.Assignment), args.Error(1)
}

type stubScenarioRepo struct {
	scenario *scenario.Scenario
}

func (s *stubScenarioRepo) GetScenario(ctx context.Context, id core.ScenarioID) (*scenario.Scenario, error) {
	return s.scenario, nil
}

func (s *stubScenarioRepo) GetPinnedScenario(ctx context.Context, runID core.ProjectionRunID) (*scenario.Scenario, error) {
	return s.scenario, nil
}

type stubMeasurements struct{}

func (stubMeasurements) TemperatureReadings(ctx context.Context, containerID core.ContainerID, date core.Date) ([]measurement.EnvironmentalReading, error) {
	return nil, nil
}

func (stubMeasurements) MortalityEvents(ctx context.Context, assignmentID core.AssignmentID, date core.Date) ([]measurement.MortalityEvent, error) {
	return nil, nil
}

func (stubMeasurements) WeightSamples(ctx context.Context, assignmentID core.AssignmentID, date core.Date) ([]measurement.WeightSample, error) {
	return nil, nil
}

type stateKey struct {
	assignment core.AssignmentID
	date       string
}

// memoryStateStore is safe for the service's concurrent assignment workers.
type memoryStateStore struct {
	mu   sync.Mutex
	rows map[stateKey]*domain.DayState
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{rows: make(map[stateKey]*domain.DayState)}
}

func (s *memoryStateStore) Upsert(ctx context.Context, state *domain.DayState) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := stateKey{state.AssignmentID, state.StateDate.String()}
	_, exists := s.rows[key]
	copied := *state
	s.rows[key] = &copied
	return !exists, nil
}

func (s *memoryStateStore) GetDayState(ctx context.Context, assignmentID core.AssignmentID, date core.Date) (*domain.DayState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.rows[stateKey{assignmentID, date.String()}]
	if !ok {
		return nil, core.ErrDayStateNotFound
	}
	return state, nil
}

func (s *memoryStateStore) ListRange(ctx context.Context, assignmentID core.AssignmentID, start, end core.Date) ([]*domain.DayState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.DayState
	for key, state := range s.rows {
		if key.assignment != assignmentID {
			continue
		}
		if !state.StateDate.Before(start) && !state.StateDate.After(end) {
			out = append(out, state)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StateDate.Before(out[j].StateDate) })
	return out, nil
}

var serviceStart = core.NewDate(2025, time.March, 1)

func serviceScenario() *scenario.Scenario {
	return &scenario.Scenario{
		ID:             core.ScenarioID(core.NewID()),
		Name:           "bulk recompute plan",
		StartDate:      serviceStart,
		InitialCount:   1000,
		InitialWeightG: 2.0,
		Growth: scenario.GrowthModel{
			TGCCoefficient: 3.0,
			Profile: scenario.TemperatureProfile{
				{DayOffset: 0, TemperatureC: 10.0},
				{DayOffset: 60, TemperatureC: 10.0},
			},
		},
		Mortality: scenario.MortalityModel{
			Rates: map[batch.LifecycleStage]float64{"": 0},
		},
	}
}

func pinnedAssignment(id core.AssignmentID) *batch.Assignment {
	runID := core.ProjectionRunID(core.NewID())
	return &batch.Assignment{
		ID:              id,
		BatchID:         core.BatchID("b-1"),
		ContainerID:     core.ContainerID(core.NewID()),
		Stage:           batch.StageSmolt,
		Population:      1000,
		AvgWeightG:      2.0,
		ProjectionRunID: &runID,
	}
}

func TestRecomputeAssignmentsConcurrentFanOut(t *testing.T) {
	idA := core.AssignmentID("asg-a")
	idB := core.AssignmentID("asg-b")

	assignments := new(MockAssignmentRepository)
	assignments.On("GetAssignment", mock.Anything, idA).Return(pinnedAssignment(idA), nil)
	assignments.On("GetAssignment", mock.Anything, idB).Return(pinnedAssignment(idB), nil)

	service := NewRecomputeService(assignments, &stubScenarioRepo{scenario: serviceScenario()},
		stubMeasurements{}, newMemoryStateStore(), assimilation.DefaultPolicy(), 4, nil)

	reports, err := service.RecomputeAssignments(context.Background(), []core.AssignmentID{idA, idB}, serviceStart, serviceStart.AddDays(4))
	require.NoError(t, err)
	require.Len(t, reports, 2)

	for _, report := range reports {
		require.NoError(t, report.Err, string(report.AssignmentID))
		require.NotNil(t, report.Result)
		assert.Equal(t, 5, report.Result.RowsCreated)
		assert.Empty(t, report.Result.Errors)
	}
	assignments.AssertExpectations(t)
}

func TestRecomputeAssignmentsIsolatesFailures(t *testing.T) {
	good := core.AssignmentID("asg-good")
	missing := core.AssignmentID("asg-missing")

	assignments := new(MockAssignmentRepository)
	assignments.On("GetAssignment", mock.Anything, good).Return(pinnedAssignment(good), nil)
	assignments.On("GetAssignment", mock.Anything, missing).Return(nil, core.ErrAssignmentNotFound)

	service := NewRecomputeService(assignments, &stubScenarioRepo{scenario: serviceScenario()},
		stubMeasurements{}, newMemoryStateStore(), assimilation.DefaultPolicy(), 2, nil)

	reports, err := service.RecomputeAssignments(context.Background(), []core.AssignmentID{good, missing}, serviceStart, serviceStart.AddDays(1))
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.NoError(t, reports[0].Err)
	require.NotNil(t, reports[0].Result)
	assert.Equal(t, 2, reports[0].Result.RowsCreated)

	assert.Error(t, reports[1].Err)
	assert.ErrorIs(t, reports[1].Err, core.ErrNotFound)
	assert.Nil(t, reports[1].Result)
	assert.NotEmpty(t, reports[1].ErrReason)
}

func TestRecomputeAssignmentsUnpinnedAssignmentReports(t *testing.T) {
	id := core.AssignmentID("asg-unpinned")
	assignment := pinnedAssignment(id)
	assignment.ProjectionRunID = nil

	assignments := new(MockAssignmentRepository)
	assignments.On("GetAssignment", mock.Anything, id).Return(assignment, nil)

	service := NewRecomputeService(assignments, &stubScenarioRepo{scenario: serviceScenario()},
		stubMeasurements{}, newMemoryStateStore(), assimilation.DefaultPolicy(), 1, nil)

	reports, err := service.RecomputeAssignments(context.Background(), []core.AssignmentID{id}, serviceStart, serviceStart)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.ErrorIs(t, reports[0].Err, core.ErrNoScenario)
}

func TestRecomputeAssignmentsRequiresIDs(t *testing.T) {
	service := NewRecomputeService(new(MockAssignmentRepository), &stubScenarioRepo{},
		stubMeasurements{}, newMemoryStateStore(), assimilation.DefaultPolicy(), 2, nil)

	_, err := service.RecomputeAssignments(context.Background(), nil, serviceStart, serviceStart)
	assert.Error(t, err)
}

func TestRecomputeBatchResolvesAssignments(t *testing.T) {
	batchID := core.BatchID("b-1")
	idA := core.AssignmentID("asg-a")
	idB := core.AssignmentID("asg-b")

	assignments := new(MockAssignmentRepository)
	assignments.On("ListByBatch", mock.Anything, batchID).
		Return([]*batch.Assignment{pinnedAssignment(idA), pinnedAssignment(idB)}, nil)
	assignments.On("GetAssignment", mock.Anything, idA).Return(pinnedAssignment(idA), nil)
	assignments.On("GetAssignment", mock.Anything, idB).Return(pinnedAssignment(idB), nil)

	service := NewRecomputeService(assignments, &stubScenarioRepo{scenario: serviceScenario()},
		stubMeasurements{}, newMemoryStateStore(), assimilation.DefaultPolicy(), 2, nil)

	reports, err := service.RecomputeBatch(context.Background(), batchID, serviceStart, serviceStart)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	assignments.AssertExpectations(t)
}
