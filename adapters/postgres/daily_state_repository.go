package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aquafold/domain/assimilation"
	"aquafold/domain/core"
	"aquafold/ports"

	"github.com/jmoiron/sqlx"
)

// DailyStateRepositoryImpl implements DailyStateRepository for PostgreSQL.
// The unique key on (assignment_id, state_date) plus ON CONFLICT upsert is
// what makes recompute ranges idempotent and safe against duplicate job
// dispatch: a concurrent second writer updates rather than duplicates.
type DailyStateRepositoryImpl struct {
	db *sqlx.DB
}

// NewDailyStateRepository creates a new PostgreSQL daily state repository
func NewDailyStateRepository(db *sqlx.DB) ports.DailyStateRepository {
	return &DailyStateRepositoryImpl{db: db}
}

type dayStateRow struct {
	AssignmentID string    `db:"assignment_id"`
	StateDate    time.Time `db:"state_date"`
	DayNumber    int       `db:"day_number"`
	AvgWeightG   float64   `db:"avg_weight_g"`
	Population   int       `db:"population"`
	BiomassKG    float64   `db:"biomass_kg"`
	Sources      []byte    `db:"sources"`
	Confidence   []byte    `db:"confidence_scores"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r dayStateRow) toDomain() (*assimilation.DayState, error) {
	state := &assimilation.DayState{
		AssignmentID: core.AssignmentID(r.AssignmentID),
		StateDate:    core.DateOf(r.StateDate),
		DayNumber:    r.DayNumber,
		AvgWeightG:   r.AvgWeightG,
		Population:   r.Population,
		BiomassKG:    r.BiomassKG,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if len(r.Sources) > 0 {
		if err := json.Unmarshal(r.Sources, &state.Sources); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sources: %w", err)
		}
	}
	if len(r.Confidence) > 0 {
		if err := json.Unmarshal(r.Confidence, &state.Confidence); err != nil {
			return nil, fmt.Errorf("failed to unmarshal confidence scores: %w", err)
		}
	}
	return state, nil
}

// Upsert writes a daily row keyed on (assignment, date). The xmax system
// column distinguishes a fresh insert (xmax = 0) from a conflicting update.
func (r *DailyStateRepositoryImpl) Upsert(ctx context.Context, state *assimilation.DayState) (bool, error) {
	if err := state.Validate(); err != nil {
		return false, err
	}

	sourcesJSON, err := json.Marshal(state.Sources)
	if err != nil {
		return false, fmt.Errorf("failed to marshal sources: %w", err)
	}
	confidenceJSON, err := json.Marshal(state.Confidence)
	if err != nil {
		return false, fmt.Errorf("failed to marshal confidence scores: %w", err)
	}

	var created bool
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO daily_assignment_states (
			assignment_id, state_date, day_number, avg_weight_g, population,
			biomass_kg, sources, confidence_scores, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (assignment_id, state_date) DO UPDATE SET
			day_number = EXCLUDED.day_number,
			avg_weight_g = EXCLUDED.avg_weight_g,
			population = EXCLUDED.population,
			biomass_kg = EXCLUDED.biomass_kg,
			sources = EXCLUDED.sources,
			confidence_scores = EXCLUDED.confidence_scores,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted`,
		state.AssignmentID.String(), state.StateDate.Time(), state.DayNumber,
		state.AvgWeightG, state.Population, state.BiomassKG,
		sourcesJSON, confidenceJSON).Scan(&created)
	if err != nil {
		return false, err
	}
	return created, nil
}

const dayStateColumns = `assignment_id, state_date, day_number, avg_weight_g,
	population, biomass_kg, sources, confidence_scores, created_at, updated_at`

// GetDayState reads one assignment's row for one date
func (r *DailyStateRepositoryImpl) GetDayState(ctx context.Context, assignmentID core.AssignmentID, date core.Date) (*assimilation.DayState, error) {
	var row dayStateRow
	err := r.db.GetContext(ctx, &row, fmt.Sprintf(`
		SELECT %s FROM daily_assignment_states
		WHERE assignment_id = $1 AND state_date = $2`, dayStateColumns),
		assignmentID.String(), date.Time())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrDayStateNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

// ListRange returns an assignment's rows for [start, end] in date order
func (r *DailyStateRepositoryImpl) ListRange(ctx context.Context, assignmentID core.AssignmentID, start, end core.Date) ([]*assimilation.DayState, error) {
	var rows []dayStateRow
	err := r.db.SelectContext(ctx, &rows, fmt.Sprintf(`
		SELECT %s FROM daily_assignment_states
		WHERE assignment_id = $1 AND state_date >= $2 AND state_date <= $3
		ORDER BY state_date ASC`, dayStateColumns),
		assignmentID.String(), start.Time(), end.Time())
	if err != nil {
		return nil, err
	}

	states := make([]*assimilation.DayState, 0, len(rows))
	for _, row := range rows {
		state, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}
