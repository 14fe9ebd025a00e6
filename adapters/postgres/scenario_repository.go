package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aquafold/domain/core"
	"aquafold/domain/scenario"
	"aquafold/ports"

	"github.com/jmoiron/sqlx"
)

// ScenarioRepositoryImpl implements ScenarioRepository for PostgreSQL.
// Model bundles are stored with the model bodies as JSONB documents;
// scenario authoring owns the writes, this repository only reads.
type ScenarioRepositoryImpl struct {
	db *sqlx.DB
}

// NewScenarioRepository creates a new PostgreSQL scenario repository
func NewScenarioRepository(db *sqlx.DB) ports.ScenarioRepository {
	return &ScenarioRepositoryImpl{db: db}
}

type scenarioRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	StartDate      time.Time `db:"start_date"`
	InitialCount   int       `db:"initial_count"`
	InitialWeightG float64   `db:"initial_weight_g"`
	GrowthModel    []byte    `db:"growth_model"`
	MortalityModel []byte    `db:"mortality_model"`
	FeedModel      []byte    `db:"feed_model"`
	Constraints    []byte    `db:"constraints"`
}

func (r scenarioRow) toDomain() (*scenario.Scenario, error) {
	s := &scenario.Scenario{
		ID:             core.ScenarioID(r.ID),
		Name:           r.Name,
		StartDate:      core.DateOf(r.StartDate),
		InitialCount:   r.InitialCount,
		InitialWeightG: r.InitialWeightG,
	}
	if err := json.Unmarshal(r.GrowthModel, &s.Growth); err != nil {
		return nil, fmt.Errorf("failed to unmarshal growth model: %w", err)
	}
	if err := json.Unmarshal(r.MortalityModel, &s.Mortality); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mortality model: %w", err)
	}
	if len(r.FeedModel) > 0 {
		if err := json.Unmarshal(r.FeedModel, &s.Feed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal feed model: %w", err)
		}
	}
	if len(r.Constraints) > 0 {
		if err := json.Unmarshal(r.Constraints, &s.Constraints); err != nil {
			return nil, fmt.Errorf("failed to unmarshal constraints: %w", err)
		}
	}
	return s, nil
}

const scenarioColumns = `id, name, start_date, initial_count, initial_weight_g,
	growth_model, mortality_model, feed_model, constraints`

// GetScenario loads a scenario bundle by ID
func (r *ScenarioRepositoryImpl) GetScenario(ctx context.Context, id core.ScenarioID) (*scenario.Scenario, error) {
	var row scenarioRow
	err := r.db.GetContext(ctx, &row, fmt.Sprintf(`
		SELECT %s FROM scenarios WHERE id = $1`, scenarioColumns), id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrScenarioNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

// GetPinnedScenario resolves the scenario behind a pinned projection run
func (r *ScenarioRepositoryImpl) GetPinnedScenario(ctx context.Context, runID core.ProjectionRunID) (*scenario.Scenario, error) {
	var row scenarioRow
	err := r.db.GetContext(ctx, &row, fmt.Sprintf(`
		SELECT %s FROM scenarios s
		JOIN projection_runs pr ON pr.scenario_id = s.id
		WHERE pr.id = $1`,
		scenarioColumnsPrefixed("s")), runID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrScenarioNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

func scenarioColumnsPrefixed(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.name, %[1]s.start_date, %[1]s.initial_count,
		%[1]s.initial_weight_g, %[1]s.growth_model, %[1]s.mortality_model,
		%[1]s.feed_model, %[1]s.constraints`, alias)
}
