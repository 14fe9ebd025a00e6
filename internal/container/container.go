package container

import (
	"fmt"

	"aquafold/adapters/excel"
	"aquafold/adapters/postgres"
	"aquafold/app"
	"aquafold/internal"
	"aquafold/internal/assimilation"
	"aquafold/internal/config"
	"aquafold/internal/importer"
	"aquafold/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	AssignmentRepo  ports.AssignmentRepository
	ScenarioRepo    ports.ScenarioRepository
	MeasurementRepo ports.MeasurementRepository
	DailyStateRepo  ports.DailyStateRepository

	// Services
	RecomputeService *app.RecomputeService
	ImportService    *importer.Service
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{
		Config: cfg,
		Logger: internal.NewDefaultLogger(),
	}, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	c.DB = db

	c.AssignmentRepo = postgres.NewAssignmentRepository(db)
	c.ScenarioRepo = postgres.NewScenarioRepository(db)
	c.MeasurementRepo = postgres.NewMeasurementRepository(db)
	c.DailyStateRepo = postgres.NewDailyStateRepository(db)

	c.RecomputeService = app.NewRecomputeService(
		c.AssignmentRepo,
		c.ScenarioRepo,
		c.MeasurementRepo,
		c.DailyStateRepo,
		c.EnginePolicy(),
		c.Config.Engine.RecomputeConcurrency,
		c.Logger,
	)

	reader := excel.NewMeasurementReader(excel.DefaultImportConfig())
	c.ImportService = importer.NewService(reader, c.MeasurementRepo, c.Logger)

	c.Logger.Info("container initialized with database connection")
	return nil
}

// EnginePolicy converts configuration into the engine's policy constants
func (c *Container) EnginePolicy() assimilation.Policy {
	return assimilation.Policy{
		ModelMortalityConfidence: c.Config.Engine.ModelMortalityConfidence,
		ProfileConfidenceCap:     c.Config.Engine.ProfileConfidenceCap,
		ProfileSpreadWindowDays:  c.Config.Engine.ProfileSpreadWindowDays,
		SampledWeightConfidence:  c.Config.Engine.SampledWeightConfidence,
		BiasCorrectionFraction:   c.Config.Engine.BiasCorrectionFraction,
	}
}

// Shutdown closes held resources
func (c *Container) Shutdown() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
