package config

import (
	"os"
	"strconv"

	"aquafold/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Engine   EngineConfig
	Import   ImportConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// EngineConfig holds the assimilation engine's policy constants.
// Defaults match the production fallback rules; tests and staging can
// override per environment.
type EngineConfig struct {
	ModelMortalityConfidence float64
	ProfileConfidenceCap     float64
	ProfileSpreadWindowDays  int
	SampledWeightConfidence  float64
	BiasCorrectionFraction   float64
	RecomputeConcurrency     int
}

// ImportConfig holds spreadsheet import settings
type ImportConfig struct {
	WorkbookPath string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Engine: EngineConfig{
			ModelMortalityConfidence: getEnvFloatOrDefault("MODEL_MORTALITY_CONFIDENCE", 0.4),
			ProfileConfidenceCap:     getEnvFloatOrDefault("PROFILE_CONFIDENCE_CAP", 0.5),
			ProfileSpreadWindowDays:  getEnvIntOrDefault("PROFILE_SPREAD_WINDOW_DAYS", 7),
			SampledWeightConfidence:  getEnvFloatOrDefault("SAMPLED_WEIGHT_CONFIDENCE", 0.9),
			BiasCorrectionFraction:   getEnvFloatOrDefault("BIAS_CORRECTION_FRACTION", 0.05),
			RecomputeConcurrency:     getEnvIntOrDefault("RECOMPUTE_CONCURRENCY", 4),
		},
		Import: ImportConfig{
			WorkbookPath: getEnvOrDefault("IMPORT_WORKBOOK", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Engine.ModelMortalityConfidence < 0 || config.Engine.ModelMortalityConfidence > 1 {
		return errors.ConfigInvalid("MODEL_MORTALITY_CONFIDENCE must be in [0,1]")
	}
	if config.Engine.ProfileConfidenceCap < 0 || config.Engine.ProfileConfidenceCap > 1 {
		return errors.ConfigInvalid("PROFILE_CONFIDENCE_CAP must be in [0,1]")
	}
	if config.Engine.BiasCorrectionFraction <= 0 || config.Engine.BiasCorrectionFraction >= 1 {
		return errors.ConfigInvalid("BIAS_CORRECTION_FRACTION must be in (0,1)")
	}
	if config.Engine.RecomputeConcurrency < 1 {
		return errors.ConfigInvalid("RECOMPUTE_CONCURRENCY must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
