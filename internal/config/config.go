// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ModelWeight pairs a prediction model name with its aggregation weight
type ModelWeight struct {
	Name   string
	Weight float64
}

// Config holds application configuration
type Config struct {
	DataDir         string  // Base directory for the snapshot database
	Port            int
	LogLevel        string
	DevMode         bool
	RiskFreeRate    float64 // Annual risk-free rate used by the Sharpe ratio
	Symbols         []string
	HistoryPeriod   string        // Yahoo period string for scheduled fetches
	SnapshotCron    string        // Cron expression for the analytics snapshot job
	MaintenanceCron string        // Cron expression for snapshot pruning
	RetentionDays   int           // Snapshots older than this are pruned
	Models          []ModelWeight // Prediction models and their weights
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "")
	if dataDir == "" {
		if _, err := os.Stat("../data"); err == nil {
			dataDir = "../data"
		} else {
			dataDir = "./data"
		}
	}

	models, err := parseModels(getEnv("MODELS", "momentum:0.5,mean_reversion:0.5"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:         dataDir,
		Port:            getEnvAsInt("PORT", 8001),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		RiskFreeRate:    getEnvAsFloat("RISK_FREE_RATE", 0.02),
		Symbols:         parseSymbols(getEnv("SYMBOLS", "SPY")),
		HistoryPeriod:   getEnv("HISTORY_PERIOD", "6mo"),
		SnapshotCron:    getEnv("SNAPSHOT_CRON", "0 18 * * MON-FRI"),
		MaintenanceCron: getEnv("MAINTENANCE_CRON", "30 3 * * *"),
		RetentionDays:   getEnvAsInt("SNAPSHOT_RETENTION_DAYS", 365),
		Models:          models,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded configuration for inconsistencies
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("at least one prediction model is required")
	}
	return nil
}

// parseModels parses a "name:weight,name:weight" model specification
func parseModels(spec string) ([]ModelWeight, error) {
	var models []ModelWeight

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid model entry %q, expected name:weight", entry)
		}

		weight, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight in model entry %q: %w", entry, err)
		}

		models = append(models, ModelWeight{
			Name:   strings.TrimSpace(parts[0]),
			Weight: weight,
		})
	}

	return models, nil
}

// parseSymbols splits a comma-separated symbol list, uppercasing each entry
func parseSymbols(spec string) []string {
	var symbols []string
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.ToUpper(strings.TrimSpace(entry))
		if entry != "" {
			symbols = append(symbols, entry)
		}
	}
	return symbols
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
