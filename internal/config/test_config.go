package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration for integration tests from TEST_* variables.
// If the database variables are not set, an empty Config is returned so tests can skip.
func LoadTestConfig() (*Config, error) {
	// .env is optional, try the repository root as well
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Database.Host = os.Getenv("TEST_DB_HOST")
	if cfg.Database.Host == "" {
		return cfg, nil
	}

	dbPortStr := os.Getenv("TEST_DB_PORT")
	if dbPortStr == "" {
		dbPortStr = "3306"
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	cfg.Database.User = os.Getenv("TEST_DB_USER")
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = os.Getenv("TEST_DB_NAME")
	if cfg.Database.User == "" || cfg.Database.DBName == "" {
		return &Config{}, nil
	}
	cfg.Database.MaxOpenConns = 5

	cfg.JWT.Secret = stringEnv("TEST_JWT_SECRET", "integration-secret")
	cfg.JWT.TokenExpiry = time.Hour
	cfg.FrontendURL = "http://localhost:5173"

	return cfg, nil
}
