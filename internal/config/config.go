package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
}

var globalConfig *Config

// LoadConfig loads the environment-specific env file (.env.sandbox or
// .env.production) into the process environment. Missing files are not an
// error when the variables are already set by the caller's shell.
func LoadConfig(env string) error {
	filename := ".env." + env

	if err := godotenv.Load(filename); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load env file %s: %w", filename, err)
		}
	}

	globalConfig = &Config{Environment: env}
	return nil
}

func GetEnvironment() string {
	if globalConfig != nil {
		return globalConfig.Environment
	}
	return "unknown"
}

func Get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
