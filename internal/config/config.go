// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBPath       string
	WorkspaceDir string
	ActivityDays int
	DebugMode    bool
}

// Load reads the environment. A missing .env is fine; every value has a
// default.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("SERIAL_DASHBOARD_DB", ""),
		WorkspaceDir: getEnv("SERIAL_DASHBOARD_WORKSPACE", ""),
		ActivityDays: getEnvInt("SERIAL_DASHBOARD_ACTIVITY_DAYS", 30),
		DebugMode:    getEnvBool("DEBUG_MODE", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
