package main

import (
	"os"
	"time"

	"github.com/vyrodovalexey/routem/internal/util"
)

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a
// default. A bare number is read as seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := util.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
