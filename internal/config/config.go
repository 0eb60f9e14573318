// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultFetchTimeoutSeconds = 20
	defaultFetchRatePerSecond  = 2.0
	defaultFetchBurst          = 4
	defaultMaxDownloadMB       = 32
	defaultMaxSearchResults    = 100
	defaultMaxUnprocessedCrawl = 200
)

// Config holds all runtime settings for the genealogy memory server.
type Config struct {
	// DataDir holds the SQLite database.
	DataDir string

	// AttachmentsDir is where fetched attachment files are written.
	AttachmentsDir string

	// Attachment fetch tuning.
	FetchTimeout       time.Duration
	FetchRatePerSecond float64
	FetchBurst         int
	MaxDownloadBytes   int64
	UserAgent          string

	// Result caps.
	MaxSearchResults     int
	MaxUnprocessedCrawls int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvFloatOrDefault(envVar string, defaultVal float64) float64 {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %g. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

// Load reads configuration from the environment, applying defaults.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	dataDir := getEnvOrDefault("GENEALOGY_DATA_DIR", filepath.Join(home, ".genealogy-memory"))
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for data dir '%s': %w", dataDir, err)
	}

	attachmentsDir := getEnvOrDefault("GENEALOGY_ATTACHMENTS_DIR", filepath.Join(absDataDir, "attachments"))
	absAttachmentsDir, err := filepath.Abs(attachmentsDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for attachments dir '%s': %w", attachmentsDir, err)
	}

	cfg := Config{
		DataDir:              absDataDir,
		AttachmentsDir:       absAttachmentsDir,
		FetchTimeout:         time.Duration(getEnvIntOrDefault("GENEALOGY_FETCH_TIMEOUT_SECONDS", defaultFetchTimeoutSeconds)) * time.Second,
		FetchRatePerSecond:   getEnvFloatOrDefault("GENEALOGY_FETCH_RATE", defaultFetchRatePerSecond),
		FetchBurst:           getEnvIntOrDefault("GENEALOGY_FETCH_BURST", defaultFetchBurst),
		MaxDownloadBytes:     int64(getEnvIntOrDefault("GENEALOGY_MAX_DOWNLOAD_MB", defaultMaxDownloadMB)) << 20,
		UserAgent:            getEnvOrDefault("GENEALOGY_USER_AGENT", "genealogy-memory/1.0"),
		MaxSearchResults:     getEnvIntOrDefault("GENEALOGY_MAX_SEARCH_RESULTS", defaultMaxSearchResults),
		MaxUnprocessedCrawls: getEnvIntOrDefault("GENEALOGY_MAX_UNPROCESSED_CRAWLS", defaultMaxUnprocessedCrawl),
	}

	return cfg, nil
}
