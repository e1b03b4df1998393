// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Pipeline defaults.
const (
	DefaultMaxRecords     = 20 // trimmed sample size per data block
	DefaultMaxSamples     = 5  // representative values per field summary
	DefaultMaxSuggestions = 4  // view descriptors per schema summary
	DefaultGridColumns    = 12
	DefaultBaseRowHeight  = 40
	DefaultContractCache  = 64
)

// Config holds all configuration for the panel pipeline.
type Config struct {
	MaxRecords        int // PANEL_MAX_RECORDS
	MaxSamples        int // PANEL_MAX_SAMPLE_VALUES
	MaxSuggestions    int // PANEL_MAX_SUGGESTIONS
	GridColumns       int // PANEL_GRID_COLUMNS
	BaseRowHeight     int // PANEL_BASE_ROW_HEIGHT
	ContractCacheSize int // CONTRACT_CACHE_MAX_ITEMS

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB
	LogMaxBackups int    // LOG_MAX_BACKUPS
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS
	LogCompress   bool   // LOG_COMPRESS
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		MaxRecords:        getEnvInt("PANEL_MAX_RECORDS", DefaultMaxRecords),
		MaxSamples:        getEnvInt("PANEL_MAX_SAMPLE_VALUES", DefaultMaxSamples),
		MaxSuggestions:    getEnvInt("PANEL_MAX_SUGGESTIONS", DefaultMaxSuggestions),
		GridColumns:       getEnvInt("PANEL_GRID_COLUMNS", DefaultGridColumns),
		BaseRowHeight:     getEnvInt("PANEL_BASE_ROW_HEIGHT", DefaultBaseRowHeight),
		ContractCacheSize: getEnvInt("CONTRACT_CACHE_MAX_ITEMS", DefaultContractCache),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
