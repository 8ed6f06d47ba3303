package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	LLM       LLMConfig
	Archive   ArchiveConfig
	Quotation QuotationConfig
}

// LLMConfig holds extraction-model configuration.
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// ArchiveConfig holds the optional record-archive configuration.
type ArchiveConfig struct {
	Driver string // "sqlite" or "postgres"; empty disables archiving
	DSN    string
}

// QuotationConfig holds quotation-analysis knobs.
type QuotationConfig struct {
	// MaxPages bounds how many leading pages of a quotation are
	// analyzed. Rate tables can spill past page one, unlike invoices.
	MaxPages int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 90*time.Second),
		},
		Archive: ArchiveConfig{
			Driver: getEnv("ARCHIVE_DRIVER", ""),
			DSN:    getEnv("ARCHIVE_DSN", ""),
		},
		Quotation: QuotationConfig{
			MaxPages: getEnvAsInt("QUOTATION_MAX_PAGES", 3),
		},
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Archive.Driver != "" && c.Archive.DSN == "" {
		return NewAppError("CONFIG_ERROR", "ARCHIVE_DSN is required when ARCHIVE_DRIVER is set", ErrInvalidInput)
	}
	if c.Quotation.MaxPages <= 0 {
		return NewAppError("CONFIG_ERROR", "QUOTATION_MAX_PAGES must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing.
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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
