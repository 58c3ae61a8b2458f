// Package config holds the environment-driven settings for the PDF core.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultMaxFileSizeMB is the upload size ceiling applied by the validator.
	DefaultMaxFileSizeMB = int64(100)

	// DefaultToolTimeout bounds external tool invocations (e.g. tesseract).
	DefaultToolTimeout = 30 * time.Second

	// DefaultResultTTL is how long stored task results stay retrievable.
	DefaultResultTTL = time.Hour

	MaxFileSizeEnvVar = "PDFOPS_MAX_FILE_SIZE_MB"
	ToolTimeoutEnvVar = "PDFOPS_TOOL_TIMEOUT"
	TempDirEnvVar     = "PDFOPS_TEMP_DIR"
	ResultTTLEnvVar   = "PDFOPS_RESULT_TTL"
)

// Config is resolved once at startup and injected; the core reads no
// environment variables after construction.
type Config struct {
	// MaxFileSizeMB is the per-file size ceiling in megabytes.
	MaxFileSizeMB int64

	// ToolTimeout is the ceiling for a single external tool invocation.
	ToolTimeout time.Duration

	// TempDir is where transforms place intermediate artifacts.
	TempDir string

	// ResultTTL bounds how long task results are kept for later retrieval.
	ResultTTL time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxFileSizeMB: DefaultMaxFileSizeMB,
		ToolTimeout:   DefaultToolTimeout,
		TempDir:       os.TempDir(),
		ResultTTL:     DefaultResultTTL,
	}
}

// FromEnv loads configuration from the environment, falling back to defaults
// for anything unset or unparsable.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv(MaxFileSizeEnvVar); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxFileSizeMB = n
		}
	}
	if v := os.Getenv(ToolTimeoutEnvVar); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ToolTimeout = d
		}
	}
	if v := os.Getenv(TempDirEnvVar); v != "" {
		cfg.TempDir = v
	}
	if v := os.Getenv(ResultTTLEnvVar); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ResultTTL = d
		}
	}

	return cfg
}

// LoadDotEnv loads a .env file if one exists next to the process. A missing
// file is not an error.
func LoadDotEnv() {
	_ = godotenv.Load()
}
