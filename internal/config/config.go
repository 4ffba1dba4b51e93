package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config aggregates the runtime settings of the rifero client.
type Config struct {
	// APIURL is the marketplace API base URL.
	APIURL string
	// DataDir holds the credential file and the log file.
	DataDir string
	// LogLevel is a zap level name ("debug", "info", "warn", "error").
	LogLevel string
	// LogEncoding is "json" or "console".
	LogEncoding string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; a missing file is
// fine.
func Load() (Config, error) {
	godotenv.Load() //nolint:errcheck // .env is optional

	cfg := Config{
		APIURL:      getEnv("RIFERO_API_URL", "https://api.rifero.app"),
		DataDir:     os.Getenv("RIFERO_DATA_DIR"),
		LogLevel:    getEnv("RIFERO_LOG_LEVEL", "info"),
		LogEncoding: getEnv("RIFERO_LOG_ENCODING", "json"),
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config: resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".rifero")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
