package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from .env files.
// SWEEP_ENV_PATH overrides the default paths when set. Missing files are an
// error only in local mode (env "local" or empty) when strict is true.
func LoadDotEnv(env string, strict bool, defaultPaths ...string) error {
	paths := defaultPaths
	if p := os.Getenv("SWEEP_ENV_PATH"); p != "" {
		paths = []string{p}
	} else {
		slog.Debug("SWEEP_ENV_PATH is not set, using default paths", "defaultPaths", defaultPaths)
	}
	if len(paths) == 0 {
		return nil
	}

	err := godotenv.Load(paths...)
	if err != nil {
		if strict && (env == "local" || env == "") {
			slog.Error("Failed to load environment variables in local mode", "error", err)
			return err
		}
		slog.Debug("Skipping .env ...", "error", err)
	}

	return nil
}

// Lookup returns the value of key or fallback when it is unset or empty.
func Lookup(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
