package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from a .env file into the process environment.
// ENV_PATH overrides defaultPath. A missing file is an error only when env is
// empty or "local"; deployed environments are expected to set variables directly.
// Variables already present in the environment are never overwritten.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		slog.Info("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		if isLocal(env) {
			slog.Error("Failed to load environment variables in local mode", "path", envPath, "error", err)
			return err
		}
		slog.Debug("Skipping .env", "env", env, "path", envPath)
		return nil
	}

	slog.Debug("Loaded .env", "path", envPath)
	return nil
}

func isLocal(env string) bool {
	return env == "" || env == "local"
}
