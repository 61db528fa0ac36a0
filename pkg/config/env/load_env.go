package env

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from .env files. ENV_PATH replaces
// defaultPaths when set. Variables already present in the environment win.
// A missing file is an error only in local mode (env "local" or empty).
func LoadDotEnv(env string, defaultPaths ...string) error {
	paths := defaultPaths
	if envPath := os.Getenv("ENV_PATH"); envPath != "" {
		paths = []string{envPath}
	} else {
		slog.Debug("ENV_PATH is not set, using default paths", "paths", defaultPaths)
	}
	if len(paths) == 0 {
		return errors.New("no .env path given")
	}

	err := godotenv.Load(paths...)
	if err != nil {
		if env == "local" || env == "" {
			return err
		}
		slog.Debug("Skipping .env ...", "env", env, "error", err)
	}

	return nil
}
