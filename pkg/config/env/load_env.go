// Package env layers a .env file under the process environment.
package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from a .env file into the environment.
// ENV_PATH overrides defaultPath when set. Outside local mode a missing
// file is not an error; deployed environments inject variables directly.
func LoadDotEnv(env string, defaultPath string) error {
	path := os.Getenv("ENV_PATH")
	if path == "" {
		path = defaultPath
	}

	if err := godotenv.Load(path); err != nil {
		if env == "local" || env == "" {
			slog.Error("Failed to load .env file", "path", path, "error", err)
			return err
		}
		slog.Debug("No .env file, using process environment", "path", path)
	}

	return nil
}
