package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/gapi-tools/gapi/paths"
)

// LoadDotEnvFromGapiFolder loads environment variables from the .env file in
// the gapi home directory (~/.gapi unless GAPI_HOME is set). A missing file is
// not an error. Variables already set in the environment win over the file.
func LoadDotEnvFromGapiFolder() error {
	home, err := paths.HomeDir()
	if err != nil {
		return fmt.Errorf("failed to get gapi home directory: %w", err)
	}

	return loadDotEnv(filepath.Join(home, ".env"))
}

func loadDotEnv(envPath string) error {
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to check if .env file exists: %w", err)
	}

	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("could not load %s: %w", envPath, err)
	}

	return nil
}
