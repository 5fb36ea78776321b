package paths

import (
	"os"
	"path/filepath"
)

const homeEnvVar = "GAPI_HOME"

// HomeDir is the per-user directory holding the .env file and the fallback
// config.toml. GAPI_HOME overrides the default of ~/.gapi.
func HomeDir() (string, error) {
	ev := os.Getenv(homeEnvVar)
	if len(ev) > 0 {
		return ev, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gapi"), nil
}
