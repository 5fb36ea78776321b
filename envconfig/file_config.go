package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/gapi-tools/gapi/paths"
)

// Config represents the TOML configuration structure
type Config struct {
	Pipeline struct {
		Interpreter string `toml:"interpreter"`
		ScriptsDir  string `toml:"scripts_dir"`
	} `toml:"pipeline"`

	Native struct {
		SearchDir string `toml:"search_dir"`
	} `toml:"native"`

	Logging struct {
		Debug int `toml:"debug"`
	} `toml:"logging"`
}

var (
	configOnce sync.Once
	config     *Config
	configPath string
)

// GetConfigPaths returns the list of possible config file paths for the current OS
func GetConfigPaths() []string {
	if p := clean("GAPI_CONFIG"); p != "" {
		return []string{p}
	}

	var candidates []string
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			candidates = append(candidates, filepath.Join(appData, "gapi", "config.toml"))
		}
	case "darwin":
		if home != "" {
			candidates = append(candidates, filepath.Join(home, "Library", "Application Support", "gapi", "config.toml"))
		}
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			candidates = append(candidates, filepath.Join(xdgConfig, "gapi", "config.toml"))
		}
		if home != "" {
			candidates = append(candidates, filepath.Join(home, ".config", "gapi", "config.toml"))
		}
	}

	if dir, err := paths.HomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.toml"))
	}
	return candidates
}

// loadConfig loads the first available configuration file
func loadConfig() (*Config, string, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			var cfg Config
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, "", fmt.Errorf("error parsing config file %s: %w", path, err)
			}
			return &cfg, path, nil
		}
	}
	return nil, "", nil
}

// GetConfigValue returns the value for a given environment variable key from the config file
func GetConfigValue(key string) string {
	configOnce.Do(func() {
		var err error
		config, configPath, err = loadConfig()
		if err != nil {
			slog.Warn("failed to load config file", "error", err)
		} else if config != nil {
			slog.Debug("loaded config file", "path", configPath)
		}
	})

	if config == nil {
		return ""
	}

	switch key {
	case "GAPI_PERL":
		return config.Pipeline.Interpreter
	case "GAPI_SCRIPTS_DIR":
		return config.Pipeline.ScriptsDir
	case "GAPI_GTK_DIR":
		return config.Native.SearchDir
	case "GAPI_DEBUG":
		if config.Logging.Debug > 0 {
			return fmt.Sprintf("%d", config.Logging.Debug)
		}
	}

	return ""
}

// forgetConfigFile drops the cached file so the next lookup searches for it
// again, picking up a GAPI_CONFIG that changed since.
func forgetConfigFile() {
	configOnce = sync.Once{}
	config = nil
	configPath = ""
}

// ConfigPath is the file the current configuration was read from, if any.
func ConfigPath() string {
	GetConfigValue("")
	return configPath
}

// GenerateExampleConfig returns a commented example TOML configuration
func GenerateExampleConfig() string {
	return `# gapi-parser configuration file
# Environment variables (GAPI_PERL, GAPI_SCRIPTS_DIR, GAPI_GTK_DIR, GAPI_DEBUG)
# take precedence over the values below.

[pipeline]
# Interpreter used to run the parser scripts
interpreter = "/usr/bin/perl"
# Directory containing gapi_pp.pl and gapi2xml.pl (default: next to the executable)
scripts_dir = "/usr/lib/gapi"

[native]
# Extra DLL search directory tried on Windows
search_dir = ""

[logging]
# 0 = info, 1 = debug, 2 = trace
debug = 0
`
}
