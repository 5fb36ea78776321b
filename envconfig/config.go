package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

var (
	// Set via GAPI_DEBUG in the environment: 0 off, 1 debug, 2 trace
	Debug int
	// Set via GAPI_PERL in the environment
	Interpreter string
	// Set via GAPI_SCRIPTS_DIR in the environment
	ScriptsDir string
	// Set via GAPI_GTK_DIR in the environment
	SearchDir string
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"GAPI_DEBUG":       {"GAPI_DEBUG", Debug, "Show additional debug information (e.g. GAPI_DEBUG=1, 2 for trace)"},
		"GAPI_PERL":        {"GAPI_PERL", Interpreter, "Interpreter used to run the parser scripts"},
		"GAPI_SCRIPTS_DIR": {"GAPI_SCRIPTS_DIR", ScriptsDir, "Directory containing gapi_pp.pl and gapi2xml.pl"},
		"GAPI_GTK_DIR":     {"GAPI_GTK_DIR", SearchDir, "Extra DLL search directory tried on Windows (default %LOCALAPPDATA%\\Gtk\\3.24)"},
		"GAPI_CONFIG":      {"GAPI_CONFIG", ConfigPath(), "Path to a TOML configuration file"},
		"GAPI_HOME":        {"GAPI_HOME", os.Getenv("GAPI_HOME"), "Directory holding .env and config.toml (default ~/.gapi)"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

// lookup prefers the environment over the config file
func lookup(key string) string {
	if v := clean(key); v != "" {
		return v
	}
	return strings.Trim(GetConfigValue(key), "\"' ")
}

func init() {
	LoadConfig()
}

// LoadConfig reads every setting again from the environment and the config
// file. The file is searched for anew on each call.
func LoadConfig() {
	forgetConfigFile()

	Debug = 0
	if debug := lookup("GAPI_DEBUG"); debug != "" {
		if n, err := strconv.Atoi(debug); err == nil {
			Debug = n
		} else if b, err := strconv.ParseBool(debug); err == nil {
			if b {
				Debug = 1
			}
		} else {
			Debug = 1
		}
	}

	Interpreter = lookup("GAPI_PERL")
	if Interpreter == "" {
		Interpreter = defaultInterpreter(runtime.GOOS)
	}

	ScriptsDir = lookup("GAPI_SCRIPTS_DIR")
	if ScriptsDir == "" {
		exe, err := os.Executable()
		if err != nil {
			slog.Error("failed to lookup executable path", "error", err)
		} else {
			if resolved, err := filepath.EvalSymlinks(exe); err == nil {
				exe = resolved
			}
			ScriptsDir = filepath.Dir(exe)
		}
	}

	SearchDir = lookup("GAPI_GTK_DIR")
}

func defaultInterpreter(goos string) string {
	if goos == "windows" {
		return `C:\Perl64\bin\perl.exe`
	}
	return "/usr/bin/perl"
}

// Preprocessor is the first pipeline stage script.
func Preprocessor() string {
	return filepath.Join(ScriptsDir, "gapi_pp.pl")
}

// Transformer is the second pipeline stage script.
func Transformer() string {
	return filepath.Join(ScriptsDir, "gapi2xml.pl")
}
