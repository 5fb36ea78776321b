package envconfig

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetConfigFile forgets the loaded file so the next lookup reads it again.
func resetConfigFile(t *testing.T) {
	t.Helper()
	forgetConfigFile()
	t.Cleanup(forgetConfigFile)
}

func TestConfigDebug(t *testing.T) {
	t.Setenv("GAPI_CONFIG", filepath.Join(t.TempDir(), "none.toml"))
	resetConfigFile(t)

	cases := map[string]int{
		"":      0,
		"false": 0,
		"0":     0,
		"1":     1,
		"true":  1,
		"2":     2,
		"yes":   1,
	}

	for value, expect := range cases {
		t.Run(value, func(t *testing.T) {
			t.Setenv("GAPI_DEBUG", value)
			LoadConfig()
			require.Equal(t, expect, Debug)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	t.Setenv("GAPI_CONFIG", filepath.Join(t.TempDir(), "none.toml"))
	t.Setenv("GAPI_PERL", "")
	t.Setenv("GAPI_SCRIPTS_DIR", "")
	t.Setenv("GAPI_GTK_DIR", "")
	resetConfigFile(t)
	LoadConfig()

	assert.NotEmpty(t, Interpreter)
	assert.NotEmpty(t, ScriptsDir)
	assert.Empty(t, SearchDir)
	assert.Equal(t, filepath.Join(ScriptsDir, "gapi_pp.pl"), Preprocessor())
	assert.Equal(t, filepath.Join(ScriptsDir, "gapi2xml.pl"), Transformer())

	assert.Equal(t, `C:\Perl64\bin\perl.exe`, defaultInterpreter("windows"))
	assert.Equal(t, "/usr/bin/perl", defaultInterpreter("linux"))
}

func TestConfigEnvironment(t *testing.T) {
	t.Setenv("GAPI_CONFIG", filepath.Join(t.TempDir(), "none.toml"))
	t.Setenv("GAPI_PERL", `"/opt/perl/bin/perl"`)
	t.Setenv("GAPI_SCRIPTS_DIR", " /usr/lib/gapi ")
	t.Setenv("GAPI_GTK_DIR", "/opt/gtk")
	resetConfigFile(t)
	LoadConfig()

	assert.Equal(t, "/opt/perl/bin/perl", Interpreter)
	assert.Equal(t, "/usr/lib/gapi", ScriptsDir)
	assert.Equal(t, "/opt/gtk", SearchDir)
	assert.Equal(t, "/opt/perl/bin/perl", Values()["GAPI_PERL"])
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[pipeline]
interpreter = "/usr/local/bin/perl"
scripts_dir = "/srv/gapi"

[native]
search_dir = "D:/gtk/bin"

[logging]
debug = 2
`), 0o644))

	t.Setenv("GAPI_CONFIG", path)
	t.Setenv("GAPI_PERL", "")
	t.Setenv("GAPI_SCRIPTS_DIR", "/from/env")
	t.Setenv("GAPI_GTK_DIR", "")
	t.Setenv("GAPI_DEBUG", "")
	resetConfigFile(t)
	LoadConfig()

	assert.Equal(t, path, ConfigPath())
	assert.Equal(t, "/usr/local/bin/perl", Interpreter)
	assert.Equal(t, "/from/env", ScriptsDir)
	assert.Equal(t, "D:/gtk/bin", SearchDir)
	assert.Equal(t, 2, Debug)
}

func TestLoadConfigRereadsFile(t *testing.T) {
	t.Setenv("GAPI_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("GAPI_SCRIPTS_DIR", "")
	t.Cleanup(forgetConfigFile)
	LoadConfig()
	require.Empty(t, ConfigPath())

	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[pipeline]\nscripts_dir = \"/srv/gapi\"\n"), 0o644))
	t.Setenv("GAPI_CONFIG", path)
	LoadConfig()

	assert.Equal(t, path, ConfigPath())
	assert.Equal(t, "/srv/gapi", ScriptsDir)
}

func TestConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[pipeline\n"), 0o644))

	t.Setenv("GAPI_CONFIG", path)
	t.Setenv("GAPI_PERL", "")
	resetConfigFile(t)
	LoadConfig()

	assert.Empty(t, ConfigPath())
	assert.Equal(t, defaultInterpreter(runtime.GOOS), Interpreter)
}

func TestGenerateExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(GenerateExampleConfig()), 0o644))

	t.Setenv("GAPI_CONFIG", path)
	resetConfigFile(t)
	require.Equal(t, "/usr/lib/gapi", GetConfigValue("GAPI_SCRIPTS_DIR"))
}

func TestGetConfigPaths(t *testing.T) {
	t.Setenv("GAPI_CONFIG", "/etc/gapi.toml")
	assert.Equal(t, []string{"/etc/gapi.toml"}, GetConfigPaths())

	home := t.TempDir()
	t.Setenv("GAPI_CONFIG", "")
	t.Setenv("GAPI_HOME", home)
	got := GetConfigPaths()
	require.NotEmpty(t, got)
	assert.Equal(t, filepath.Join(home, "config.toml"), got[len(got)-1])
}
