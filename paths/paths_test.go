package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHomeDirWithEnvVarSet(t *testing.T) {
	t.Setenv(homeEnvVar, "/haha/hihi")

	got, err := HomeDir()
	if err != nil {
		t.Fatalf("error on HomeDir(): %s", err)
	}

	want := "/haha/hihi"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHomeDirWithoutEnvVarSet(t *testing.T) {
	t.Setenv(homeEnvVar, "")

	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("error on UserHomeDir(): %s", err)
	}

	got, err := HomeDir()
	if err != nil {
		t.Fatalf("error on HomeDir(): %s", err)
	}

	want := filepath.Join(userHomeDir, ".gapi")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
