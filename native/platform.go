package native

import (
	"os"
	"path/filepath"
	"runtime"
)

// Platform selects which candidate name is tried first.
type Platform int

const (
	Posix Platform = iota
	Windows
	Darwin
)

func (p Platform) String() string {
	switch p {
	case Windows:
		return "windows"
	case Darwin:
		return "darwin"
	default:
		return "posix"
	}
}

// CurrentPlatform classifies the running operating system.
func CurrentPlatform() Platform {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) Platform {
	switch goos {
	case "windows":
		return Windows
	case "darwin", "ios":
		return Darwin
	default:
		return Posix
	}
}

// primaryIndex is the position of this platform's own name in a candidate list.
func (p Platform) primaryIndex() int {
	switch p {
	case Windows:
		return 0
	case Darwin:
		return 2
	default:
		return 1
	}
}

// DefaultSearchDir is the per-user location the bundled GTK installer writes
// its DLLs to. It is only consulted on Windows.
func DefaultSearchDir() string {
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		return ""
	}
	return filepath.Join(localAppData, "Gtk", "3.24")
}
