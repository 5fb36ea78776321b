package native

import (
	"fmt"

	"golang.org/x/sys/windows"
)

type winLoader struct{}

// SystemLoader returns the LoadLibrary based loader.
func SystemLoader() Loader { return winLoader{} }

func (winLoader) Open(name string) (Handle, error) {
	h, err := windows.LoadLibrary(name)
	if err != nil {
		return 0, fmt.Errorf("LoadLibrary %s: %w", name, err)
	}
	return Handle(h), nil
}

func (winLoader) SetSearchDir(dir string) error {
	return windows.SetDllDirectory(dir)
}

func (winLoader) Symbol(h Handle, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(h), name)
}
