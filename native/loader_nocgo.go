//go:build !windows && !cgo

package native

import (
	"errors"
	"fmt"
)

var errNoCgo = errors.New("native library loading requires cgo")

type noLoader struct{}

// SystemLoader returns a loader that always fails; this binary was built
// without cgo so dlopen is unavailable.
func SystemLoader() Loader { return noLoader{} }

func (noLoader) Open(name string) (Handle, error) {
	return 0, fmt.Errorf("%s: %w", name, errNoCgo)
}

func (noLoader) SetSearchDir(string) error { return nil }

func (noLoader) Symbol(Handle, string) (uintptr, error) { return 0, errNoCgo }
