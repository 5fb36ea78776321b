//go:build !windows && cgo

package native

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

type dlLoader struct{}

// SystemLoader returns the dlopen based loader.
func SystemLoader() Loader { return dlLoader{} }

func (dlLoader) Open(name string) (Handle, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	// dlerror reports the last failure on the calling thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h := C.dlopen(cname, C.RTLD_LAZY|C.RTLD_GLOBAL)
	if h == nil {
		return 0, fmt.Errorf("dlopen %s: %w", name, dlerror())
	}
	return Handle(uintptr(h)), nil
}

// SetSearchDir is a no-op, the dynamic linker reads its search path from the
// environment at process start.
func (dlLoader) SetSearchDir(string) error { return nil }

func (dlLoader) Symbol(h Handle, name string) (uintptr, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	sym := C.dlsym(*(*unsafe.Pointer)(unsafe.Pointer(&h)), cname)
	if sym == nil {
		return 0, fmt.Errorf("dlsym %s: %w", name, dlerror())
	}
	return uintptr(sym), nil
}

func dlerror() error {
	if msg := C.dlerror(); msg != nil {
		return errors.New(C.GoString(msg))
	}
	return errors.New("unknown error")
}
