package pipeline

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// stages are console programs; keep them from flashing a window
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{HideWindow: true, CreationFlags: windows.CREATE_NO_WINDOW}
}
