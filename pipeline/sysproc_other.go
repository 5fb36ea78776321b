//go:build !windows

package pipeline

import "syscall"

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}
