//go:build !windows

package hostproc

import (
	"errors"
	"fmt"
	"syscall"
)

func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to another user.
	return errors.Is(err, syscall.EPERM)
}

type unixSignaller struct{}

// NewSignaller returns a signaller that delivers real operating-system
// signals.
func NewSignaller() Signaller {
	return unixSignaller{}
}

func (unixSignaller) Terminate(pid int) error {
	return deliver(pid, syscall.SIGTERM)
}

func (unixSignaller) Kill(pid int) error {
	return deliver(pid, syscall.SIGKILL)
}

func deliver(pid int, sig syscall.Signal) error {
	if err := syscall.Kill(pid, sig); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return nil
}
