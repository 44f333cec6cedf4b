//go:build windows

package hostproc

import (
	"fmt"
	"os"
	"syscall"
)

// Windows offers best-effort semantics only: there is no zero-signal probe
// and no polite terminate, so both paths fall back to process handles.

func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	defer p.Release()
	return p.Signal(syscall.Signal(0)) == nil
}

type windowsSignaller struct{}

// NewSignaller returns a signaller backed by process handles.
func NewSignaller() Signaller {
	return windowsSignaller{}
}

func (windowsSignaller) Terminate(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	defer p.Release()
	if err := p.Signal(os.Interrupt); err != nil {
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return nil
}

func (windowsSignaller) Kill(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	defer p.Release()
	if err := p.Kill(); err != nil {
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	return nil
}
