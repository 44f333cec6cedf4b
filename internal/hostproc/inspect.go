package hostproc

import (
	"fmt"
	"strings"

	"github.com/prometheus/procfs"
)

type hostInspector struct {
	fs    procfs.FS
	fsErr error
}

// NewInspector constructs an inspector backed by the host's procfs. When
// procfs is unavailable the liveness probe still works; only the process
// table listing degrades to an error.
func NewInspector() Inspector {
	fs, err := procfs.NewDefaultFS()
	return &hostInspector{fs: fs, fsErr: err}
}

func (h *hostInspector) Alive(pid int) bool {
	return alive(pid)
}

func (h *hostInspector) Processes() ([]ProcessInfo, error) {
	if h.fsErr != nil {
		return nil, fmt.Errorf("process table unavailable: %w", h.fsErr)
	}
	procs, err := h.fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		args, err := p.CmdLine()
		if err != nil || len(args) == 0 {
			// Kernel threads and already-exited entries have no cmdline.
			continue
		}
		out = append(out, ProcessInfo{PID: p.PID, Command: strings.Join(args, " ")})
	}
	return out, nil
}
