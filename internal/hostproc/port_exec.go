package hostproc

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"
)

// DetectPortResolver picks the port-to-pid backend once at startup: procfs
// when readable, otherwise the first available external tool. When nothing is
// available port lookups yield no pid, which downgrades the strategy rather
// than failing the run.
func DetectPortResolver() PortResolver {
	if fs, err := procfs.NewDefaultFS(); err == nil {
		if _, err := fs.NetTCP(); err == nil {
			return &procfsPorts{fs: fs}
		}
	}
	for _, tool := range []string{"lsof", "fuser"} {
		if _, err := exec.LookPath(tool); err == nil {
			return &execPorts{tool: tool}
		}
	}
	return noPorts{}
}

type execPorts struct {
	tool string
}

func (e *execPorts) Describe() string { return e.tool }

func (e *execPorts) PidOfPort(port int) (int, error) {
	var cmd *exec.Cmd
	switch e.tool {
	case "lsof":
		cmd = exec.Command("lsof", "-t", fmt.Sprintf("-iTCP:%d", port), "-sTCP:LISTEN")
	case "fuser":
		cmd = exec.Command("fuser", fmt.Sprintf("%d/tcp", port))
	default:
		return 0, fmt.Errorf("unknown port tool %q", e.tool)
	}
	out, err := cmd.Output()
	if err != nil {
		// Both tools exit non-zero when nothing listens on the port.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", e.tool, err)
	}
	return lowestPid(out), nil
}

// lowestPid parses whitespace-separated pids out of tool output and returns
// the smallest, or zero when none parse.
func lowestPid(out []byte) int {
	lowest := 0
	for _, field := range strings.Fields(string(out)) {
		pid, err := strconv.Atoi(field)
		if err != nil || pid <= 0 {
			continue
		}
		if lowest == 0 || pid < lowest {
			lowest = pid
		}
	}
	return lowest
}

type noPorts struct{}

func (noPorts) Describe() string { return "unavailable" }

func (noPorts) PidOfPort(int) (int, error) { return 0, nil }
