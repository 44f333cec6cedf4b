// Package resolve maps logical roles to live operating-system processes.
package resolve

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/stackdown/stackdown/internal/config"
	"github.com/stackdown/stackdown/internal/hostproc"
)

// Strategy names the mechanism that produced a resolution.
type Strategy string

const (
	StrategyNone    Strategy = ""
	StrategyPidFile Strategy = "pidfile"
	StrategyPort    Strategy = "port"
	StrategyPattern Strategy = "pattern"
)

// Resolver determines the single live process currently embodying a role.
// Resolution is read-only with respect to on-disk state and is performed
// fresh on every call; nothing is cached.
type Resolver struct {
	env   *config.Env
	insp  hostproc.Inspector
	ports hostproc.PortResolver
	self  int
}

// New constructs a resolver over the provided host capabilities.
func New(env *config.Env, insp hostproc.Inspector, ports hostproc.PortResolver) *Resolver {
	return &Resolver{env: env, insp: insp, ports: ports, self: os.Getpid()}
}

// Resolve tries the role's strategies in priority order: recorded pid-file,
// configured listening port, then command-line pattern. Each candidate is
// verified alive before it is accepted, so a stale pid-file falls through to
// the later strategies. A zero pid with StrategyNone means the role has no
// live process; an accompanying error reports strategies that misbehaved on
// the way, which callers may surface without treating the role as failed.
func (r *Resolver) Resolve(role *config.Role) (int, Strategy, error) {
	var firstErr error

	if role.PidFile != "" {
		if pid := readPidFile(role.PidFile); pid > 0 && r.insp.Alive(pid) {
			return pid, StrategyPidFile, nil
		}
	}

	if role.Port != nil {
		pid, err := r.resolvePort(role)
		if err != nil {
			firstErr = err
		} else if pid > 0 && r.insp.Alive(pid) {
			return pid, StrategyPort, nil
		}
	}

	if role.Pattern != "" {
		pid, err := r.resolvePattern(role.Pattern)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if pid > 0 {
			return pid, StrategyPattern, nil
		}
	}

	return 0, StrategyNone, firstErr
}

func (r *Resolver) resolvePort(role *config.Role) (int, error) {
	port, err := r.env.PortFor(role.Port)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", role.Name, err)
	}
	if port <= 0 {
		return 0, nil
	}
	pid, err := r.ports.PidOfPort(port)
	if err != nil {
		return 0, fmt.Errorf("%s: port %d: %w", role.Name, port, err)
	}
	return pid, nil
}

// resolvePattern picks the lowest pid whose command line contains the
// pattern. Lowest-pid selection keeps the choice deterministic when several
// processes match, and the resolver's own process is never a candidate.
func (r *Resolver) resolvePattern(pattern string) (int, error) {
	procs, err := r.insp.Processes()
	if err != nil {
		return 0, err
	}
	match := 0
	for _, proc := range procs {
		if proc.PID <= 0 || proc.PID == r.self {
			continue
		}
		if !strings.Contains(proc.Command, pattern) {
			continue
		}
		if match == 0 || proc.PID < match {
			match = proc.PID
		}
	}
	return match, nil
}

// readPidFile reads a recorded process id. Anything unreadable or
// non-positive reads as zero, meaning no process found.
func readPidFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid < 0 {
		return 0
	}
	return pid
}
