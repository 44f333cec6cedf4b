// Package hostproc abstracts the host's process table, listening-port table
// and signal delivery behind small capability interfaces so the resolution
// and termination logic stays backend-agnostic and testable.
package hostproc

// ProcessInfo is one row of the host process table.
type ProcessInfo struct {
	PID     int
	Command string
}

// Inspector exposes the read-only process table queries the resolver and the
// termination protocol need.
type Inspector interface {
	// Alive probes a process id with a zero signal without affecting it.
	Alive(pid int) bool
	// Processes lists the current process table with command lines.
	Processes() ([]ProcessInfo, error)
}

// Signaller delivers termination signals to a process id. Implementations
// treat a target that vanished before delivery as success.
type Signaller interface {
	Terminate(pid int) error
	Kill(pid int) error
}

// PortResolver maps a listening TCP port to its owning process id. A zero pid
// with a nil error means no listener was found on the port.
type PortResolver interface {
	PidOfPort(port int) (int, error)
	// Describe returns a short name for the backend, for log lines.
	Describe() string
}
