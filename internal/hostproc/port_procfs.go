package hostproc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"
)

// tcpListen is the socket state code for LISTEN in /proc/net/tcp.
const tcpListen = 0x0A

type procfsPorts struct {
	fs procfs.FS
}

func (p *procfsPorts) Describe() string { return "procfs" }

// PidOfPort finds the inodes of sockets listening on the port, then walks the
// process table's file descriptors to find the owners. When several processes
// share the socket (pre-fork servers) the lowest pid wins: that is the parent
// listener, not a forked child.
func (p *procfsPorts) PidOfPort(port int) (int, error) {
	inodes := make(map[uint64]struct{})
	collect := func(lines procfs.NetTCP) {
		for _, line := range lines {
			if line.St == tcpListen && int(line.LocalPort) == port {
				inodes[line.Inode] = struct{}{}
			}
		}
	}
	if tcp, err := p.fs.NetTCP(); err == nil {
		collect(tcp)
	}
	if tcp6, err := p.fs.NetTCP6(); err == nil {
		collect(tcp6)
	}
	if len(inodes) == 0 {
		return 0, nil
	}

	procs, err := p.fs.AllProcs()
	if err != nil {
		return 0, fmt.Errorf("list processes: %w", err)
	}
	owner := 0
	for _, proc := range procs {
		targets, err := proc.FileDescriptorTargets()
		if err != nil {
			// Reading another user's fd table needs privileges; skip.
			continue
		}
		for _, target := range targets {
			inode, ok := socketInode(target)
			if !ok {
				continue
			}
			if _, listening := inodes[inode]; listening {
				if owner == 0 || proc.PID < owner {
					owner = proc.PID
				}
				break
			}
		}
	}
	return owner, nil
}

func socketInode(target string) (uint64, bool) {
	if !strings.HasPrefix(target, "socket:[") || !strings.HasSuffix(target, "]") {
		return 0, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(target, "socket:["), "]")
	inode, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return inode, true
}
