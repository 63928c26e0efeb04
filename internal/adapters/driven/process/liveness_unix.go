//go:build !windows

package process

import (
	"errors"
	"os"
	"syscall"
)

// alive probes pid with signal 0. EPERM means the process exists but
// belongs to someone else.
func alive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

func terminateProcess(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
