//go:build windows

package process

import "os"

// alive reports whether a process with pid exists. FindProcess opens a
// handle on windows and fails for unknown pids.
func alive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = p.Release()
	return true
}

// terminateProcess kills p; windows has no SIGTERM for console processes.
func terminateProcess(p *os.Process) error {
	return p.Kill()
}
