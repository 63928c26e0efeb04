// Package process starts, probes and stops the worker child process.
//
// The Supervisor holds no global state: Start returns a Handle that the
// caller owns and passes back to IsRunning and Stop. The child's stdin and
// stdout are exposed for the protocol channel; its stderr is drained line
// by line on a tracked goroutine so the child never blocks on a full pipe.
package process
