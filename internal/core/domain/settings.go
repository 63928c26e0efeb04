package domain

import (
	"runtime"
	"time"
)

const unknownDescription = "Unknown"

// WorkerMode selects the protocol the worker speaks on stdio.
type WorkerMode string

// Available worker modes.
const (
	// WorkerModeIPC speaks the line-delimited query/response protocol.
	WorkerModeIPC WorkerMode = "ipc"

	// WorkerModeMCP serves the Model Context Protocol.
	WorkerModeMCP WorkerMode = "mcp"
)

// IsValid returns true if the worker mode is recognised.
func (m WorkerMode) IsValid() bool {
	switch m {
	case WorkerModeIPC, WorkerModeMCP:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m WorkerMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m WorkerMode) Description() string {
	switch m {
	case WorkerModeIPC:
		return "IPC (line-delimited JSON queries)"
	case WorkerModeMCP:
		return "MCP (Model Context Protocol over stdio)"
	default:
		return unknownDescription
	}
}

// Settings holds the resolved application configuration.
type Settings struct {
	Worker WorkerSettings
	Search SearchSettings
	Store  StoreSettings
	Import ImportSettings
	Access AccessPolicy
}

// WorkerSettings configures how the host launches and stops the worker.
type WorkerSettings struct {
	// Executable is the worker binary. Empty means the running binary.
	Executable string

	// Mode is passed to the worker as --mode.
	Mode WorkerMode

	// StopGrace is how long each shutdown step waits for the worker to exit.
	StopGrace time.Duration

	// Library is a glob of seed files imported at worker start.
	Library string

	// Watch re-imports the seed files when they change.
	Watch bool
}

// SearchSettings configures the search service.
type SearchSettings struct {
	// MaxResults applies when a query carries no positive limit.
	MaxResults int
}

// StoreSettings configures the in-memory repository.
type StoreSettings struct {
	// Shards is the number of lock stripes.
	Shards int
}

// ImportSettings configures bulk imports.
type ImportSettings struct {
	// PoolSize is the number of concurrent import workers.
	PoolSize int
}

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Worker: WorkerSettings{
			Mode:      WorkerModeIPC,
			StopGrace: 5 * time.Second,
		},
		Search: SearchSettings{
			MaxResults: DefaultMaxResults,
		},
		Store: StoreSettings{
			Shards: 32,
		},
		Import: ImportSettings{
			PoolSize: max(1, runtime.NumCPU()/2),
		},
		Access: AccessPolicy{
			DefaultRole: RoleAdmin,
		},
	}
}

// AllWorkerModes returns all available worker modes.
func AllWorkerModes() []WorkerMode {
	return []WorkerMode{WorkerModeIPC, WorkerModeMCP}
}
