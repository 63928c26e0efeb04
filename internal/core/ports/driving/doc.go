// Package driving defines interfaces that external actors (the IPC
// dispatcher, the MCP server, the CLI) use to interact with core services.
// These are the "driving" ports in hexagonal architecture terminology.
//
// Implementations live in internal/core/services, and a remote
// implementation that forwards calls to a worker process lives in
// internal/adapters/driven/worker.
package driving
