// Package ipc serves the query/response protocol inside the worker process.
// A Server reads queries from a protocol.Channel, a Dispatcher routes each
// one through a static table of handlers, and every query gets exactly one
// response, including queries that fail to decode or whose handler panics.
package ipc

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("ipc: search service is required")

// ErrMissingLibraryService is returned when the library service is not provided.
var ErrMissingLibraryService = errors.New("ipc: library service is required")
