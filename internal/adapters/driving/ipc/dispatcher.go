package ipc

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/logger"
	"github.com/custodia-labs/famlink/internal/protocol"
)

// Request is a decoded query handed to a handler.
type Request struct {
	Query     *protocol.Query
	Payload   protocol.Payload
	Principal domain.Principal
}

// Result is what a handler answers. A non-empty ErrorCode produces a failed
// response that still carries Data.
type Result struct {
	Message   string
	Data      any
	ErrorCode string
}

// HandlerFunc handles one query type.
type HandlerFunc func(ctx context.Context, req *Request) (Result, error)

// Dispatcher routes queries by their normalized query type.
type Dispatcher struct {
	routes map[string]HandlerFunc
	policy domain.AccessPolicy
}

// NewDispatcher creates a dispatcher with the standard route table.
func NewDispatcher(ports *Ports, policy domain.AccessPolicy) (*Dispatcher, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	d := &Dispatcher{
		routes: make(map[string]HandlerFunc),
		policy: policy,
	}
	registerHandlers(d, &handlers{ports: ports})
	return d, nil
}

// Handle registers h for queryType, replacing any earlier handler.
func (d *Dispatcher) Handle(queryType string, h HandlerFunc) {
	d.routes[queryType] = h
}

// Routes returns the registered query types, sorted.
func (d *Dispatcher) Routes() []string {
	routes := make([]string, 0, len(d.routes))
	for r := range d.routes {
		routes = append(routes, r)
	}
	sort.Strings(routes)
	return routes
}

// Dispatch answers q. It never returns nil and never panics: unknown types
// yield NOT_IMPLEMENTED and handler panics yield INTERNAL_ERROR.
func (d *Dispatcher) Dispatch(ctx context.Context, q *protocol.Query) (resp *protocol.Response) {
	method := q.Method()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler %q panicked on request %s: %v", method, q.RequestID, r)
			resp = protocol.Fail(q.RequestID, protocol.CodeInternal, "internal error", fmt.Sprint(r))
		}
	}()

	handler, ok := d.routes[method]
	if !ok {
		logger.Warn("no handler for query type %q (request %s)", method, q.RequestID)
		return protocol.Fail(q.RequestID, protocol.CodeNotImplemented, "unknown query type", method)
	}

	payload, err := q.DecodePayload()
	if err != nil {
		return failure(q, err)
	}

	req := &Request{
		Query:     q,
		Payload:   payload,
		Principal: d.policy.Resolve(q.Sender),
	}

	logger.Debug("dispatch %s request %s from %q", method, q.RequestID, q.Sender)
	result, err := handler(ctx, req)
	if err != nil {
		return failure(q, err)
	}

	resp, err = protocol.Succeed(q, result.Message, result.Data)
	if err != nil {
		return failure(q, err)
	}
	if result.ErrorCode != "" {
		resp.Success = false
		resp.ErrorCode = result.ErrorCode
	}
	return resp
}

// failure maps a handler error onto an error code.
func failure(q *protocol.Query, err error) *protocol.Response {
	switch {
	case errors.Is(err, protocol.ErrInvalidPayload), errors.Is(err, domain.ErrInvalidInput):
		return protocol.Fail(q.RequestID, protocol.CodeInvalidPayload, "invalid payload", err.Error())
	case errors.Is(err, domain.ErrValidation):
		return protocol.Fail(q.RequestID, protocol.CodeValidation, err.Error(), "")
	case errors.Is(err, domain.ErrUnauthorized):
		return protocol.Fail(q.RequestID, protocol.CodeUnauthorized, err.Error(), "")
	case errors.Is(err, domain.ErrNotFound):
		return protocol.Fail(q.RequestID, protocol.CodeNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrNotImplemented):
		return protocol.Fail(q.RequestID, protocol.CodeNotImplemented, err.Error(), "")
	default:
		logger.Error("request %s (%s) failed: %v", q.RequestID, q.Method(), err)
		return protocol.Fail(q.RequestID, protocol.CodeInternal, "internal error", err.Error())
	}
}
