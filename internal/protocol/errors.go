package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

// Transport errors.
var (
	// ErrChannelClosed indicates the stream ended or the channel was closed.
	ErrChannelClosed = errors.New("channel closed")

	// ErrUnmatchedResponse indicates a response carried a requestId other
	// than the one in flight.
	ErrUnmatchedResponse = errors.New("response does not match request")

	// ErrClientBroken indicates an earlier request was abandoned mid-flight,
	// so responses can no longer be correlated.
	ErrClientBroken = errors.New("client abandoned an in-flight request")

	// ErrInvalidPayload indicates a payload does not fit its query type.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrUnexpectedReply indicates a well-formed response with the wrong content.
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// Response error codes.
const (
	CodeNotImplemented = "NOT_IMPLEMENTED"
	CodeInvalidMessage = "INVALID_MESSAGE"
	CodeInvalidPayload = "INVALID_PAYLOAD"
	CodeValidation     = "VALIDATION_ERROR"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
)

// DecodeError reports a record that could not be decoded. The channel
// remains usable after a DecodeError.
type DecodeError struct {
	// Line is the raw record without its newline.
	Line []byte

	// RequestID is recovered from the record when it is valid JSON.
	RequestID string

	Err error
}

func newDecodeError(line []byte, err error) *DecodeError {
	var probe struct {
		RequestID string `json:"requestId"`
	}
	_ = json.Unmarshal(line, &probe)
	return &DecodeError{Line: append([]byte(nil), line...), RequestID: probe.RequestID, Err: err}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode record: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RemoteError is a failed Response seen from the sending side.
// It matches the domain sentinel that corresponds to its code.
type RemoteError struct {
	Code    string
	Message string
	Details string
}

func (e *RemoteError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is maps error codes onto domain sentinels.
func (e *RemoteError) Is(target error) bool {
	switch e.Code {
	case CodeNotFound:
		return target == domain.ErrNotFound
	case CodeValidation:
		return target == domain.ErrValidation
	case CodeUnauthorized:
		return target == domain.ErrUnauthorized
	case CodeNotImplemented:
		return target == domain.ErrNotImplemented
	case CodeInvalidPayload:
		return target == ErrInvalidPayload
	default:
		return false
	}
}
