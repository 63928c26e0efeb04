package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Message types.
const (
	MessageTypeQuery    = "Query"
	MessageTypeResponse = "Response"
)

// PongMessage is the message of a successful ping response.
const PongMessage = "Pong"

// Query is a request record sent from the host to the worker.
type Query struct {
	MessageType string `json:"messageType"`
	RequestID   string `json:"requestId"`

	// QueryText routes the query when QueryType is empty.
	QueryText string `json:"queryText,omitempty"`

	// QueryType selects the handler and the payload shape.
	QueryType string `json:"queryType,omitempty"`

	Payload   json.RawMessage `json:"payload,omitempty"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitzero"`
}

// Response answers exactly one Query.
type Response struct {
	MessageType string          `json:"messageType"`
	RequestID   string          `json:"requestId"`
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Data        json.RawMessage `json:"data,omitempty"`
	ErrorCode   string          `json:"errorCode,omitempty"`
	Details     string          `json:"details,omitempty"`
	Timestamp   time.Time       `json:"timestamp,omitzero"`
}

// NewQuery builds a query carrying p. RequestID and Timestamp are left for
// the Client to stamp.
func NewQuery(p Payload, sender string) (*Query, error) {
	q := &Query{
		MessageType: MessageTypeQuery,
		QueryType:   p.QueryType(),
		QueryText:   p.QueryType(),
		Sender:      sender,
	}
	if raw, ok := p.(RawPayload); ok {
		q.Payload = raw.Data
		return q, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.QueryType(), err)
	}
	if string(data) != "{}" {
		q.Payload = data
	}
	return q, nil
}

// Method returns the normalized route key: QueryType when set, otherwise
// QueryText, trimmed and lower-cased.
func (q *Query) Method() string {
	key := q.QueryType
	if strings.TrimSpace(key) == "" {
		key = q.QueryText
	}
	return strings.ToLower(strings.TrimSpace(key))
}

// DecodePayload decodes the payload for the query's method.
func (q *Query) DecodePayload() (Payload, error) {
	return DecodePayload(q.Method(), q.Payload)
}

// Succeed builds a successful response to q with data encoded as JSON.
// A nil data leaves the data field out.
func Succeed(q *Query, message string, data any) (*Response, error) {
	resp := &Response{
		MessageType: MessageTypeResponse,
		RequestID:   q.RequestID,
		Success:     true,
		Message:     message,
		Timestamp:   time.Now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode response data: %w", err)
		}
		resp.Data = raw
	}
	return resp, nil
}

// Fail builds a failed response.
func Fail(requestID, code, message, details string) *Response {
	return &Response{
		MessageType: MessageTypeResponse,
		RequestID:   requestID,
		Success:     false,
		Message:     message,
		ErrorCode:   code,
		Details:     details,
		Timestamp:   time.Now().UTC(),
	}
}

// Err returns a *RemoteError for failed responses and nil otherwise.
func (r *Response) Err() error {
	if r.Success {
		return nil
	}
	return &RemoteError{Code: r.ErrorCode, Message: r.Message, Details: r.Details}
}

// DecodeData decodes the data field into v. Missing data leaves v untouched.
func (r *Response) DecodeData(v any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
