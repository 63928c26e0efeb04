package protocol

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Client sends queries over a Channel and waits for the matching response.
// At most one request is in flight; concurrent callers queue on a mutex.
type Client struct {
	ch    *Channel
	newID func() string
	now   func() time.Time

	mu        sync.Mutex
	responses chan received
	done      chan struct{}
	closing   chan struct{}
	readErr   error
	broken    atomic.Bool
	closeOnce sync.Once
}

type received struct {
	resp *Response
	err  error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithIDGenerator overrides how request ids are generated.
func WithIDGenerator(fn func() string) ClientOption {
	return func(c *Client) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// NewClient starts the client's read loop on ch. The client owns ch from
// now on; Close closes it.
func NewClient(ch *Channel, opts ...ClientOption) *Client {
	c := &Client{
		ch:        ch,
		newID:     uuid.NewString,
		now:       time.Now,
		responses: make(chan received, 1),
		done:      make(chan struct{}),
		closing:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		resp, err := c.ch.ReceiveResponse()
		var decodeErr *DecodeError
		if err != nil && !errors.As(err, &decodeErr) {
			c.readErr = err
			return
		}
		select {
		case c.responses <- received{resp: resp, err: err}:
		case <-c.closing:
			c.readErr = ErrChannelClosed
			return
		}
	}
}

// Do stamps q with a fresh request id and timestamp, sends it, and waits
// for its response. It fails with ErrChannelClosed if the stream ends and
// with a *DecodeError if the response record is malformed. If the next
// response carries another id (ErrUnmatchedResponse) or ctx ends first, the
// stream is out of step: the client is marked broken and every later call
// fails with ErrClientBroken.
func (c *Client) Do(ctx context.Context, q *Query) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken.Load() {
		return nil, ErrClientBroken
	}
	select {
	case <-c.done:
		return nil, c.terminalErr()
	case <-c.closing:
		return nil, ErrChannelClosed
	default:
	}

	q.MessageType = MessageTypeQuery
	q.RequestID = c.newID()
	if q.Timestamp.IsZero() {
		q.Timestamp = c.now().UTC()
	}

	if err := c.ch.Send(q); err != nil {
		return nil, fmt.Errorf("send %s: %w", q.Method(), err)
	}

	select {
	case r := <-c.responses:
		return c.match(q, r)
	case <-c.done:
		// The loop may have delivered a final response before exiting.
		select {
		case r := <-c.responses:
			return c.match(q, r)
		default:
		}
		return nil, c.terminalErr()
	case <-c.closing:
		return nil, ErrChannelClosed
	case <-ctx.Done():
		c.broken.Store(true)
		return nil, ctx.Err()
	}
}

func (c *Client) match(q *Query, r received) (*Response, error) {
	if r.err != nil {
		return nil, fmt.Errorf("request %s: %w", q.RequestID, r.err)
	}
	if r.resp.RequestID != q.RequestID {
		c.broken.Store(true)
		return nil, fmt.Errorf("%w: sent %q, received %q", ErrUnmatchedResponse, q.RequestID, r.resp.RequestID)
	}
	return r.resp, nil
}

func (c *Client) terminalErr() error {
	if c.readErr == nil || errors.Is(c.readErr, ErrChannelClosed) {
		return ErrChannelClosed
	}
	return fmt.Errorf("%w: %v", ErrChannelClosed, c.readErr)
}

// Call sends payload p on behalf of sender and decodes a successful
// response's data into out, which may be nil. Failed responses return a
// *RemoteError.
func (c *Client) Call(ctx context.Context, p Payload, sender string, out any) (*Response, error) {
	q, err := NewQuery(p, sender)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return resp, err
	}
	if out != nil {
		if err := resp.DecodeData(out); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// Ping checks that the peer answers ping with Pong.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.Call(ctx, PingPayload{}, "", nil)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if !strings.EqualFold(resp.Message, PongMessage) {
		return fmt.Errorf("ping: %w: %q", ErrUnexpectedReply, resp.Message)
	}
	return nil
}

// Done is closed when the read loop has stopped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close closes the channel. Waiting callers fail with ErrChannelClosed and
// the read loop stops once the stream reports the closure.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closing)
		err = c.ch.Close()
	})
	return err
}
