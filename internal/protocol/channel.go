package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// MaxRecordBytes bounds a single record. Longer records are discarded and
// reported as a DecodeError.
const MaxRecordBytes = 16 << 20

var errRecordTooLarge = fmt.Errorf("record exceeds %d bytes", MaxRecordBytes)

// Channel frames newline-delimited JSON records over a reader and a writer.
// Sends are serialized so records never interleave. Receives must come from
// a single goroutine at a time.
type Channel struct {
	wmu    sync.Mutex
	w      io.Writer
	rmu    sync.Mutex
	reader *bufio.Reader

	closers   []io.Closer
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewChannel wraps r and w. If either implements io.Closer it is closed by
// Close.
func NewChannel(r io.Reader, w io.Writer) *Channel {
	c := &Channel{
		w:      w,
		reader: bufio.NewReaderSize(r, 64*1024),
	}
	if wc, ok := w.(io.Closer); ok {
		c.closers = append(c.closers, wc)
	}
	if rc, ok := r.(io.Closer); ok {
		c.closers = append(c.closers, rc)
	}
	return c
}

// Send encodes v as one record and flushes it.
func (c *Channel) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	data = append(data, '\n')

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.closed.Load() {
		return ErrChannelClosed
	}
	if _, err := c.w.Write(data); err != nil {
		return transportError("write record", err)
	}
	if f, ok := c.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return transportError("flush record", err)
		}
	}
	return nil
}

// ReceiveQuery blocks for the next query record.
func (c *Channel) ReceiveQuery() (*Query, error) {
	line, err := c.next()
	if err != nil {
		return nil, err
	}
	var q Query
	if err := json.Unmarshal(line, &q); err != nil {
		return nil, newDecodeError(line, err)
	}
	if q.MessageType != MessageTypeQuery {
		return nil, newDecodeError(line, fmt.Errorf("messageType %q, want %q", q.MessageType, MessageTypeQuery))
	}
	return &q, nil
}

// ReceiveResponse blocks for the next response record.
func (c *Channel) ReceiveResponse() (*Response, error) {
	line, err := c.next()
	if err != nil {
		return nil, err
	}
	var r Response
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, newDecodeError(line, err)
	}
	if r.MessageType != MessageTypeResponse {
		return nil, newDecodeError(line, fmt.Errorf("messageType %q, want %q", r.MessageType, MessageTypeResponse))
	}
	return &r, nil
}

// Close closes the underlying streams, unblocking pending receives.
// It is safe to call more than once.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		var errs []error
		for _, closer := range c.closers {
			if err := closer.Close(); err != nil && !isClosedErr(err) {
				errs = append(errs, err)
			}
		}
		c.closeErr = errors.Join(errs...)
	})
	return c.closeErr
}

// next returns the next non-blank record without its newline.
func (c *Channel) next() ([]byte, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()

	for {
		line, err := c.readLine()
		if errors.Is(err, errRecordTooLarge) {
			return nil, &DecodeError{Err: err}
		}
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			// A final record without a newline is still a record; the
			// error surfaces on the next call.
			return trimmed, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrChannelClosed
			}
			return nil, transportError("read record", err)
		}
	}
}

// readLine reads up to and including the next newline, discarding records
// longer than MaxRecordBytes.
func (c *Channel) readLine() ([]byte, error) {
	var (
		buf      []byte
		oversize bool
	)
	for {
		chunk, err := c.reader.ReadSlice('\n')
		if !oversize {
			if len(buf)+len(chunk) > MaxRecordBytes {
				oversize = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if oversize {
			if err != nil {
				return nil, err
			}
			return nil, errRecordTooLarge
		}
		return buf, err
	}
}

func transportError(op string, err error) error {
	if isClosedErr(err) {
		return fmt.Errorf("%s: %w", op, ErrChannelClosed)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isClosedErr(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, syscall.EPIPE)
}
