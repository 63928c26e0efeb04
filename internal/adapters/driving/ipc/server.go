package ipc

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/famlink/internal/logger"
	"github.com/custodia-labs/famlink/internal/protocol"
)

// Server answers queries arriving on a channel, one at a time.
type Server struct {
	channel    *protocol.Channel
	dispatcher *Dispatcher
}

// NewServer creates a server over channel.
func NewServer(channel *protocol.Channel, dispatcher *Dispatcher) *Server {
	return &Server{channel: channel, dispatcher: dispatcher}
}

// Serve reads, dispatches and answers queries until the input ends or ctx
// is cancelled. Both are a graceful stop and return nil. Records that fail
// to decode are answered with INVALID_MESSAGE and the loop continues.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.channel.Close()
	})
	defer stop()

	logger.Debug("ipc server ready, routes: %v", s.dispatcher.Routes())

	for {
		q, err := s.channel.ReceiveQuery()
		if err != nil {
			var decodeErr *protocol.DecodeError
			if errors.As(err, &decodeErr) {
				logger.Warn("malformed record: %v", decodeErr.Err)
				resp := protocol.Fail(decodeErr.RequestID, protocol.CodeInvalidMessage, "malformed record", decodeErr.Err.Error())
				if err := s.send(resp); err != nil {
					return s.stopped(ctx, err)
				}
				continue
			}
			return s.stopped(ctx, err)
		}

		resp := s.dispatcher.Dispatch(ctx, q)
		if err := s.send(resp); err != nil {
			return s.stopped(ctx, err)
		}
	}
}

func (s *Server) send(resp *protocol.Response) error {
	if err := s.channel.Send(resp); err != nil {
		return fmt.Errorf("send response %s: %w", resp.RequestID, err)
	}
	return nil
}

// stopped turns the error that ended the loop into Serve's result.
func (s *Server) stopped(ctx context.Context, err error) error {
	if errors.Is(err, protocol.ErrChannelClosed) || ctx.Err() != nil {
		logger.Debug("ipc server stopping: %v", err)
		return nil
	}
	return err
}
