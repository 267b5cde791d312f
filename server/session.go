// Package server owns session lifecycles: the read-dispatch-write loop over
// one transport, and the WebSocket endpoint that runs one session per
// accepted connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mcp-testbed/mcp"
	"mcp-testbed/store"
	"mcp-testbed/transport"
)

// Session couples one transport with the dispatcher and pumps message units
// between them. Protocol-level errors produced by the dispatcher are ordinary
// outbound units; only transport failures terminate the loop early. Messages
// are processed strictly in arrival order.
type Session struct {
	id        string
	transport transport.Transport
	dispatch  *mcp.Dispatcher
	recorder  *store.Recorder
}

// NewSession builds a session. The recorder is optional; when nil, exchanges
// are not traced.
func NewSession(id string, t transport.Transport, d *mcp.Dispatcher, recorder *store.Recorder) *Session {
	return &Session{id: id, transport: t, dispatch: d, recorder: recorder}
}

// Run loops until end-of-stream, context cancellation, or a transport
// failure. End-of-stream and cancellation are clean stops and return nil.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			Debugf("session %s: context cancelled", s.id)
			return nil
		default:
		}

		unit, err := s.transport.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				Debugf("session %s: end of stream", s.id)
				return nil
			}
			return fmt.Errorf("session %s: read: %w", s.id, err)
		}

		out, replied := s.dispatch.Dispatch([]byte(unit))
		s.record(unit, out, replied)
		if !replied {
			continue
		}
		if err := s.transport.Send(string(out)); err != nil {
			return fmt.Errorf("session %s: write: %w", s.id, err)
		}
	}
}

// record traces one exchange. Trace failures are logged and never affect the
// wire.
func (s *Session) record(request string, out []byte, replied bool) {
	if s.recorder == nil {
		return
	}
	var response *string
	if replied {
		text := string(out)
		response = &text
	}
	if err := s.recorder.Record(s.id, request, response); err != nil {
		Debugf("session %s: trace record failed: %v", s.id, err)
	}
}
