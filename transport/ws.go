package transport

import (
	"errors"
	"io"
	"net"
	"sync"

	"golang.org/x/net/websocket"
)

// WS frames messages as WebSocket text frames, one envelope per frame.
// Binary frames are skipped without error. Control frames never reach this
// layer; the websocket package answers pings and handles close itself.
type WS struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewWS wraps an accepted WebSocket connection.
func NewWS(conn *websocket.Conn) *WS {
	return &WS{conn: conn}
}

// wsFrame carries one frame payload together with its opcode, which the
// stock websocket.Message codec hides.
type wsFrame struct {
	payload string
	kind    byte
}

var frameCodec = websocket.Codec{
	Marshal: func(v interface{}) ([]byte, byte, error) {
		frame, isFrame := v.(*wsFrame)
		if !isFrame {
			return nil, 0, websocket.ErrNotSupported
		}
		return []byte(frame.payload), frame.kind, nil
	},
	Unmarshal: func(data []byte, payloadType byte, v interface{}) error {
		frame, isFrame := v.(*wsFrame)
		if !isFrame {
			return websocket.ErrNotSupported
		}
		frame.payload = string(data)
		frame.kind = payloadType
		return nil
	},
}

// Next returns the next text frame. Connection close surfaces as io.EOF.
func (t *WS) Next() (string, error) {
	for {
		var frame wsFrame
		if err := frameCodec.Receive(t.conn, &frame); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return "", io.EOF
			}
			return "", err
		}
		if frame.kind != websocket.TextFrame {
			continue
		}
		return frame.payload, nil
	}
}

// Send writes one unit as a single text frame.
func (t *WS) Send(unit string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return frameCodec.Send(t.conn, &wsFrame{payload: unit, kind: websocket.TextFrame})
}

// Close closes the underlying connection.
func (t *WS) Close() error {
	return t.conn.Close()
}
