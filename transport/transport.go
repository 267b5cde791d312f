// Package transport converts physical channels into sequences of discrete
// textual message units and back. Each unit is one JSON-RPC envelope.
package transport

// Transport delivers inbound message units and writes outbound ones.
// Next returns io.EOF once the underlying channel is exhausted; that is the
// clean end of a session, not a failure.
type Transport interface {
	Next() (string, error)
	Send(unit string) error
	Close() error
}
