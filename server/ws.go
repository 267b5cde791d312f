package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/websocket"
	"golang.org/x/sync/errgroup"

	"mcp-testbed/mcp"
	"mcp-testbed/store"
	"mcp-testbed/transport"
)

// drainTimeout bounds how long shutdown waits for in-flight sessions before
// force-closing their connections.
const drainTimeout = 5 * time.Second

// WSServer accepts WebSocket connections and runs one independent session per
// connection. Sessions share only the dispatcher's immutable state.
type WSServer struct {
	addr     string
	dispatch *mcp.Dispatcher
	recorder *store.Recorder
	nextID   atomic.Int64

	sessions sync.WaitGroup
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
}

// NewWSServer builds a WebSocket endpoint bound to addr (host:port).
func NewWSServer(addr string, d *mcp.Dispatcher, recorder *store.Recorder) *WSServer {
	return &WSServer{
		addr:     addr,
		dispatch: d,
		recorder: recorder,
		conns:    make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the http.Handler that upgrades connections and runs
// sessions. Exposed separately so tests can mount it on httptest servers.
func (s *WSServer) Handler() http.Handler {
	return s.handler(context.Background())
}

func (s *WSServer) handler(ctx context.Context) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		s.track(conn)
		defer s.untrack(conn)

		id := fmt.Sprintf("conn-%d", s.nextID.Add(1))
		remote := ""
		if req := conn.Request(); req != nil {
			remote = req.RemoteAddr
		}
		Debugf("session %s: client connected from %s", id, remote)

		sess := NewSession(id, transport.NewWS(conn), s.dispatch, s.recorder)
		if err := sess.Run(ctx); err != nil {
			log.Printf("session %s terminated: %v", id, err)
		}
		Debugf("session %s: client disconnected", id)
	})
}

func (s *WSServer) track(conn *websocket.Conn) {
	s.sessions.Add(1)
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *WSServer) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.sessions.Done()
}

func (s *WSServer) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
}

// ListenAndServe serves until ctx is cancelled, then stops accepting new
// connections and drains in-flight sessions.
func (s *WSServer) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve runs the endpoint on an existing listener until ctx is cancelled.
// Cancellation closes the listener, then waits for in-flight sessions; any
// still open after drainTimeout have their connections force-closed.
func (s *WSServer) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/", s.handler(ctx))
	srv := &http.Server{Handler: mux}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// Shutdown neither waits for nor closes hijacked connections, and
		// every upgraded WebSocket is hijacked; drain them here.
		drained := make(chan struct{})
		go func() {
			s.sessions.Wait()
			close(drained)
		}()
		select {
		case <-drained:
		case <-shutdownCtx.Done():
			s.closeAll()
			<-drained
		}
		return err
	})
	return group.Wait()
}
