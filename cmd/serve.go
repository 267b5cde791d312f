package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"mcp-testbed/config"
	"mcp-testbed/mcp"
	"mcp-testbed/server"
	"mcp-testbed/store"
	"mcp-testbed/transport"
)

// The two reference deployments advertise different protocol versions for
// the same wire contract; neither is canonical, so each binding defaults to
// the version its reference used. config.Server.ProtocolVersion overrides.
const (
	stdioProtocolVersion = "2025-03-26"
	wsProtocolVersion    = "2024-11-05"
)

// StdioCmd represents the stdio serve command structure
type StdioCmd struct {
	Trace bool `help:"Record exchanges to the trace database"`
}

// WsCmd represents the WebSocket serve command structure
type WsCmd struct {
	Host  string `help:"Host to bind (overrides config)"`
	Port  int    `help:"Port to listen on (overrides config)"`
	Trace bool   `help:"Record exchanges to the trace database"`
}

// ToolsCmd represents the tools command structure
type ToolsCmd struct{}

func loadConfig(cli *CLI) (*config.Config, error) {
	cfg, err := config.GetConfig(cli.Config)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if cli.Debug || cfg.Debug {
		server.EnableDebug()
	}
	return cfg, nil
}

func newDispatcher(cfg *config.Config, fallbackVersion string) (*mcp.Dispatcher, error) {
	registry, err := mcp.NewRegistry(mcp.Builtins()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}
	return mcp.NewDispatcher(
		registry,
		resolveProtocolVersion(cfg, fallbackVersion),
		mcp.Capabilities{Tools: mcp.ToolCapabilities{ListChanged: true}},
		mcp.ServerInfo{Name: cfg.Server.Name, Version: cfg.Server.Version},
	), nil
}

func resolveProtocolVersion(cfg *config.Config, fallback string) string {
	if cfg.Server.ProtocolVersion != "" {
		return cfg.Server.ProtocolVersion
	}
	return fallback
}

// openRecorder returns a recorder when tracing is requested, plus a cleanup
// function closing the database.
func openRecorder(cfg *config.Config, force bool) (*store.Recorder, func(), error) {
	if !force && !cfg.Trace.Enabled {
		return nil, func() {}, nil
	}
	if cfg.Trace.DatabasePath != "" {
		store.SetDBPath(cfg.Trace.DatabasePath)
	}
	db, err := store.InitDatabase()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace database: %w", err)
	}
	return store.NewRecorder(db), func() { db.Close() }, nil
}

// Run implements the stdio serve command execution
func (s *StdioCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	recorder, cleanup, err := openRecorder(cfg, s.Trace)
	if err != nil {
		return err
	}
	defer cleanup()

	dispatcher, err := newDispatcher(cfg, stdioProtocolVersion)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, "MCP test server starting (stdio mode)")
	sess := server.NewSession("stdio", transport.NewStdio(), dispatcher, recorder)
	runErr := sess.Run(ctx)
	fmt.Fprintln(os.Stderr, "MCP test server stopped")
	return runErr
}

// Run implements the WebSocket serve command execution
func (w *WsCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	host := cfg.WebSocket.Host
	if w.Host != "" {
		host = w.Host
	}
	port := cfg.WebSocket.Port
	if w.Port != 0 {
		port = w.Port
	}

	recorder, cleanup, err := openRecorder(cfg, w.Trace)
	if err != nil {
		return err
	}
	defer cleanup()

	dispatcher, err := newDispatcher(cfg, wsProtocolVersion)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	fmt.Fprintf(os.Stderr, "Starting WebSocket MCP server on ws://%s\n", addr)
	ws := server.NewWSServer(addr, dispatcher, recorder)
	err = ws.ListenAndServe(ctx)
	fmt.Fprintln(os.Stderr, "WebSocket MCP server stopped")
	return err
}

// Run implements the tools command execution
func (t *ToolsCmd) Run(cli *CLI) error {
	registry, err := mcp.NewRegistry(mcp.Builtins()...)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}
	out, err := json.MarshalIndent(mcp.ListToolsResult{Tools: registry.List()}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
