// Package main implements a minimal MCP server used to exercise protocol
// compliance of clients under test. It speaks JSON-RPC 2.0 over stdio lines
// or WebSocket text frames and advertises a fixed five-tool catalog.
package main

import (
	"fmt"
	"os"

	"mcp-testbed/cmd"
)

func main() {
	cmd.SetVersionInfo(Version, Commit, Date)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
