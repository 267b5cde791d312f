// Package cmd wires the command line interface to the server bindings.
package cmd

import (
	"fmt"

	"github.com/alecthomas/kong"
)

var (
	// Version information - set by version.go
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// CLI represents the command line interface structure using Kong
type CLI struct {
	Stdio   StdioCmd   `cmd:"" help:"Serve the protocol over standard input/output"`
	Ws      WsCmd      `cmd:"" name:"ws" help:"Serve the protocol over a WebSocket endpoint"`
	Tools   ToolsCmd   `cmd:"" help:"Print the tool catalog as JSON"`
	Version VersionCmd `cmd:"" help:"Show version information"`

	Config string `help:"Path to config file" type:"path"`
	Debug  bool   `help:"Enable debug logging to stderr"`
}

// Execute is the main entry point for all commands
func Execute() error {
	cli := &CLI{}

	ctx := kong.Parse(cli,
		kong.Name("mcp-testbed"),
		kong.Description("Minimal MCP server for exercising protocol compliance of clients under test"),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s, built %s)", appVersion, appCommit, appDate),
		},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	return ctx.Run(cli)
}

// VersionCmd represents the version command structure
type VersionCmd struct{}

// Run implements the version command execution
func (v *VersionCmd) Run(cli *CLI) error {
	fmt.Printf("mcp-testbed version %s\n", appVersion)
	fmt.Printf("commit: %s\n", appCommit)
	fmt.Printf("built at: %s\n", appDate)
	return nil
}
