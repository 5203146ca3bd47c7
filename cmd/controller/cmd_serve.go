package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/logging"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/mcptool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing consensus_ask and
consensus_history. Logs go to stderr so they do not corrupt the protocol stream.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	s := mcptool.NewServer(a.pipeline, a.store)
	logging.New("mcp").Info("starting MCP server over stdio", "backends", len(a.cfg.Backends))
	return server.ServeStdio(s)
}
