package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daisytext/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can clean and
segment text and read archived runs.

Tools:     clean_text, segment_text, process_text
Resources: daisytext://runs, daisytext://runs/{runId},
           daisytext://runs/{runId}/segments

By default the server communicates over stdio using JSON-RPC.
Use --port to serve HTTP instead.

Examples:
  # Stdio mode (default)
  daisytext mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  daisytext mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "daisytext": {
        "command": "/path/to/daisytext",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Pipeline: pipelineService,
		Runs:     runService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
