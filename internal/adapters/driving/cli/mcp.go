package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server that exposes the knowledge base
to AI assistants.

Tools:
  search       - ranked chunks for a question
  get_context  - length-bounded grounding context
  is_relevant  - whether the knowledge base covers a question

Resources:
  kbase://stats            - vector store statistics
  kbase://context/{query}  - grounding context for a question

By default the server speaks JSON-RPC over stdio. Use --port (or mcp.port)
to serve streamable HTTP instead.

Examples:
  kbase mcp serve
  kbase mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 uses mcp.port, which defaults to stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if mcpPort < 0 || mcpPort > 65535 {
		return fmt.Errorf("invalid port %d", mcpPort)
	}
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{Retriever: retrieverService})
	if err != nil {
		return err
	}

	port := mcpPort
	if port == 0 && appConfig != nil {
		port = appConfig.MCP.Port
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
