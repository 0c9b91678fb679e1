package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris-regnier/agendactl/internal/log"
	"github.com/chris-regnier/agendactl/internal/mcptools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Serve the agenda to MCP clients over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so assistants can
browse and add events. Logs go to stderr.

Tools: list_days, day_events, search_events and create_event.

Register it with a client, for example:

  {"mcpServers": {"agendactl": {"command": "agendactl", "args": ["mcp-serve"]}}}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serveMCP(ctx, &mcp.StdioTransport{})
	},
}

// serveMCP runs the agenda server on t until the client disconnects or ctx
// is cancelled. Writes made by clients drop the prompt cache.
func serveMCP(ctx context.Context, t mcp.Transport) error {
	server := mcptools.CreateMCPServer(promptInvalidating{store}, time.Local)
	log.Info("mcp server starting", "storage", appConfig.Storage, "data_dir", appConfig.DataDir)

	err := server.Run(ctx, t)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info("mcp server stopped")
	return err
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}
