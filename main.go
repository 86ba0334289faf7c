package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pbarker/context-mcp/internal/server"
	"github.com/pbarker/context-mcp/internal/storage"
)

var (
	transport string
	port      string
	dataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "context-mcp",
	Short: "MCP server for persistent development context",
	Long: `context-mcp is an MCP server that persists projects, development
knowledge, tasks, session memory, and a decision log in a single
embedded SQLite database.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or http")
	rootCmd.Flags().StringVar(&port, "port", "8081", "HTTP port (only used with --transport http)")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Directory for the store file")
}

// defaultDataDir places the store under the per-user config directory.
func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(base, "context-mcp")
}

func run(cmd *cobra.Command, _ []string) error {
	store := storage.New(dataDir)
	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(store)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch transport {
	case "stdio":
		log.Println("context-mcp server starting (stdio)")
		return srv.Run(ctx, &mcp.StdioTransport{})
	case "http":
		addr := ":" + port
		handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return srv
		}, nil)
		log.Printf("context-mcp server listening on %s", addr)
		return http.ListenAndServe(addr, handler)
	default:
		return fmt.Errorf("unknown transport %q (use stdio or http)", transport)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
