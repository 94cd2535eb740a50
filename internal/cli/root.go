// Package cli implements the agent-graph CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/backend"
)

var (
	dataPath    string
	backendKind string
	verbose     bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "agent-graph",
	Short: "Persistent memory and knowledge graph for AI agents",
	Long:  "Durable key/value memory plus a typed knowledge graph of entities, relations and observations. SQLite or plain-file storage, single binary.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dataPath, "db", "d", "", "Data path (default: $AGENT_GRAPH_DB or ~/.agent-graph)")
	RootCmd.PersistentFlags().StringVar(&backendKind, "backend", "", "Storage backend: sqlite or file (default: $AGENT_GRAPH_BACKEND or sqlite)")
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Debug logging")
}

func getBackendKind() string {
	if backendKind != "" {
		return backendKind
	}
	if env := os.Getenv("AGENT_GRAPH_BACKEND"); env != "" {
		return env
	}
	return backend.KindSQLite
}

func getDataPath(kind string) string {
	if dataPath != "" {
		return dataPath
	}
	if env := os.Getenv("AGENT_GRAPH_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	if kind == backend.KindFile {
		return filepath.Join(home, ".agent-graph", "data")
	}
	return filepath.Join(home, ".agent-graph", "graph.db")
}

func openBackend() (backend.Backend, error) {
	kind := getBackendKind()
	path := getDataPath(kind)
	log.Debug("opening backend", "kind", kind, "path", path)
	return backend.Open(kind, path)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
