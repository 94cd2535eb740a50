package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/backend"
)

// exportLine is one record in the JSONL export stream.
type exportLine struct {
	Collection string          `json:"collection"`
	Key        string          `json:"key"`
	Record     json.RawMessage `json:"record"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every record as JSONL to stdout",
		Long:  "Export every record from every collection as one JSON line each. Pipe to a file for backups; restore with import.",
		Run:   runExport,
	}
	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	for _, col := range backend.Collections {
		records, err := s.Scan(cmd.Context(), col)
		if err != nil {
			exitErr("export", err)
		}
		for _, r := range records {
			line, err := json.Marshal(exportLine{
				Collection: col,
				Key:        r.Key,
				Record:     json.RawMessage(r.Data),
			})
			if err != nil {
				exitErr("export", err)
			}
			fmt.Fprintln(w, string(line))
		}
	}
}
