package cli

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import records from a JSONL export",
		Long:  "Import records produced by export, from a file or stdin. Existing records with the same key are replaced.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}
	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			exitErr("open export file", err)
		}
		defer f.Close()
		r = f
	}

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	imported := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec exportLine
		if err := json.Unmarshal(line, &rec); err != nil {
			exitErr("parse export line", err)
		}
		if err := s.Put(cmd.Context(), rec.Collection, rec.Key, rec.Record); err != nil {
			exitErr("import", err)
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		exitErr("read export", err)
	}

	printJSON(struct {
		Imported int `json:"imported"`
	}{Imported: imported})
}
