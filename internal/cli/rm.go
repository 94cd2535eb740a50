package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <key>",
		Short: "Delete a memory record",
		Long:  "Delete a memory record. Idempotent: deleting an absent key still succeeds.",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}
	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	deleted, err := memory.New(s).Delete(cmd.Context(), args[0])
	if err != nil {
		exitErr("rm", err)
	}
	printJSON(struct {
		Key     string `json:"key"`
		Deleted bool   `json:"deleted"`
	}{Key: args[0], Deleted: deleted})
}
