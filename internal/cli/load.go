package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "load <key>",
		Short: "Retrieve a memory record",
		Long:  "Retrieve a memory record and bump its access count. A TTL-expired record is purged and reported as not found.",
		Args:  cobra.ExactArgs(1),
		Run:   runLoad,
	}
	RootCmd.AddCommand(cmd)
}

func runLoad(cmd *cobra.Command, args []string) {
	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	rec, err := memory.New(s).Load(cmd.Context(), args[0])
	if err != nil {
		exitErr("load", err)
	}
	printJSON(rec)
}
