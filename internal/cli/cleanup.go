package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Purge all TTL-expired memory records",
		Long:  "Eagerly purge every TTL-expired memory record. Meant to run periodically as a maintenance sweep; load and list still expire lazily on their own.",
		Run:   runCleanup,
	}
	RootCmd.AddCommand(cmd)
}

func runCleanup(cmd *cobra.Command, args []string) {
	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	purged, err := memory.New(s).Cleanup(cmd.Context())
	if err != nil {
		exitErr("cleanup", err)
	}
	log.Debug("cleanup sweep finished", "purged", purged)
	printJSON(struct {
		Purged int `json:"purged"`
	}{Purged: purged})
}
