package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/graph"
)

func init() {
	cmd := &cobra.Command{
		Use:   "nodes <query>",
		Short: "Search knowledge graph nodes",
		Long:  "Case-insensitive substring search across entity names, types and observation texts. Each hit carries the reason it matched.",
		Args:  cobra.ExactArgs(1),
		Run:   runNodes,
	}

	cmd.Flags().String("type", "", "Filter by entity type")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runNodes(cmd *cobra.Command, args []string) {
	entityType, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	matches, err := graph.New(s).SearchNodes(cmd.Context(), graph.SearchParams{
		Query:      args[0],
		EntityType: entityType,
		Limit:      limit,
	})
	if err != nil {
		exitErr("nodes", err)
	}
	printJSON(matches)
}
