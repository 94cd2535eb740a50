package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/graph"
)

func init() {
	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Read a knowledge graph snapshot",
		Long:  "Read up to --limit entities (a hard cap, not a sample) with their observations, optionally with every relation touching them. There is no pagination cursor; re-query with different filters for more.",
		Run:   runGraph,
	}
	graphCmd.Flags().BoolP("relations", "r", false, "Include relations touching the returned entities")
	graphCmd.Flags().String("type", "", "Filter by entity type")
	graphCmd.Flags().IntP("limit", "l", 100, "Max entities")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge graph statistics",
		Run:   runGraphStats,
	}
	graphCmd.AddCommand(statsCmd)

	RootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) {
	includeRelations, _ := cmd.Flags().GetBool("relations")
	entityType, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	snap, err := graph.New(s).ReadGraph(cmd.Context(), graph.ReadParams{
		IncludeRelations: includeRelations,
		EntityType:       entityType,
		Limit:            limit,
	})
	if err != nil {
		exitErr("graph", err)
	}
	printJSON(snap)
}

func runGraphStats(cmd *cobra.Command, args []string) {
	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	st, err := graph.New(s).Stats(cmd.Context())
	if err != nil {
		exitErr("graph stats", err)
	}
	printJSON(st)
}
