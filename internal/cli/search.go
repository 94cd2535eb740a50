package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search memory records",
		Long:  "Case-insensitive substring search over keys and values, ranked by access count.",
		Args:  cobra.ExactArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	results, err := memory.New(s).Search(cmd.Context(), memory.SearchParams{
		Query:    args[0],
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		exitErr("search", err)
	}
	printJSON(results)
}
