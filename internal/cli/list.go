package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/memory"
	"github.com/rcliao/agent-graph/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memory records",
		Run:   runList,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags (matches any)")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Int("offset", 0, "Pagination offset")
	cmd.Flags().String("sort", "created_at", "Sort field: created_at, updated_at, accessed_at, access_count, key")
	cmd.Flags().String("order", "desc", "Sort order: asc or desc")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	tagsStr, _ := cmd.Flags().GetString("tags")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	sortBy, _ := cmd.Flags().GetString("sort")
	order, _ := cmd.Flags().GetString("order")

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	items, total, err := memory.New(s).List(cmd.Context(), memory.ListParams{
		Category:  category,
		Tags:      splitTags(tagsStr),
		Limit:     limit,
		Offset:    offset,
		SortBy:    sortBy,
		SortOrder: order,
	})
	if err != nil {
		exitErr("list", err)
	}

	printJSON(struct {
		Items []model.MemoryRecord `json:"items"`
		Total int                  `json:"total"`
	}{Items: items, Total: total})
}
