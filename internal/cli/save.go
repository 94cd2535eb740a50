package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "save [value]",
		Short: "Store a memory record",
		Long:  "Store a memory record, fully replacing any record with the same key. Value can be a positional arg or piped via stdin.",
		Run:   runSave,
	}

	cmd.Flags().StringP("key", "k", "", "Key (required)")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().StringP("category", "c", "", "Category")
	cmd.Flags().Int("ttl", 0, "Time-to-live in seconds (0 = no expiry)")

	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runSave(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	tagsStr, _ := cmd.Flags().GetString("tags")
	category, _ := cmd.Flags().GetString("category")
	ttl, _ := cmd.Flags().GetInt("ttl")

	var value string
	if len(args) > 0 {
		value = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			value = string(b)
		}
	}
	if strings.TrimSpace(value) == "" {
		exitErr("save", fmt.Errorf("value is required (positional arg or stdin)"))
	}

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	rec, err := memory.New(s).Save(cmd.Context(), memory.SaveParams{
		Key:        key,
		Value:      strings.TrimSpace(value),
		Tags:       splitTags(tagsStr),
		Category:   category,
		TTLSeconds: ttl,
	})
	if err != nil {
		exitErr("save", err)
	}
	printJSON(rec)
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
