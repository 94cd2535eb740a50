package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/graph"
)

func init() {
	relationCmd := &cobra.Command{
		Use:   "relation",
		Short: "Manage knowledge graph relations",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create relations",
		Long:  "Create a relation between two entities by name, or a batch from a JSON array piped via stdin with --stdin. A bidirectional relation is stored as two independent records.",
		Run:   runRelationCreate,
	}
	createCmd.Flags().String("from", "", "Source entity name")
	createCmd.Flags().String("to", "", "Target entity name")
	createCmd.Flags().String("type", "", "Relation type")
	createCmd.Flags().String("props", "", "JSON properties object")
	createCmd.Flags().Bool("bidirectional", false, "Also create the mirrored relation")
	createCmd.Flags().Float64("weight", 0, "Relation weight")
	createCmd.Flags().Float64("confidence", 0, "Relation confidence")
	createCmd.Flags().Bool("stdin", false, "Read a JSON array of relations from stdin")

	rmCmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete relations by exact (from, to, type) match",
		Run:   runRelationRm,
	}
	rmCmd.Flags().String("from", "", "Source entity name (required)")
	rmCmd.Flags().String("to", "", "Target entity name (required)")
	rmCmd.Flags().String("type", "", "Relation type (required)")
	rmCmd.MarkFlagRequired("from")
	rmCmd.MarkFlagRequired("to")
	rmCmd.MarkFlagRequired("type")

	relationCmd.AddCommand(createCmd, rmCmd)
	RootCmd.AddCommand(relationCmd)
}

func runRelationCreate(cmd *cobra.Command, args []string) {
	fromStdin, _ := cmd.Flags().GetBool("stdin")

	var specs []graph.RelationSpec
	if fromStdin {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		if err := json.Unmarshal(b, &specs); err != nil {
			exitErr("parse relations", err)
		}
	} else {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		relType, _ := cmd.Flags().GetString("type")
		propsStr, _ := cmd.Flags().GetString("props")
		bidirectional, _ := cmd.Flags().GetBool("bidirectional")
		weight, _ := cmd.Flags().GetFloat64("weight")
		confidence, _ := cmd.Flags().GetFloat64("confidence")

		spec := graph.RelationSpec{
			From:          from,
			To:            to,
			Type:          relType,
			Bidirectional: bidirectional,
			Weight:        weight,
			Confidence:    confidence,
		}
		if propsStr != "" {
			if err := json.Unmarshal([]byte(propsStr), &spec.Properties); err != nil {
				exitErr("parse props", err)
			}
		}
		specs = []graph.RelationSpec{spec}
	}

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	res, err := graph.New(s).CreateRelations(cmd.Context(), specs)
	if err != nil {
		exitErr("relation create", err)
	}
	printJSON(res)
}

func runRelationRm(cmd *cobra.Command, args []string) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	relType, _ := cmd.Flags().GetString("type")

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	res, err := graph.New(s).DeleteRelations(cmd.Context(), []graph.RelationKey{
		{From: from, To: to, Type: relType},
	})
	if err != nil {
		exitErr("relation rm", err)
	}
	printJSON(res)
}
