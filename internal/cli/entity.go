package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/graph"
)

func init() {
	entityCmd := &cobra.Command{
		Use:   "entity",
		Short: "Manage knowledge graph entities",
	}

	createCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create entities",
		Long:  "Create a single entity from flags, or a batch from a JSON array piped via stdin with --stdin. Every item in a batch is attempted; failures are reported per item.",
		Run:   runEntityCreate,
	}
	createCmd.Flags().String("type", "", "Entity type")
	createCmd.Flags().String("props", "", "JSON properties object")
	createCmd.Flags().StringArrayP("obs", "o", nil, "Initial observation (repeatable)")
	createCmd.Flags().Bool("stdin", false, "Read a JSON array of entities from stdin")

	rmCmd := &cobra.Command{
		Use:   "rm <name>...",
		Short: "Delete entities by name",
		Long:  "Delete entities by name. With --cascade, every relation referencing a deleted name is removed too; without it, those relations are left dangling.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runEntityRm,
	}
	rmCmd.Flags().Bool("cascade", false, "Also delete relations referencing the entity")

	entityCmd.AddCommand(createCmd, rmCmd)
	RootCmd.AddCommand(entityCmd)
}

func runEntityCreate(cmd *cobra.Command, args []string) {
	fromStdin, _ := cmd.Flags().GetBool("stdin")

	var specs []graph.EntitySpec
	if fromStdin {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		if err := json.Unmarshal(b, &specs); err != nil {
			exitErr("parse entities", err)
		}
	} else {
		if len(args) == 0 {
			exitErr("entity create", fmt.Errorf("name is required (or use --stdin)"))
		}
		entityType, _ := cmd.Flags().GetString("type")
		propsStr, _ := cmd.Flags().GetString("props")
		obs, _ := cmd.Flags().GetStringArray("obs")

		spec := graph.EntitySpec{Name: args[0], Type: entityType, Observations: obs}
		if propsStr != "" {
			if err := json.Unmarshal([]byte(propsStr), &spec.Properties); err != nil {
				exitErr("parse props", err)
			}
		}
		specs = []graph.EntitySpec{spec}
	}

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	res, err := graph.New(s).CreateEntities(cmd.Context(), specs)
	if err != nil {
		exitErr("entity create", err)
	}
	printJSON(res)
}

func runEntityRm(cmd *cobra.Command, args []string) {
	cascade, _ := cmd.Flags().GetBool("cascade")

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	res, err := graph.New(s).DeleteEntities(cmd.Context(), args, cascade)
	if err != nil {
		exitErr("entity rm", err)
	}
	printJSON(res)
}
