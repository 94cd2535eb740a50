package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/graph"
)

func init() {
	cmd := &cobra.Command{
		Use:   "observe <entity> <text>...",
		Short: "Append observations to an entity",
		Long:  "Append one or more free-text observations to an entity. Observations are ordered and append-only.",
		Args:  cobra.MinimumNArgs(2),
		Run:   runObserve,
	}

	cmd.Flags().String("type", "", "Observation type")
	cmd.Flags().String("source", "", "Observation source")
	cmd.Flags().String("context", "", "Observation context")
	cmd.Flags().Float64("confidence", 0, "Observation confidence")

	RootCmd.AddCommand(cmd)
}

func runObserve(cmd *cobra.Command, args []string) {
	obsType, _ := cmd.Flags().GetString("type")
	source, _ := cmd.Flags().GetString("source")
	obsContext, _ := cmd.Flags().GetString("context")
	confidence, _ := cmd.Flags().GetFloat64("confidence")

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	res, err := graph.New(s).AddObservations(cmd.Context(), []graph.ObservationSpec{{
		Entity:     args[0],
		Texts:      args[1:],
		Type:       obsType,
		Source:     source,
		Context:    obsContext,
		Confidence: confidence,
	}})
	if err != nil {
		exitErr("observe", err)
	}
	printJSON(res)
}
