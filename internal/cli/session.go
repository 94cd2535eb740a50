package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-graph/internal/session"
)

func init() {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the session and checkpoint ledger",
	}

	startCmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Record the start of a session",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionStart,
	}
	startCmd.Flags().StringP("mode", "m", "", "Session mode")
	startCmd.Flags().String("context", "", "Session context")

	endCmd := &cobra.Command{
		Use:   "end <id>",
		Short: "Record the end of a session",
		Long:  "Record the end of a session. Re-ending an already-ended session overwrites the reason but not ended_at.",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionEnd,
	}
	endCmd.Flags().StringP("reason", "r", "", "End reason")

	checkpointCmd := &cobra.Command{
		Use:   "checkpoint <session-id>",
		Short: "Append a checkpoint",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionCheckpoint,
	}
	checkpointCmd.Flags().String("context", "", "What this save point captures")
	checkpointCmd.Flags().String("type", "manual", "Checkpoint type: manual, auto or emergency")
	checkpointCmd.Flags().String("payload", "", "JSON payload object")

	lastCmd := &cobra.Command{
		Use:   "last <session-id>",
		Short: "Show the most recent checkpoint for a session",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionLast,
	}

	eventCmd := &cobra.Command{
		Use:   "event <name>",
		Short: "Track a usage event",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionEvent,
	}
	eventCmd.Flags().StringP("session", "s", "", "Session id")
	eventCmd.Flags().String("props", "", "JSON properties object")

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Show event counts grouped by name",
		Run:   runSessionEvents,
	}

	sessionCmd.AddCommand(startCmd, endCmd, checkpointCmd, lastCmd, eventCmd, eventsCmd)
	RootCmd.AddCommand(sessionCmd)
}

func runSessionStart(cmd *cobra.Command, args []string) {
	mode, _ := cmd.Flags().GetString("mode")
	sessionContext, _ := cmd.Flags().GetString("context")

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	sess, err := session.New(s).CreateSession(cmd.Context(), args[0], mode, sessionContext)
	if err != nil {
		exitErr("session start", err)
	}
	printJSON(sess)
}

func runSessionEnd(cmd *cobra.Command, args []string) {
	reason, _ := cmd.Flags().GetString("reason")

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	sess, err := session.New(s).EndSession(cmd.Context(), args[0], reason)
	if err != nil {
		exitErr("session end", err)
	}
	printJSON(sess)
}

func runSessionCheckpoint(cmd *cobra.Command, args []string) {
	cpContext, _ := cmd.Flags().GetString("context")
	cpType, _ := cmd.Flags().GetString("type")
	payloadStr, _ := cmd.Flags().GetString("payload")

	var payload map[string]any
	if payloadStr != "" {
		if err := json.Unmarshal([]byte(payloadStr), &payload); err != nil {
			exitErr("parse payload", err)
		}
	}

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	cp, err := session.New(s).SaveCheckpoint(cmd.Context(), session.CheckpointParams{
		SessionID: args[0],
		Context:   cpContext,
		Type:      cpType,
		Payload:   payload,
	})
	if err != nil {
		exitErr("session checkpoint", err)
	}
	printJSON(cp)
}

func runSessionLast(cmd *cobra.Command, args []string) {
	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	cp, err := session.New(s).LastContext(cmd.Context(), args[0])
	if err != nil {
		exitErr("session last", err)
	}
	printJSON(cp)
}

func runSessionEvent(cmd *cobra.Command, args []string) {
	sessionID, _ := cmd.Flags().GetString("session")
	propsStr, _ := cmd.Flags().GetString("props")

	var props map[string]any
	if propsStr != "" {
		if err := json.Unmarshal([]byte(propsStr), &props); err != nil {
			exitErr("parse props", err)
		}
	}

	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	if err := session.New(s).TrackEvent(cmd.Context(), args[0], sessionID, props); err != nil {
		exitErr("session event", err)
	}
	printJSON(struct {
		Event   string `json:"event"`
		Tracked bool   `json:"tracked"`
	}{Event: args[0], Tracked: true})
}

func runSessionEvents(cmd *cobra.Command, args []string) {
	s, err := openBackend()
	if err != nil {
		exitErr("open backend", err)
	}
	defer s.Close()

	stats, err := session.New(s).EventStats(cmd.Context())
	if err != nil {
		exitErr("session events", err)
	}
	printJSON(stats)
}
