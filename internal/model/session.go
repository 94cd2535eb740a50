package model

import "time"

// Session records the lifecycle of one logical work session.
type Session struct {
	ID        string     `json:"id"`
	Mode      string     `json:"mode"`
	Context   string     `json:"context,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	EndReason string     `json:"end_reason,omitempty"`
}

// Checkpoint is an append-only save point within a session. Checkpoints
// are historical log entries: removing a session does not remove them.
type Checkpoint struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Context   string         `json:"context"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Checkpoint types.
const (
	CheckpointManual    = "manual"
	CheckpointAuto      = "auto"
	CheckpointEmergency = "emergency"
)

// ValidCheckpointTypes are the allowed checkpoint types.
var ValidCheckpointTypes = map[string]bool{
	CheckpointManual:    true,
	CheckpointAuto:      true,
	CheckpointEmergency: true,
}

// Event is an append-only usage event, counted by name.
type Event struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	SessionID  string         `json:"session_id,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
