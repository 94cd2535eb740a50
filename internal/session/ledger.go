// Package session implements the session and checkpoint ledger.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/agent-graph/internal/backend"
	"github.com/rcliao/agent-graph/internal/model"
)

// Ledger records session lifecycle, checkpoints, and usage events.
type Ledger struct {
	b       backend.Backend
	entropy *rand.Rand
	now     func() time.Time
}

// New creates a ledger on the given backend.
func New(b backend.Backend) *Ledger {
	return &Ledger{
		b:       b,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ULIDs combine a timestamp with random entropy, so ids stay fresh even
// for checkpoints written within the same millisecond.
func (l *Ledger) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), l.entropy).String()
}

// CreateSession records the start of a session. Session ids are
// caller-supplied; reusing a live id is rejected so that an existing
// session's end state cannot be silently erased.
func (l *Ledger) CreateSession(ctx context.Context, id, mode, sessionContext string) (*model.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id is required: %w", model.ErrInvalidArgument)
	}
	if _, err := l.b.Get(ctx, backend.ColSessions, id); err == nil {
		return nil, fmt.Errorf("session %q: %w", id, model.ErrAlreadyExists)
	}

	sess := &model.Session{
		ID:        id,
		Mode:      mode,
		Context:   sessionContext,
		CreatedAt: l.now(),
	}
	if err := l.putSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// EndSession marks a session ended. ended_at is set only the first
// time; re-ending an already-ended session just overwrites the reason.
func (l *Ledger) EndSession(ctx context.Context, id, reason string) (*model.Session, error) {
	sess, err := l.getSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.EndedAt == nil {
		now := l.now()
		sess.EndedAt = &now
	}
	sess.EndReason = reason
	if err := l.putSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// CheckpointParams holds parameters for saving a checkpoint.
type CheckpointParams struct {
	SessionID string
	Context   string
	Type      string // manual | auto | emergency; empty means manual
	Payload   map[string]any
}

// SaveCheckpoint appends a checkpoint. The session must exist at write
// time; checkpoints are never removed when a session record is,
// because they are historical log entries.
func (l *Ledger) SaveCheckpoint(ctx context.Context, p CheckpointParams) (*model.Checkpoint, error) {
	if _, err := l.getSession(ctx, p.SessionID); err != nil {
		return nil, err
	}
	cpType := p.Type
	if cpType == "" {
		cpType = model.CheckpointManual
	}
	if !model.ValidCheckpointTypes[cpType] {
		return nil, fmt.Errorf("checkpoint type %q (use manual, auto or emergency): %w",
			cpType, model.ErrInvalidArgument)
	}

	cp := &model.Checkpoint{
		ID:        l.newID(),
		SessionID: p.SessionID,
		Context:   p.Context,
		Type:      cpType,
		Payload:   p.Payload,
		CreatedAt: l.now(),
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return nil, fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := l.b.Put(ctx, backend.ColCheckpoints, cp.ID, data); err != nil {
		return nil, err
	}
	return cp, nil
}

// LastContext returns the most recent checkpoint for a session, or a
// not-found error when the session has none.
func (l *Ledger) LastContext(ctx context.Context, sessionID string) (*model.Checkpoint, error) {
	raw, err := l.b.Scan(ctx, backend.ColCheckpoints)
	if err != nil {
		return nil, err
	}

	var latest *model.Checkpoint
	for _, r := range raw {
		var cp model.Checkpoint
		if err := json.Unmarshal(r.Data, &cp); err != nil {
			return nil, fmt.Errorf("decode checkpoint %s: %w", r.Key, err)
		}
		if cp.SessionID != sessionID {
			continue
		}
		if latest == nil || cp.CreatedAt.After(latest.CreatedAt) ||
			(cp.CreatedAt.Equal(latest.CreatedAt) && cp.ID > latest.ID) {
			c := cp
			latest = &c
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no checkpoint for session %q: %w", sessionID, model.ErrNotFound)
	}
	return latest, nil
}

// TrackEvent appends a usage event.
func (l *Ledger) TrackEvent(ctx context.Context, name, sessionID string, properties map[string]any) error {
	if name == "" {
		return fmt.Errorf("event name is required: %w", model.ErrInvalidArgument)
	}
	ev := &model.Event{
		ID:         l.newID(),
		Name:       name,
		SessionID:  sessionID,
		Properties: properties,
		CreatedAt:  l.now(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return l.b.Put(ctx, backend.ColEvents, ev.ID, data)
}

// EventCount is a per-name event total.
type EventCount struct {
	Event string `json:"event"`
	Count int    `json:"count"`
}

// EventStats returns event counts grouped by name, highest first.
func (l *Ledger) EventStats(ctx context.Context) ([]EventCount, error) {
	raw, err := l.b.Scan(ctx, backend.ColEvents)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, r := range raw {
		var ev model.Event
		if err := json.Unmarshal(r.Data, &ev); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", r.Key, err)
		}
		counts[ev.Name]++
	}

	stats := make([]EventCount, 0, len(counts))
	for name, count := range counts {
		stats = append(stats, EventCount{Event: name, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Event < stats[j].Event
	})
	return stats, nil
}

func (l *Ledger) getSession(ctx context.Context, id string) (*model.Session, error) {
	data, err := l.b.Get(ctx, backend.ColSessions, id)
	if err != nil {
		return nil, err
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (l *Ledger) putSession(ctx context.Context, sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	return l.b.Put(ctx, backend.ColSessions, sess.ID, data)
}
