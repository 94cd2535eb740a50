package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rcliao/agent-graph/internal/model"
)

// SnapshotFunc supplies the checkpoint context and payload for one
// auto-save.
type SnapshotFunc func() (string, map[string]any)

// AutoSaver periodically writes "auto" checkpoints for a session. Ticks
// never overlap: if a save is still in flight when the next tick fires,
// that tick is skipped. Stop cancels the timer and waits for the
// goroutine to exit. Start and Stop must be called from the same
// goroutine; they are not safe to race against each other.
type AutoSaver struct {
	ledger    *Ledger
	sessionID string
	interval  time.Duration
	snapshot  SnapshotFunc
	logger    *log.Logger

	saving atomic.Bool
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAutoSaver creates an auto-saver for the given session. A nil
// logger falls back to the default logger.
func NewAutoSaver(l *Ledger, sessionID string, interval time.Duration, snapshot SnapshotFunc, logger *log.Logger) *AutoSaver {
	if logger == nil {
		logger = log.Default()
	}
	return &AutoSaver{
		ledger:    l,
		sessionID: sessionID,
		interval:  interval,
		snapshot:  snapshot,
		logger:    logger,
	}
}

// Start begins the recurring save loop. Calling Start on a running
// saver is a no-op.
func (a *AutoSaver) Start(ctx context.Context) {
	if a.cancel != nil {
		return
	}
	ctx, a.cancel = context.WithCancel(ctx)
	a.done = make(chan struct{})

	go func() {
		defer close(a.done)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.tick(ctx)
			}
		}
	}()
}

// Stop cancels the timer and waits for any in-flight save to return.
func (a *AutoSaver) Stop() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
	a.cancel = nil
}

func (a *AutoSaver) tick(ctx context.Context) {
	if !a.saving.CompareAndSwap(false, true) {
		a.logger.Warn("auto-save still in flight, skipping tick", "session", a.sessionID)
		return
	}
	defer a.saving.Store(false)

	saveContext, payload := "periodic auto-save", map[string]any(nil)
	if a.snapshot != nil {
		saveContext, payload = a.snapshot()
	}
	if _, err := a.ledger.SaveCheckpoint(ctx, CheckpointParams{
		SessionID: a.sessionID,
		Context:   saveContext,
		Type:      model.CheckpointAuto,
		Payload:   payload,
	}); err != nil {
		a.logger.Error("auto-save failed", "session", a.sessionID, "err", err)
	}
}
