package session

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestAutoSaverWritesCheckpoints(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	l.CreateSession(ctx, "s1", "marathon", "")

	a := NewAutoSaver(l, "s1", 10*time.Millisecond, func() (string, map[string]any) {
		return "snapshot", map[string]any{"n": 1}
	}, quietLogger())

	a.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	a.Stop()

	cp, err := l.LastContext(ctx, "s1")
	if err != nil {
		t.Fatalf("expected at least one auto checkpoint: %v", err)
	}
	if cp.Type != "auto" || cp.Context != "snapshot" {
		t.Errorf("unexpected checkpoint: %+v", cp)
	}
}

func TestAutoSaverSkipsOverlappingTicks(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	l.CreateSession(ctx, "s1", "marathon", "")

	a := NewAutoSaver(l, "s1", time.Minute, nil, quietLogger())

	// Simulate a save still in flight: the guard must make the next
	// tick a no-op instead of a concurrent save.
	a.saving.Store(true)
	a.tick(ctx)
	if _, err := l.LastContext(ctx, "s1"); err == nil {
		t.Fatal("tick should have been skipped while a save was in flight")
	}

	a.saving.Store(false)
	a.tick(ctx)
	if _, err := l.LastContext(ctx, "s1"); err != nil {
		t.Fatalf("expected a checkpoint once the guard cleared: %v", err)
	}
}

func TestAutoSaverStopIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	l.CreateSession(ctx, "s1", "marathon", "")

	a := NewAutoSaver(l, "s1", 10*time.Millisecond, nil, quietLogger())
	a.Start(ctx)
	a.Stop()
	a.Stop()

	// Restart after stop works.
	a.Start(ctx)
	a.Stop()
}
