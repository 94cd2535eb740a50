package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rcliao/agent-graph/internal/model"
)

// Both variants must satisfy the same contract, so every test runs
// against both.
func eachBackend(t *testing.T, fn func(t *testing.T, b Backend)) {
	t.Helper()
	t.Run("sqlite", func(t *testing.T) {
		b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("open sqlite backend: %v", err)
		}
		t.Cleanup(func() { b.Close() })
		fn(t, b)
	})
	t.Run("file", func(t *testing.T) {
		b, err := NewFileBackend(t.TempDir())
		if err != nil {
			t.Fatalf("open file backend: %v", err)
		}
		t.Cleanup(func() { b.Close() })
		fn(t, b)
	})
}

func TestPutGetRoundtrip(t *testing.T) {
	eachBackend(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		if err := b.Put(ctx, ColMemory, "greeting", []byte(`{"v":1}`)); err != nil {
			t.Fatalf("put: %v", err)
		}
		data, err := b.Get(ctx, ColMemory, "greeting")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(data) != `{"v":1}` {
			t.Errorf("got %q", data)
		}
	})
}

func TestPutReplaces(t *testing.T) {
	eachBackend(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		b.Put(ctx, ColMemory, "k", []byte(`1`))
		b.Put(ctx, ColMemory, "k", []byte(`2`))
		data, err := b.Get(ctx, ColMemory, "k")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(data) != `2` {
			t.Errorf("expected full replace, got %q", data)
		}
	})
}

func TestGetMissing(t *testing.T) {
	eachBackend(t, func(t *testing.T, b Backend) {
		_, err := b.Get(context.Background(), ColMemory, "absent")
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteIdempotent(t *testing.T) {
	eachBackend(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		b.Put(ctx, ColMemory, "k", []byte(`1`))
		if err := b.Delete(ctx, ColMemory, "k"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := b.Delete(ctx, ColMemory, "k"); err != nil {
			t.Errorf("second delete should be a no-op, got %v", err)
		}
		if _, err := b.Get(ctx, ColMemory, "k"); !errors.Is(err, model.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestScan(t *testing.T) {
	eachBackend(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		b.Put(ctx, ColEntities, "a", []byte(`1`))
		b.Put(ctx, ColEntities, "b", []byte(`2`))
		b.Put(ctx, ColRelations, "c", []byte(`3`))

		records, err := b.Scan(ctx, ColEntities)
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}

		empty, err := b.Scan(ctx, ColCheckpoints)
		if err != nil {
			t.Fatalf("scan empty: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("expected empty scan, got %d", len(empty))
		}
	})
}

func TestAwkwardKeys(t *testing.T) {
	eachBackend(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		keys := []string{"a/b", "with space", "dots..", "%encoded%"}
		for _, k := range keys {
			if err := b.Put(ctx, ColMemory, k, []byte(`x`)); err != nil {
				t.Fatalf("put %q: %v", k, err)
			}
		}
		records, err := b.Scan(ctx, ColMemory)
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		found := map[string]bool{}
		for _, r := range records {
			found[r.Key] = true
		}
		for _, k := range keys {
			if !found[k] {
				t.Errorf("key %q lost in scan", k)
			}
			if _, err := b.Get(ctx, ColMemory, k); err != nil {
				t.Errorf("get %q: %v", k, err)
			}
		}
	})
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
