package memory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/agent-graph/internal/backend"
	"github.com/rcliao/agent-graph/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	b, err := backend.NewSQLiteBackend(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return New(b)
}

// advance shifts the store's clock forward for TTL tests.
func advance(s *Store, d time.Duration) {
	base := time.Now().UTC()
	s.now = func() time.Time { return base.Add(d) }
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	saved, err := s.Save(ctx, SaveParams{
		Key: "trip", Value: "Batumi notes", Tags: []string{"georgia", "coast"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.AccessCount != 0 {
		t.Errorf("expected access_count 0 after save, got %d", saved.AccessCount)
	}

	got, err := s.Load(ctx, "trip")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Value != "Batumi notes" {
		t.Errorf("expected 'Batumi notes', got %q", got.Value)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "georgia" || got.Tags[1] != "coast" {
		t.Errorf("tags not preserved: %v", got.Tags)
	}
	if got.AccessCount != 1 {
		t.Errorf("expected access_count 1 after first load, got %d", got.AccessCount)
	}

	got2, _ := s.Load(ctx, "trip")
	if got2.AccessCount != 2 {
		t.Errorf("expected access_count 2 after second load, got %d", got2.AccessCount)
	}
	if got2.AccessedAt == nil {
		t.Error("expected accessed_at to be set")
	}
}

func TestSaveRequiresKey(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save(context.Background(), SaveParams{Value: "x"})
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSaveFullyReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Save(ctx, SaveParams{Key: "k", Value: "v1", Tags: []string{"old"}})
	s.Load(ctx, "k")
	s.Load(ctx, "k")

	s.Save(ctx, SaveParams{Key: "k", Value: "v2"})
	got, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Value != "v2" {
		t.Errorf("expected 'v2', got %q", got.Value)
	}
	// Replace resets accounting, so this first load sees count 1.
	if got.AccessCount != 1 {
		t.Errorf("expected access_count reset by save, got %d", got.AccessCount)
	}
	if len(got.Tags) != 0 {
		t.Errorf("expected tags replaced, got %v", got.Tags)
	}
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(context.Background(), "ghost")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLazyExpiry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Save(ctx, SaveParams{Key: "short", Value: "lived", TTLSeconds: 60})
	s.Save(ctx, SaveParams{Key: "keeper", Value: "stays"})

	advance(s, 2*time.Minute)

	_, err := s.Load(ctx, "short")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired record, got %v", err)
	}

	// The expired record was deleted by the read, not merely hidden.
	items, total, err := s.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Key != "keeper" {
		t.Errorf("expected only 'keeper' to remain, got %v (total %d)", items, total)
	}
}

func TestListExpiresLazily(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Save(ctx, SaveParams{Key: "short", Value: "lived", TTLSeconds: 60})
	advance(s, 2*time.Minute)

	_, total, _ := s.List(ctx, ListParams{})
	if total != 0 {
		t.Fatalf("expected 0 records after expiry, got %d", total)
	}
	if _, err := s.b.Get(ctx, backend.ColMemory, "short"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected list to purge the expired record, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Save(ctx, SaveParams{Key: "trip", Value: "Batumi notes", Tags: []string{"georgia", "coast"}})
	s.Save(ctx, SaveParams{Key: "peak", Value: "Kazbegi", Tags: []string{"georgia", "mountains"}})
	s.Save(ctx, SaveParams{Key: "todo", Value: "pack", Category: "planning"})

	items, _, _ := s.List(ctx, ListParams{Tags: []string{"coast"}})
	if len(items) != 1 || items[0].Key != "trip" {
		t.Errorf("expected 'trip' for coast tag, got %v", items)
	}

	// OR semantics: either tag matches.
	_, total, _ := s.List(ctx, ListParams{Tags: []string{"coast", "mountains"}})
	if total != 2 {
		t.Errorf("expected 2 matches for coast|mountains, got %d", total)
	}

	items, _, _ = s.List(ctx, ListParams{Tags: []string{"desert"}})
	if len(items) != 0 {
		t.Errorf("expected no matches for desert, got %v", items)
	}

	items, _, _ = s.List(ctx, ListParams{Category: "planning"})
	if len(items) != 1 || items[0].Key != "todo" {
		t.Errorf("expected 'todo' for planning category, got %v", items)
	}
}

func TestListSortAndPagination(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, k := range []string{"a", "b", "c", "d"} {
		s.Save(ctx, SaveParams{Key: k, Value: k})
	}

	items, total, _ := s.List(ctx, ListParams{SortBy: "key", SortOrder: "asc", Limit: 2})
	if total != 4 {
		t.Errorf("expected total 4 before pagination, got %d", total)
	}
	if len(items) != 2 || items[0].Key != "a" || items[1].Key != "b" {
		t.Errorf("unexpected first page: %v", items)
	}

	items, _, _ = s.List(ctx, ListParams{SortBy: "key", SortOrder: "asc", Limit: 2, Offset: 2})
	if len(items) != 2 || items[0].Key != "c" || items[1].Key != "d" {
		t.Errorf("unexpected second page: %v", items)
	}

	items, _, _ = s.List(ctx, ListParams{SortBy: "key", SortOrder: "asc", Limit: 2, Offset: 10})
	if len(items) != 0 {
		t.Errorf("expected empty page past the end, got %v", items)
	}

	// A negative offset is treated as the first page, not an error.
	items, total, err := s.List(ctx, ListParams{SortBy: "key", SortOrder: "asc", Limit: 2, Offset: -1})
	if err != nil {
		t.Fatalf("list with negative offset: %v", err)
	}
	if total != 4 || len(items) != 2 || items[0].Key != "a" {
		t.Errorf("expected first page for negative offset, got %v (total %d)", items, total)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Save(ctx, SaveParams{Key: "trip", Value: "Batumi seaside notes"})
	s.Save(ctx, SaveParams{Key: "batumi-food", Value: "khachapuri places"})
	s.Save(ctx, SaveParams{Key: "unrelated", Value: "grocery list"})

	// Case-insensitive, matches key or value.
	results, err := s.Search(ctx, SearchParams{Query: "BATUMI"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}

	// Ranking: most accessed first.
	s.Load(ctx, "batumi-food")
	s.Load(ctx, "batumi-food")
	results, _ = s.Search(ctx, SearchParams{Query: "batumi"})
	if results[0].Key != "batumi-food" {
		t.Errorf("expected 'batumi-food' ranked first, got %q", results[0].Key)
	}
}

func TestSearchExcludesExpiredWithoutDeleting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Save(ctx, SaveParams{Key: "short", Value: "target", TTLSeconds: 60})
	advance(s, 2*time.Minute)

	results, _ := s.Search(ctx, SearchParams{Query: "target"})
	if len(results) != 0 {
		t.Errorf("expected expired record excluded, got %v", results)
	}
	// Search is read-only; the record is still on disk.
	if _, err := s.b.Get(ctx, backend.ColMemory, "short"); err != nil {
		t.Errorf("expected record untouched by search, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Save(ctx, SaveParams{Key: "k", Value: "v"})
	ok, err := s.Delete(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	ok, err = s.Delete(ctx, "k")
	if err != nil || !ok {
		t.Errorf("expected idempotent delete to report true, got ok=%v err=%v", ok, err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Save(ctx, SaveParams{Key: "a", Value: "1", Category: "work"})
	s.Save(ctx, SaveParams{Key: "b", Value: "2", Category: "work"})
	s.Save(ctx, SaveParams{Key: "c", Value: "3"})
	s.Load(ctx, "b")

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Total != 3 {
		t.Errorf("expected total 3, got %d", st.Total)
	}
	if st.ByCategory["work"] != 2 || st.ByCategory[Uncategorized] != 1 {
		t.Errorf("unexpected category counts: %v", st.ByCategory)
	}
	if len(st.TopAccessed) == 0 || st.TopAccessed[0].Key != "b" {
		t.Errorf("expected 'b' as most accessed, got %v", st.TopAccessed)
	}
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Save(ctx, SaveParams{Key: "old1", Value: "x", TTLSeconds: 60})
	s.Save(ctx, SaveParams{Key: "old2", Value: "y", TTLSeconds: 60})
	s.Save(ctx, SaveParams{Key: "keeper", Value: "z"})

	advance(s, time.Hour)

	purged, err := s.Cleanup(ctx)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if purged != 2 {
		t.Errorf("expected 2 purged, got %d", purged)
	}
	st, _ := s.Stats(ctx)
	if st.Total != 1 {
		t.Errorf("expected 1 record after cleanup, got %d", st.Total)
	}
}

func TestStoreOnFileBackend(t *testing.T) {
	ctx := context.Background()
	b, err := backend.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	s := New(b)

	s.Save(ctx, SaveParams{Key: "k", Value: "v", Tags: []string{"t"}})
	got, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Value != "v" || got.AccessCount != 1 {
		t.Errorf("unexpected record on file backend: %+v", got)
	}
}
