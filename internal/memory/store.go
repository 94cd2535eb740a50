// Package memory implements the key/value memory store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rcliao/agent-graph/internal/backend"
	"github.com/rcliao/agent-graph/internal/model"
)

// Store is the key/value memory store. It holds no state of its own;
// every call is a complete read-modify-write against the backend.
type Store struct {
	b   backend.Backend
	now func() time.Time
}

// New creates a memory store on the given backend.
func New(b backend.Backend) *Store {
	return &Store{b: b, now: func() time.Time { return time.Now().UTC() }}
}

// SaveParams holds parameters for storing a memory record.
type SaveParams struct {
	Key        string
	Value      string
	Tags       []string
	Category   string
	TTLSeconds int // 0 means no expiry
}

// Save stores a memory record, fully replacing any existing record with
// the same key. Replacement resets access accounting; overwriting is
// never an error.
func (s *Store) Save(ctx context.Context, p SaveParams) (*model.MemoryRecord, error) {
	if p.Key == "" {
		return nil, fmt.Errorf("key is required: %w", model.ErrInvalidArgument)
	}

	now := s.now()
	rec := &model.MemoryRecord{
		Key:       p.Key,
		Value:     p.Value,
		Tags:      p.Tags,
		Category:  p.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.TTLSeconds > 0 {
		exp := now.Add(time.Duration(p.TTLSeconds) * time.Second)
		rec.TTLExpiresAt = &exp
	}

	if err := s.put(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Load retrieves a record and bumps its access accounting. A record
// whose TTL has elapsed is deleted on the spot and reported as not
// found; lazy expiry is an observable side effect of a read.
func (s *Store) Load(ctx context.Context, key string) (*model.MemoryRecord, error) {
	rec, err := s.get(ctx, key)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if rec.Expired(now) {
		if err := s.b.Delete(ctx, backend.ColMemory, key); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("memory %s: %w", key, model.ErrNotFound)
	}

	rec.AccessCount++
	rec.AccessedAt = &now
	if err := s.put(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a record. It is idempotent and reports true whether or
// not the key existed.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := s.b.Delete(ctx, backend.ColMemory, key); err != nil {
		return false, err
	}
	return true, nil
}

// Cleanup eagerly purges every TTL-expired record and returns the purge
// count. It is the maintenance sweep counterpart to the lazy expiry in
// Load and List.
func (s *Store) Cleanup(ctx context.Context) (int, error) {
	records, err := s.scan(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	purged := 0
	for _, rec := range records {
		if !rec.Expired(now) {
			continue
		}
		if err := s.b.Delete(ctx, backend.ColMemory, rec.Key); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

func (s *Store) get(ctx context.Context, key string) (*model.MemoryRecord, error) {
	data, err := s.b.Get(ctx, backend.ColMemory, key)
	if err != nil {
		return nil, err
	}
	var rec model.MemoryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode memory %s: %w", key, err)
	}
	return &rec, nil
}

func (s *Store) put(ctx context.Context, rec *model.MemoryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode memory %s: %w", rec.Key, err)
	}
	return s.b.Put(ctx, backend.ColMemory, rec.Key, data)
}

func (s *Store) scan(ctx context.Context) ([]model.MemoryRecord, error) {
	raw, err := s.b.Scan(ctx, backend.ColMemory)
	if err != nil {
		return nil, err
	}
	records := make([]model.MemoryRecord, 0, len(raw))
	for _, r := range raw {
		var rec model.MemoryRecord
		if err := json.Unmarshal(r.Data, &rec); err != nil {
			return nil, fmt.Errorf("decode memory %s: %w", r.Key, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
