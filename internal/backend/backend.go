// Package backend provides the pluggable record persistence layer.
//
// A backend stores opaque JSON documents addressed by (collection, key).
// Two variants exist: a one-file-per-record tree and an embedded SQLite
// store. Everything above this package is written against the Backend
// interface and must not assume either variant.
package backend

import (
	"context"
	"fmt"

	"github.com/rcliao/agent-graph/internal/model"
)

// Collection names used by the stores.
const (
	ColMemory      = "memory"
	ColEntities    = "knowledge/entities"
	ColRelations   = "knowledge/relations"
	ColSessions    = "sessions"
	ColCheckpoints = "checkpoints"
	ColEvents      = "events"
)

// Collections lists every collection, for export and backend setup.
var Collections = []string{
	ColMemory, ColEntities, ColRelations, ColSessions, ColCheckpoints, ColEvents,
}

// Record is one stored document.
type Record struct {
	Key  string `json:"key"`
	Data []byte `json:"data"`
}

// Backend is the storage primitive set. Each call is atomic for a
// single record; nothing here is transactional across records.
type Backend interface {
	// Get returns the document, or an error wrapping model.ErrNotFound.
	Get(ctx context.Context, collection, key string) ([]byte, error)

	// Put stores the document, fully replacing any prior version.
	Put(ctx context.Context, collection, key string, data []byte) error

	// Delete removes the document. Deleting an absent key is not an error.
	Delete(ctx context.Context, collection, key string) error

	// Scan returns every record in the collection. Order is unspecified.
	Scan(ctx context.Context, collection string) ([]Record, error)

	// Close releases backend resources.
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindSQLite = "sqlite"
	KindFile   = "file"
)

// Open creates a backend of the given kind rooted at path. For sqlite
// the path is the database file; for file it is the data directory.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case KindSQLite, "":
		return NewSQLiteBackend(path)
	case KindFile:
		return NewFileBackend(path)
	}
	return nil, fmt.Errorf("unknown backend %q (use sqlite or file): %w", kind, model.ErrInvalidArgument)
}
