// Package graph implements the knowledge graph engine: entities,
// relations, and observations.
//
// Relation endpoints are addressed by entity name. Batch operations
// attempt every item and report per-item errors; they are never atomic
// across items.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/agent-graph/internal/backend"
	"github.com/rcliao/agent-graph/internal/model"
)

// Engine is the knowledge graph engine.
type Engine struct {
	b       backend.Backend
	entropy *rand.Rand
	now     func() time.Time
}

// New creates a graph engine on the given backend.
func New(b backend.Backend) *Engine {
	return &Engine{
		b:       b,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), e.entropy).String()
}

func (e *Engine) putEntity(ctx context.Context, ent *model.Entity) error {
	data, err := json.Marshal(ent)
	if err != nil {
		return fmt.Errorf("encode entity %s: %w", ent.Name, err)
	}
	return e.b.Put(ctx, backend.ColEntities, ent.ID, data)
}

func (e *Engine) putRelation(ctx context.Context, rel *model.Relation) error {
	data, err := json.Marshal(rel)
	if err != nil {
		return fmt.Errorf("encode relation %s: %w", rel.ID, err)
	}
	return e.b.Put(ctx, backend.ColRelations, rel.ID, data)
}

func (e *Engine) scanEntities(ctx context.Context) ([]model.Entity, error) {
	raw, err := e.b.Scan(ctx, backend.ColEntities)
	if err != nil {
		return nil, err
	}
	entities := make([]model.Entity, 0, len(raw))
	for _, r := range raw {
		var ent model.Entity
		if err := json.Unmarshal(r.Data, &ent); err != nil {
			return nil, fmt.Errorf("decode entity %s: %w", r.Key, err)
		}
		entities = append(entities, ent)
	}
	return entities, nil
}

func (e *Engine) scanRelations(ctx context.Context) ([]model.Relation, error) {
	raw, err := e.b.Scan(ctx, backend.ColRelations)
	if err != nil {
		return nil, err
	}
	relations := make([]model.Relation, 0, len(raw))
	for _, r := range raw {
		var rel model.Relation
		if err := json.Unmarshal(r.Data, &rel); err != nil {
			return nil, fmt.Errorf("decode relation %s: %w", r.Key, err)
		}
		relations = append(relations, rel)
	}
	return relations, nil
}

// entitiesByName builds a name index from one scan. Names are unique
// among live entities, enforced at creation.
func (e *Engine) entitiesByName(ctx context.Context) (map[string]*model.Entity, error) {
	entities, err := e.scanEntities(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*model.Entity, len(entities))
	for i := range entities {
		byName[entities[i].Name] = &entities[i]
	}
	return byName, nil
}

func relationLabel(rel *model.Relation) string {
	return fmt.Sprintf("%s -> %s (%s)", rel.From, rel.To, rel.Type)
}
