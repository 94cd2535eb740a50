package graph

import (
	"context"
	"strings"

	"github.com/rcliao/agent-graph/internal/model"
)

// Match reasons attached to search results.
const (
	MatchName        = "name"
	MatchType        = "type"
	MatchObservation = "observation"
)

// NodeMatch is a search hit with the reason it matched.
type NodeMatch struct {
	model.Entity
	MatchReason string `json:"match_reason"`
}

// SearchParams holds parameters for searching graph nodes.
type SearchParams struct {
	Query      string
	EntityType string // additional AND filter
	Limit      int
}

// SearchNodes finds entities whose name, type, or any observation text
// contains the query, case-insensitively. There is no relevance scoring
// beyond the match reason; enumeration order for ties follows backend
// scan order and is not guaranteed stable across calls.
func (e *Engine) SearchNodes(ctx context.Context, p SearchParams) ([]NodeMatch, error) {
	entities, err := e.scanEntities(ctx)
	if err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	query := strings.ToLower(p.Query)

	var matches []NodeMatch
	for _, ent := range entities {
		if p.EntityType != "" && ent.Type != p.EntityType {
			continue
		}
		reason := matchReason(&ent, query)
		if reason == "" {
			continue
		}
		matches = append(matches, NodeMatch{Entity: ent, MatchReason: reason})
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func matchReason(ent *model.Entity, query string) string {
	if strings.Contains(strings.ToLower(ent.Name), query) {
		return MatchName
	}
	if strings.Contains(strings.ToLower(ent.Type), query) {
		return MatchType
	}
	for _, obs := range ent.Observations {
		if strings.Contains(strings.ToLower(obs.Text), query) {
			return MatchObservation
		}
	}
	return ""
}

// ReadParams holds parameters for reading a graph snapshot.
type ReadParams struct {
	IncludeRelations bool
	EntityType       string
	Limit            int
}

// Snapshot is a capped read of the graph. Entities carry their
// observations inline; relations, when requested, are those with either
// endpoint among the returned entities.
type Snapshot struct {
	Entities      []model.Entity   `json:"entities"`
	Relations     []model.Relation `json:"relations,omitempty"`
	EntityCount   int              `json:"entity_count"`
	RelationCount int              `json:"relation_count"`
}

// ReadGraph returns up to Limit entities (a hard cap, not a sample).
// There is no pagination cursor; callers needing more re-query with
// different filters.
func (e *Engine) ReadGraph(ctx context.Context, p ReadParams) (*Snapshot, error) {
	entities, err := e.scanEntities(ctx)
	if err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 100
	}

	snap := &Snapshot{}
	names := map[string]bool{}
	for _, ent := range entities {
		if p.EntityType != "" && ent.Type != p.EntityType {
			continue
		}
		snap.Entities = append(snap.Entities, ent)
		names[ent.Name] = true
		if len(snap.Entities) == limit {
			break
		}
	}
	snap.EntityCount = len(snap.Entities)

	if p.IncludeRelations {
		relations, err := e.scanRelations(ctx)
		if err != nil {
			return nil, err
		}
		for _, rel := range relations {
			if names[rel.From] || names[rel.To] {
				snap.Relations = append(snap.Relations, rel)
			}
		}
		snap.RelationCount = len(snap.Relations)
	}
	return snap, nil
}
