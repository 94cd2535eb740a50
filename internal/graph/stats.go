package graph

import "context"

// Stats holds knowledge graph statistics.
type Stats struct {
	TotalEntities     int            `json:"total_entities"`
	TotalRelations    int            `json:"total_relations"`
	TotalObservations int            `json:"total_observations"`
	EntityTypes       map[string]int `json:"entity_types"`
	RelationTypes     map[string]int `json:"relation_types"`
}

// Stats returns totals and per-type counts for the graph.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	entities, err := e.scanEntities(ctx)
	if err != nil {
		return nil, err
	}
	relations, err := e.scanRelations(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		TotalEntities:  len(entities),
		TotalRelations: len(relations),
		EntityTypes:    map[string]int{},
		RelationTypes:  map[string]int{},
	}
	for _, ent := range entities {
		st.EntityTypes[ent.Type]++
		st.TotalObservations += len(ent.Observations)
	}
	for _, rel := range relations {
		st.RelationTypes[rel.Type]++
	}
	return st, nil
}
