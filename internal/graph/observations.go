package graph

import (
	"context"
	"fmt"

	"github.com/rcliao/agent-graph/internal/model"
)

// ObservationSpec describes observations to append to one entity.
type ObservationSpec struct {
	Entity     string   `json:"entity"`
	Texts      []string `json:"texts"`
	Type       string   `json:"type,omitempty"`
	Source     string   `json:"source,omitempty"`
	Context    string   `json:"context,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// ObservationAdded reports the outcome for one entity in the batch.
type ObservationAdded struct {
	Entity string `json:"entity"`
	Added  int    `json:"added"`
	Total  int    `json:"total"`
}

// AddObservationsResult separates per-entity outcomes from per-item errors.
type AddObservationsResult struct {
	Results []ObservationAdded `json:"results"`
	Errors  []model.ItemError  `json:"errors,omitempty"`
}

// AddObservations appends the given texts to each target entity's
// observation list and bumps its updated_at. Observations are
// append-only; nothing here mutates or reorders existing ones.
func (e *Engine) AddObservations(ctx context.Context, specs []ObservationSpec) (*AddObservationsResult, error) {
	byName, err := e.entitiesByName(ctx)
	if err != nil {
		return nil, err
	}

	res := &AddObservationsResult{}
	for _, spec := range specs {
		ent, ok := byName[spec.Entity]
		if !ok {
			res.Errors = append(res.Errors, model.NewItemError(spec.Entity,
				fmt.Errorf("entity %q: %w", spec.Entity, model.ErrNotFound)))
			continue
		}

		now := e.now()
		for _, text := range spec.Texts {
			ent.Observations = append(ent.Observations, model.Observation{
				ID:         e.newID(),
				Text:       text,
				Type:       spec.Type,
				Source:     spec.Source,
				Context:    spec.Context,
				Confidence: spec.Confidence,
				CreatedAt:  now,
			})
		}
		ent.UpdatedAt = now

		if err := e.putEntity(ctx, ent); err != nil {
			res.Errors = append(res.Errors, model.NewItemError(spec.Entity, err))
			continue
		}
		res.Results = append(res.Results, ObservationAdded{
			Entity: spec.Entity,
			Added:  len(spec.Texts),
			Total:  len(ent.Observations),
		})
	}
	return res, nil
}
