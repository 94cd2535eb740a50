package graph

import (
	"context"
	"fmt"

	"github.com/rcliao/agent-graph/internal/backend"
	"github.com/rcliao/agent-graph/internal/model"
)

// RelationSpec describes one relation to create.
type RelationSpec struct {
	From          string         `json:"from"`
	To            string         `json:"to"`
	Type          string         `json:"type"`
	Properties    map[string]any `json:"properties,omitempty"`
	Bidirectional bool           `json:"bidirectional,omitempty"`
	Weight        float64        `json:"weight,omitempty"`
	Confidence    float64        `json:"confidence,omitempty"`
}

// CreateRelationsResult separates created relations from per-item errors.
type CreateRelationsResult struct {
	Created []model.Relation  `json:"created"`
	Errors  []model.ItemError `json:"errors,omitempty"`
}

// CreateRelations creates every relation in the batch whose endpoints
// resolve to existing entities. A bidirectional request persists two
// independent records; if the mirror fails after the primary succeeded,
// the primary stays created and the mirror failure is reported as its
// own item error. There is no rollback.
func (e *Engine) CreateRelations(ctx context.Context, specs []RelationSpec) (*CreateRelationsResult, error) {
	byName, err := e.entitiesByName(ctx)
	if err != nil {
		return nil, err
	}

	res := &CreateRelationsResult{}
	for _, spec := range specs {
		label := fmt.Sprintf("%s -> %s (%s)", spec.From, spec.To, spec.Type)
		if spec.From == "" || spec.To == "" || spec.Type == "" {
			res.Errors = append(res.Errors, model.NewItemError(label,
				fmt.Errorf("from, to and type are required: %w", model.ErrInvalidArgument)))
			continue
		}
		if _, ok := byName[spec.From]; !ok {
			res.Errors = append(res.Errors, model.NewItemError(label,
				fmt.Errorf("entity %q: %w", spec.From, model.ErrNotFound)))
			continue
		}
		if _, ok := byName[spec.To]; !ok {
			res.Errors = append(res.Errors, model.NewItemError(label,
				fmt.Errorf("entity %q: %w", spec.To, model.ErrNotFound)))
			continue
		}

		primary := model.Relation{
			ID:            e.newID(),
			From:          spec.From,
			To:            spec.To,
			Type:          spec.Type,
			Properties:    spec.Properties,
			Bidirectional: spec.Bidirectional,
			Weight:        spec.Weight,
			Confidence:    spec.Confidence,
			CreatedAt:     e.now(),
		}
		if err := e.putRelation(ctx, &primary); err != nil {
			res.Errors = append(res.Errors, model.NewItemError(label, err))
			continue
		}
		res.Created = append(res.Created, primary)

		if !spec.Bidirectional {
			continue
		}
		mirror := primary
		mirror.ID = e.newID()
		mirror.From, mirror.To = primary.To, primary.From
		if err := e.putRelation(ctx, &mirror); err != nil {
			res.Errors = append(res.Errors, model.NewItemError(relationLabel(&mirror), err))
			continue
		}
		res.Created = append(res.Created, mirror)
	}
	return res, nil
}

// RelationKey identifies a relation by its (from, to, type) triple.
type RelationKey struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// DeleteRelationsResult separates deleted triples from per-item errors.
type DeleteRelationsResult struct {
	Deleted []RelationKey     `json:"deleted"`
	Errors  []model.ItemError `json:"errors,omitempty"`
}

// DeleteRelations removes relations by exact (from, to, type) match.
// No fuzzy or partial matching is done.
func (e *Engine) DeleteRelations(ctx context.Context, keys []RelationKey) (*DeleteRelationsResult, error) {
	relations, err := e.scanRelations(ctx)
	if err != nil {
		return nil, err
	}

	res := &DeleteRelationsResult{}
	removed := map[string]bool{}
	for _, k := range keys {
		label := fmt.Sprintf("%s -> %s (%s)", k.From, k.To, k.Type)
		found := false
		failed := false
		for i := range relations {
			rel := &relations[i]
			if removed[rel.ID] || rel.From != k.From || rel.To != k.To || rel.Type != k.Type {
				continue
			}
			if err := e.b.Delete(ctx, backend.ColRelations, rel.ID); err != nil {
				res.Errors = append(res.Errors, model.NewItemError(label, err))
				failed = true
				continue
			}
			removed[rel.ID] = true
			found = true
		}
		if found {
			res.Deleted = append(res.Deleted, k)
		} else if !failed {
			res.Errors = append(res.Errors, model.NewItemError(label,
				fmt.Errorf("relation %s: %w", label, model.ErrNotFound)))
		}
	}
	return res, nil
}
