package graph

import (
	"context"
	"fmt"

	"github.com/rcliao/agent-graph/internal/backend"
	"github.com/rcliao/agent-graph/internal/model"
)

// EntitySpec describes one entity to create.
type EntitySpec struct {
	Name         string         `json:"name"`
	Type         string         `json:"type,omitempty"`
	Properties   map[string]any `json:"properties,omitempty"`
	Observations []string       `json:"observations,omitempty"`
}

// CreateEntitiesResult separates created entities from per-item errors.
type CreateEntitiesResult struct {
	Created []model.Entity    `json:"created"`
	Errors  []model.ItemError `json:"errors,omitempty"`
}

// CreateEntities creates every entity in the batch that it can. A
// duplicate name yields an already-exists error for that item; the rest
// of the batch still proceeds.
func (e *Engine) CreateEntities(ctx context.Context, specs []EntitySpec) (*CreateEntitiesResult, error) {
	existing, err := e.scanEntities(ctx)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, ent := range existing {
		taken[ent.Name] = true
	}

	res := &CreateEntitiesResult{}
	for _, spec := range specs {
		if spec.Name == "" {
			res.Errors = append(res.Errors, model.NewItemError(spec.Name,
				fmt.Errorf("entity name is required: %w", model.ErrInvalidArgument)))
			continue
		}
		if taken[spec.Name] {
			res.Errors = append(res.Errors, model.NewItemError(spec.Name,
				fmt.Errorf("entity %q: %w", spec.Name, model.ErrAlreadyExists)))
			continue
		}

		now := e.now()
		ent := model.Entity{
			ID:         e.newID(),
			Name:       spec.Name,
			Type:       spec.Type,
			Properties: spec.Properties,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if ent.Type == "" {
			ent.Type = model.DefaultEntityType
		}
		for _, text := range spec.Observations {
			ent.Observations = append(ent.Observations, model.Observation{
				ID:        e.newID(),
				Text:      text,
				CreatedAt: now,
			})
		}

		if err := e.putEntity(ctx, &ent); err != nil {
			res.Errors = append(res.Errors, model.NewItemError(spec.Name, err))
			continue
		}
		taken[spec.Name] = true
		res.Created = append(res.Created, ent)
	}
	return res, nil
}

// DeleteEntitiesResult reports what a delete batch removed. Cascaded
// relations are reported as "from -> to (type)".
type DeleteEntitiesResult struct {
	DeletedEntities  []string          `json:"deleted_entities"`
	DeletedRelations []string          `json:"deleted_relations,omitempty"`
	Errors           []model.ItemError `json:"errors,omitempty"`
}

// DeleteEntities removes entities by name. With cascade, every relation
// referencing a deleted name (either endpoint) is removed too; without
// it, relations keep their now-dangling name references.
//
// Neither the batch nor the entity+cascade pair for one name is
// transactional: a failure partway through leaves earlier deletions in
// place, and a crash between an entity delete and its cascade can leave
// referencing relations behind.
func (e *Engine) DeleteEntities(ctx context.Context, names []string, cascade bool) (*DeleteEntitiesResult, error) {
	byName, err := e.entitiesByName(ctx)
	if err != nil {
		return nil, err
	}

	var relations []model.Relation
	if cascade {
		if relations, err = e.scanRelations(ctx); err != nil {
			return nil, err
		}
	}

	res := &DeleteEntitiesResult{}
	removedRels := map[string]bool{}
	for _, name := range names {
		ent, ok := byName[name]
		if !ok {
			res.Errors = append(res.Errors, model.NewItemError(name,
				fmt.Errorf("entity %q: %w", name, model.ErrNotFound)))
			continue
		}
		if err := e.b.Delete(ctx, backend.ColEntities, ent.ID); err != nil {
			res.Errors = append(res.Errors, model.NewItemError(name, err))
			continue
		}
		delete(byName, name)
		res.DeletedEntities = append(res.DeletedEntities, name)

		if !cascade {
			continue
		}
		for i := range relations {
			rel := &relations[i]
			if removedRels[rel.ID] || (rel.From != name && rel.To != name) {
				continue
			}
			if err := e.b.Delete(ctx, backend.ColRelations, rel.ID); err != nil {
				res.Errors = append(res.Errors, model.NewItemError(relationLabel(rel), err))
				continue
			}
			removedRels[rel.ID] = true
			res.DeletedRelations = append(res.DeletedRelations, relationLabel(rel))
		}
	}
	return res, nil
}
