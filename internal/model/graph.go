package model

import "time"

// Entity is a named, typed node in the knowledge graph.
// Names are unique among live entities; the id is assigned at creation
// and never reused. Renaming is not supported.
type Entity struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Properties   map[string]any `json:"properties,omitempty"`
	Observations []Observation  `json:"observations,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Observation is a free-text note attached to an entity. The list on an
// entity is ordered and append-only; observations are removed only when
// the owning entity is deleted.
type Observation struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Type       string    `json:"type,omitempty"`
	Source     string    `json:"source,omitempty"`
	Context    string    `json:"context,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Relation is a directed, typed edge between two entities, addressed by
// entity name. A bidirectional request is persisted as two independent
// relation records, one per direction.
type Relation struct {
	ID            string         `json:"id"`
	From          string         `json:"from"`
	To            string         `json:"to"`
	Type          string         `json:"type"`
	Properties    map[string]any `json:"properties,omitempty"`
	Bidirectional bool           `json:"bidirectional,omitempty"`
	Weight        float64        `json:"weight,omitempty"`
	Confidence    float64        `json:"confidence,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// DefaultEntityType is used when an entity is created without a type.
const DefaultEntityType = "entity"
