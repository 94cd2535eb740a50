// Package model defines the core persisted data types and error kinds.
package model

import "time"

// MemoryRecord is a stored key/value memory entry.
type MemoryRecord struct {
	Key          string     `json:"key"`
	Value        string     `json:"value"`
	Tags         []string   `json:"tags,omitempty"`
	Category     string     `json:"category,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	AccessedAt   *time.Time `json:"accessed_at,omitempty"`
	AccessCount  int        `json:"access_count"`
	TTLExpiresAt *time.Time `json:"ttl_expires_at,omitempty"`
}

// Expired reports whether the record's TTL has elapsed at the given time.
func (m *MemoryRecord) Expired(now time.Time) bool {
	return m.TTLExpiresAt != nil && m.TTLExpiresAt.Before(now)
}

// HasAnyTag reports whether the record carries at least one of the given tags.
func (m *MemoryRecord) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range m.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}
