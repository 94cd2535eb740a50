package memory

import (
	"context"
	"sort"

	"github.com/rcliao/agent-graph/internal/model"
)

// Stats holds memory store statistics.
type Stats struct {
	Total       int                  `json:"total"`
	ByCategory  map[string]int       `json:"by_category"`
	TopAccessed []model.MemoryRecord `json:"top_accessed"`
}

// Uncategorized is the bucket for records without a category.
const Uncategorized = "uncategorized"

// Stats returns record counts per category and the ten most accessed
// records.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	records, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{Total: len(records), ByCategory: map[string]int{}}
	for _, rec := range records {
		cat := rec.Category
		if cat == "" {
			cat = Uncategorized
		}
		st.ByCategory[cat]++
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].AccessCount > records[j].AccessCount
	})
	if len(records) > 10 {
		records = records[:10]
	}
	st.TopAccessed = records

	return st, nil
}
