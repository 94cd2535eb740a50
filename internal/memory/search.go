package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/rcliao/agent-graph/internal/model"
)

// SearchParams holds parameters for searching memory records.
type SearchParams struct {
	Query    string
	Category string
	Limit    int
}

// Search finds records whose key or value contains the query,
// case-insensitively. Unlike Load, search is a read-only scan: expired
// records are excluded but left in place. Results are ranked by access
// count, most-recently-updated first among ties.
func (s *Store) Search(ctx context.Context, p SearchParams) ([]model.MemoryRecord, error) {
	records, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	query := strings.ToLower(p.Query)

	now := s.now()
	var matches []model.MemoryRecord
	for _, rec := range records {
		if rec.Expired(now) {
			continue
		}
		if p.Category != "" && rec.Category != p.Category {
			continue
		}
		if !strings.Contains(strings.ToLower(rec.Key), query) &&
			!strings.Contains(strings.ToLower(rec.Value), query) {
			continue
		}
		matches = append(matches, rec)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].AccessCount != matches[j].AccessCount {
			return matches[i].AccessCount > matches[j].AccessCount
		}
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
