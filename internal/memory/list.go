package memory

import (
	"context"
	"sort"

	"github.com/rcliao/agent-graph/internal/backend"
	"github.com/rcliao/agent-graph/internal/model"
)

// ListParams holds parameters for listing memory records.
type ListParams struct {
	Category  string
	Tags      []string // OR semantics: any one tag matches
	Limit     int
	Offset    int
	SortBy    string // created_at | updated_at | accessed_at | access_count | key
	SortOrder string // asc | desc
}

// List returns matching records plus the total match count before
// pagination, so callers can paginate correctly. TTL-expired records
// encountered during the scan are purged, the same lazy expiry Load
// applies.
func (s *Store) List(ctx context.Context, p ListParams) ([]model.MemoryRecord, int, error) {
	records, err := s.scan(ctx)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	var matches []model.MemoryRecord
	for _, rec := range records {
		if rec.Expired(now) {
			if err := s.b.Delete(ctx, backend.ColMemory, rec.Key); err != nil {
				return nil, 0, err
			}
			continue
		}
		if p.Category != "" && rec.Category != p.Category {
			continue
		}
		if len(p.Tags) > 0 && !rec.HasAnyTag(p.Tags) {
			continue
		}
		matches = append(matches, rec)
	}

	sortRecords(matches, p.SortBy, p.SortOrder)

	total := len(matches)
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func sortRecords(records []model.MemoryRecord, sortBy, order string) {
	desc := order != "asc" // default descending
	less := func(i, j int) bool {
		a, b := &records[i], &records[j]
		switch sortBy {
		case "key":
			return a.Key < b.Key
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "accessed_at":
			at, bt := a.AccessedAt, b.AccessedAt
			if at == nil || bt == nil {
				return bt != nil
			}
			return at.Before(*bt)
		case "access_count":
			return a.AccessCount < b.AccessCount
		default: // created_at
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	if desc {
		sort.SliceStable(records, func(i, j int) bool { return less(j, i) })
	} else {
		sort.SliceStable(records, less)
	}
}
