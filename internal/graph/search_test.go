package graph

import (
	"context"
	"testing"
)

func seedGraph(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	res, err := e.CreateEntities(ctx, []EntitySpec{
		{Name: "Batumi", Type: "city", Observations: []string{"famous sunset over the sea"}},
		{Name: "Tbilisi", Type: "city"},
		{Name: "Kazbegi", Type: "mountain"},
	})
	if err != nil || len(res.Errors) != 0 {
		t.Fatalf("seed: %v %v", err, res.Errors)
	}
	rres, err := e.CreateRelations(ctx, []RelationSpec{
		{From: "Batumi", To: "Tbilisi", Type: "near"},
		{From: "Kazbegi", To: "Tbilisi", Type: "north_of"},
	})
	if err != nil || len(rres.Errors) != 0 {
		t.Fatalf("seed relations: %v %v", err, rres.Errors)
	}
}

func TestSearchNodesByName(t *testing.T) {
	e := newTestEngine(t)
	seedGraph(t, e)

	matches, err := e.SearchNodes(context.Background(), SearchParams{Query: "batu"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Batumi" {
		t.Fatalf("unexpected matches: %v", matches)
	}
	if matches[0].MatchReason != MatchName {
		t.Errorf("expected name match, got %q", matches[0].MatchReason)
	}
}

func TestSearchNodesByObservation(t *testing.T) {
	e := newTestEngine(t)
	seedGraph(t, e)

	// "sunset" appears only inside one of Batumi's observations.
	matches, _ := e.SearchNodes(context.Background(), SearchParams{Query: "sunset"})
	if len(matches) != 1 || matches[0].Name != "Batumi" {
		t.Fatalf("unexpected matches: %v", matches)
	}
	if matches[0].MatchReason != MatchObservation {
		t.Errorf("expected observation match, got %q", matches[0].MatchReason)
	}
}

func TestSearchNodesByType(t *testing.T) {
	e := newTestEngine(t)
	seedGraph(t, e)

	matches, _ := e.SearchNodes(context.Background(), SearchParams{Query: "mountain"})
	if len(matches) != 1 || matches[0].MatchReason != MatchType {
		t.Fatalf("expected one type match, got %v", matches)
	}
}

func TestSearchNodesTypeFilter(t *testing.T) {
	e := newTestEngine(t)
	seedGraph(t, e)

	// The type filter is ANDed with the query.
	matches, _ := e.SearchNodes(context.Background(), SearchParams{Query: "i", EntityType: "city"})
	for _, m := range matches {
		if m.Type != "city" {
			t.Errorf("type filter leaked: %v", m)
		}
	}
}

func TestReadGraph(t *testing.T) {
	e := newTestEngine(t)
	seedGraph(t, e)
	ctx := context.Background()

	snap, err := e.ReadGraph(ctx, ReadParams{IncludeRelations: true})
	if err != nil {
		t.Fatalf("read graph: %v", err)
	}
	if snap.EntityCount != 3 || snap.RelationCount != 2 {
		t.Errorf("unexpected counts: %+v", snap)
	}

	// Type filter keeps relations touching the returned entities.
	snap, _ = e.ReadGraph(ctx, ReadParams{IncludeRelations: true, EntityType: "mountain"})
	if snap.EntityCount != 1 {
		t.Fatalf("expected 1 mountain, got %d", snap.EntityCount)
	}
	if snap.RelationCount != 1 || snap.Relations[0].From != "Kazbegi" {
		t.Errorf("expected the Kazbegi relation, got %v", snap.Relations)
	}

	// Limit is a hard cap.
	snap, _ = e.ReadGraph(ctx, ReadParams{Limit: 2})
	if snap.EntityCount != 2 {
		t.Errorf("expected limit to cap entities, got %d", snap.EntityCount)
	}
	if snap.Relations != nil {
		t.Errorf("expected no relations without the flag, got %v", snap.Relations)
	}
}

func TestGraphStats(t *testing.T) {
	e := newTestEngine(t)
	seedGraph(t, e)

	st, err := e.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalEntities != 3 || st.TotalRelations != 2 || st.TotalObservations != 1 {
		t.Errorf("unexpected totals: %+v", st)
	}
	if st.EntityTypes["city"] != 2 || st.EntityTypes["mountain"] != 1 {
		t.Errorf("unexpected entity types: %v", st.EntityTypes)
	}
	if st.RelationTypes["near"] != 1 || st.RelationTypes["north_of"] != 1 {
		t.Errorf("unexpected relation types: %v", st.RelationTypes)
	}
}
