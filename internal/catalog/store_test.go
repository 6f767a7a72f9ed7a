package catalog

import (
	"strings"
	"testing"
)

func TestNewStoreLoadsEmbeddedCatalog(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("Failed to load embedded catalog: %v", err)
	}

	if store.Len() == 0 {
		t.Error("Expected embedded catalog to contain events")
	}

	for _, ev := range store.ListEvents(Filter{}) {
		if ev.ID == "" {
			t.Error("Expected every event to have an id")
		}
		if len(ev.Prices) == 0 {
			t.Errorf("Event %s has no price tiers", ev.ID)
		}
	}
}

func TestNewStoreFromJSONRejectsUnknownTier(t *testing.T) {
	data := []byte(`[{
		"id": "bad-tier",
		"title": "Bad Tier",
		"capacity": 100,
		"prices": {"platinum": 5000}
	}]`)

	_, err := NewStoreFromJSON(data)
	if err == nil {
		t.Fatal("Expected error for unknown price tier, got nil")
	}
	if !strings.Contains(err.Error(), "platinum") {
		t.Errorf("Expected error to name the offending tier, got %v", err)
	}
}

func TestNewStoreFromJSONRejectsDuplicateID(t *testing.T) {
	data := []byte(`[
		{"id": "dup", "title": "One", "capacity": 10, "prices": {"regular": 100}},
		{"id": "dup", "title": "Two", "capacity": 20, "prices": {"regular": 200}}
	]`)

	_, err := NewStoreFromJSON(data)
	if err == nil {
		t.Fatal("Expected error for duplicate event id, got nil")
	}
}

func TestNewStoreFromJSONRejectsNonPositiveCapacity(t *testing.T) {
	data := []byte(`[{"id": "empty", "title": "Empty", "capacity": 0, "prices": {"regular": 100}}]`)

	_, err := NewStoreFromJSON(data)
	if err == nil {
		t.Fatal("Expected error for zero capacity, got nil")
	}
}

func TestGetEvent(t *testing.T) {
	data := []byte(`[{"id": "gig-1", "title": "Gig", "capacity": 50, "prices": {"regular": 1500, "vip": 3000}}]`)

	store, err := NewStoreFromJSON(data)
	if err != nil {
		t.Fatalf("Failed to build store: %v", err)
	}

	ev, err := store.GetEvent("gig-1")
	if err != nil {
		t.Fatalf("Expected to find gig-1, got %v", err)
	}
	if ev.Title != "Gig" {
		t.Errorf("Expected title Gig, got %s", ev.Title)
	}

	if _, err := store.GetEvent("missing"); err == nil {
		t.Error("Expected error for unknown event id, got nil")
	}
}

func TestFeatured(t *testing.T) {
	data := []byte(`[
		{"id": "a", "title": "A", "capacity": 10, "prices": {"regular": 100}, "featured": true},
		{"id": "b", "title": "B", "capacity": 10, "prices": {"regular": 100}},
		{"id": "c", "title": "C", "capacity": 10, "prices": {"regular": 100}, "featured": true}
	]`)

	store, err := NewStoreFromJSON(data)
	if err != nil {
		t.Fatalf("Failed to build store: %v", err)
	}

	featured := store.Featured()
	if len(featured) != 2 {
		t.Fatalf("Expected 2 featured events, got %d", len(featured))
	}
	for _, ev := range featured {
		if !ev.Featured {
			t.Errorf("Event %s is not flagged as featured", ev.ID)
		}
	}
}
