package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"ms-storefront/internal/models"
)

//go:embed data/events.json
var defaultEvents []byte

// Store holds the read-only event catalog. Events are loaded once at startup
// and never mutated, so reads need no synchronization.
type Store struct {
	events []models.Event
	byID   map[string]*models.Event
}

// NewStore builds a Store from the embedded catalog data.
func NewStore() (*Store, error) {
	return NewStoreFromJSON(defaultEvents)
}

// NewStoreFromJSON builds a Store from raw catalog JSON, validating that
// every price tier key belongs to the closed tier set.
func NewStoreFromJSON(data []byte) (*Store, error) {
	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to parse catalog data: %w", err)
	}

	byID := make(map[string]*models.Event, len(events))
	for i := range events {
		ev := &events[i]
		if ev.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if _, dup := byID[ev.ID]; dup {
			return nil, fmt.Errorf("duplicate event id %q in catalog", ev.ID)
		}
		if ev.Capacity <= 0 {
			return nil, fmt.Errorf("event %s has non-positive capacity", ev.ID)
		}
		if len(ev.Prices) == 0 {
			return nil, fmt.Errorf("event %s has no price tiers", ev.ID)
		}
		for tier, price := range ev.Prices {
			if !models.KnownTier(tier) {
				return nil, fmt.Errorf("event %s has unknown price tier %q", ev.ID, tier)
			}
			if price < 0 {
				return nil, fmt.Errorf("event %s has negative price for tier %q", ev.ID, tier)
			}
		}
		byID[ev.ID] = ev
	}

	return &Store{events: events, byID: byID}, nil
}

// GetEvent returns one event by id.
func (s *Store) GetEvent(id string) (*models.Event, error) {
	ev, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("event %s not found", id)
	}
	return ev, nil
}

// ListEvents returns events matching the filter, sorted per filter.SortBy.
func (s *Store) ListEvents(filter Filter) []models.Event {
	return filter.apply(s.events)
}

// Featured returns the events flagged for the landing page.
func (s *Store) Featured() []models.Event {
	var featured []models.Event
	for _, ev := range s.events {
		if ev.Featured {
			featured = append(featured, ev)
		}
	}
	return featured
}

// Len returns the catalog size.
func (s *Store) Len() int {
	return len(s.events)
}
