package catalog

import (
	"sort"
	"strings"

	"ms-storefront/internal/models"
)

// Sort orders accepted by ListEvents.
const (
	SortByDate      = "date"
	SortByPriceLow  = "price-low"
	SortByPriceHigh = "price-high"
	SortByPopular   = "popular"
)

// Filter narrows and orders the catalog listing. Zero values mean "no
// filtering" for that dimension; an empty SortBy falls back to date order.
type Filter struct {
	Search   string
	Category string
	Location string
	SortBy   string
}

func (f Filter) apply(events []models.Event) []models.Event {
	filtered := make([]models.Event, 0, len(events))

	search := strings.ToLower(strings.TrimSpace(f.Search))
	location := strings.ToLower(strings.TrimSpace(f.Location))

	for _, ev := range events {
		if search != "" && !matchesSearch(ev, search) {
			continue
		}
		if f.Category != "" && ev.Category != f.Category {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(ev.Location), location) {
			continue
		}
		filtered = append(filtered, ev)
	}

	sortEvents(filtered, f.SortBy)
	return filtered
}

func matchesSearch(ev models.Event, search string) bool {
	if strings.Contains(strings.ToLower(ev.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(ev.Description), search) {
		return true
	}
	for _, tag := range ev.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

func sortEvents(events []models.Event, sortBy string) {
	switch sortBy {
	case SortByPriceLow:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Prices[models.TierRegular] < events[j].Prices[models.TierRegular]
		})
	case SortByPriceHigh:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Prices[models.TierRegular] > events[j].Prices[models.TierRegular]
		})
	case SortByPopular:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Capacity > events[j].Capacity
		})
	default:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Date < events[j].Date
		})
	}
}
