package models

import "fmt"

// TierName identifies a ticket class. The set is closed: catalog data may
// price any subset of these, but no other key is ever accepted.
type TierName string

const (
	TierRegular TierName = "regular"
	TierVIP     TierName = "vip"
	TierVVIP    TierName = "vvip"
)

// KnownTier reports whether t is one of the three supported tiers.
func KnownTier(t TierName) bool {
	switch t {
	case TierRegular, TierVIP, TierVVIP:
		return true
	}
	return false
}

// PriceTiers maps a tier to its price. Keys are validated against the closed
// tier set when the catalog is loaded.
type PriceTiers map[TierName]float64

// Event is a catalog record. It is loaded once at startup from static data
// and never mutated afterwards.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Date        string     `json:"date"` // 2006-01-02
	Time        string     `json:"time"` // 15:04
	Venue       string     `json:"venue"`
	Location    string     `json:"location"`
	Capacity    int        `json:"capacity"`
	Prices      PriceTiers `json:"prices"`
	Tags        []string   `json:"tags"`
	Featured    bool       `json:"featured"`
	HasSeating  bool       `json:"hasSeating"`
}

// TierPrice returns the price for the given tier, rejecting tiers outside the
// closed set as well as tiers this event does not sell.
func (e *Event) TierPrice(tier TierName) (float64, error) {
	if !KnownTier(tier) {
		return 0, fmt.Errorf("unknown ticket tier %q", tier)
	}
	price, ok := e.Prices[tier]
	if !ok {
		return 0, fmt.Errorf("event %s does not sell %q tickets", e.ID, tier)
	}
	return price, nil
}
