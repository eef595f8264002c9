package core

import (
	"encoding/json"
	"time"
)

// DefaultFavoriteCuisineCap bounds the favoriteCuisines sequence of a
// PreferenceRecord unless a store overrides it.
const DefaultFavoriteCuisineCap = 20

// PreferenceRecord is the durable per-user preference snapshot. One record
// exists per user; updates replace the whole record (last writer wins).
type PreferenceRecord struct {
	UserID              string    `json:"user_id"`
	DietaryRestrictions []string  `json:"dietary_restrictions,omitempty"`
	FavoriteCuisines    []string  `json:"favorite_cuisines,omitempty"`
	Budget              *float64  `json:"budget,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// AddRestrictions unions the given restrictions into the record, preserving
// existing order and skipping duplicates.
func (r *PreferenceRecord) AddRestrictions(restrictions ...string) {
	seen := make(map[string]bool, len(r.DietaryRestrictions))
	for _, d := range r.DietaryRestrictions {
		seen[d] = true
	}
	for _, d := range restrictions {
		if d == "" || seen[d] {
			continue
		}
		r.DietaryRestrictions = append(r.DietaryRestrictions, d)
		seen[d] = true
	}
}

// AddCuisines prepends cuisines most-recent-first, deduplicates, and trims
// the sequence to cap entries. A cap <= 0 falls back to the default.
func (r *PreferenceRecord) AddCuisines(cap int, cuisines ...string) {
	if cap <= 0 {
		cap = DefaultFavoriteCuisineCap
	}
	merged := make([]string, 0, len(cuisines)+len(r.FavoriteCuisines))
	seen := make(map[string]bool)
	// Incoming cuisines go to the front, keeping their given order.
	for _, c := range cuisines {
		if c == "" || seen[c] {
			continue
		}
		merged = append(merged, c)
		seen[c] = true
	}
	for _, c := range r.FavoriteCuisines {
		if c == "" || seen[c] {
			continue
		}
		merged = append(merged, c)
		seen[c] = true
	}
	if len(merged) > cap {
		merged = merged[:cap]
	}
	r.FavoriteCuisines = merged
}

// Clone returns an independent copy of the record.
func (r PreferenceRecord) Clone() PreferenceRecord {
	clone := r
	clone.DietaryRestrictions = append([]string(nil), r.DietaryRestrictions...)
	clone.FavoriteCuisines = append([]string(nil), r.FavoriteCuisines...)
	if r.Budget != nil {
		b := *r.Budget
		clone.Budget = &b
	}
	return clone
}

// HistoryKind labels the payload type of a HistoryEntry.
type HistoryKind string

// History entry kinds.
const (
	HistoryKindMealPlan     HistoryKind = "mealPlan"
	HistoryKindShoppingList HistoryKind = "shoppingList"
)

// HistoryEntry is one append-only record of a produced meal plan or shopping
// list. Stores cap the per-user sequence and evict oldest-first.
type HistoryEntry struct {
	UserID    string          `json:"user_id"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      HistoryKind     `json:"kind"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Feedback  string          `json:"feedback,omitempty"`
}
