package core

import (
	"sync"
	"time"
)

// Context keys used to carry preference state inside a session's context map.
const (
	ContextKeyDietaryRestrictions = "dietary_restrictions"
	ContextKeyFavoriteCuisines    = "favorite_cuisines"
	ContextKeyBudget              = "budget"
	ContextKeyLastMealPlan        = "last_meal_plan"
	ContextKeyLastRecipes         = "last_recipes"
	ContextKeyLastShoppingList    = "last_shopping_list"
)

// Session ties a user to in-flight preference state for the duration of an
// interaction. It is safe for concurrent access.
//
// Contract:
//   - Context mutations update LastActive
//   - Value/Snapshot return copies so callers never observe partial writes
//   - Clone performs deep copies of the context map for safe divergence
type Session struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Created    time.Time      `json:"created"`
	LastActive time.Time      `json:"last_active"`
	Context    map[string]any `json:"context"`
	mu         sync.RWMutex
}

// NewSession creates a session for the given user with an optional initial
// context. The initial map is copied, not retained.
func NewSession(id, userID string, initial map[string]any) *Session {
	now := time.Now()
	ctx := make(map[string]any, len(initial))
	for k, v := range initial {
		ctx[k] = v
	}
	return &Session{ID: id, UserID: userID, Created: now, LastActive: now, Context: ctx}
}

// Value returns the context value and existence flag for a key.
func (s *Session) Value(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Context[key]
	return v, ok
}

// SetValue sets a single context key, updating LastActive.
func (s *Session) SetValue(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Context[key] = value
	s.LastActive = time.Now()
}

// MergeContext merges the delta into the context map, last write wins per key.
func (s *Session) MergeContext(delta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range delta {
		s.Context[k] = v
	}
	s.LastActive = time.Now()
}

// Snapshot returns a copy of the full context map.
func (s *Session) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[string]any, len(s.Context))
	for k, v := range s.Context {
		snap[k] = v
	}
	return snap
}

// Touch updates LastActive without mutating the context.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActive = time.Now()
}

// IdleSince reports how long the session has been idle relative to now.
func (s *Session) IdleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.LastActive)
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, UserID: s.UserID, Created: s.Created, LastActive: s.LastActive, Context: make(map[string]any, len(s.Context))}
	for k, v := range s.Context {
		clone.Context[k] = v
	}
	return clone
}

// SessionRegistry manages the lifecycle of active sessions. Implementations
// guarantee at most one live session object per id and serialize concurrent
// access per session. Create seeds the context from the user's persisted
// preferences when initialPreferences is nil.
type SessionRegistry interface {
	Create(userID string, initialPreferences map[string]any) (*Session, error)
	Get(sessionID string) (*Session, error)
	Update(sessionID string, delta map[string]any) (*Session, error)
	End(sessionID string) error
}
