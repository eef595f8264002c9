package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// DefaultTTL is the idle lifetime of a session before it expires.
const DefaultTTL = 60 * time.Minute

// Options configure the registry.
type Options struct {
	// TTL is the maximum idle time before a session expires. Zero or
	// negative falls back to DefaultTTL.
	TTL time.Duration

	// Now overrides the clock, used by tests.
	Now func() time.Time
}

// Registry is an in-process SessionRegistry. Sessions expire lazily: an
// expired session is removed on the next access and reported as not found.
// Sweep removes expired sessions eagerly for callers running periodic
// cleanup.
type Registry struct {
	memory core.MemoryStore
	opts   Options

	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// New creates a registry seeding new sessions from the given memory store.
func New(memory core.MemoryStore, optFns ...func(o *Options)) *Registry {
	opts := Options{TTL: DefaultTTL, Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{memory: memory, opts: opts, sessions: make(map[string]*core.Session)}
}

// Create implements core.SessionRegistry. When initialPreferences is nil the
// context is seeded from the user's persisted preference record; an explicit
// map, even an empty one, is used as-is.
func (r *Registry) Create(userID string, initialPreferences map[string]any) (*core.Session, error) {
	initial := initialPreferences
	if initial == nil {
		record, err := r.memory.LoadPreferences(userID)
		if err != nil {
			return nil, fmt.Errorf("seeding session for %s: %w", userID, err)
		}
		initial = make(map[string]any)
		if len(record.DietaryRestrictions) > 0 {
			initial[core.ContextKeyDietaryRestrictions] = record.DietaryRestrictions
		}
		if len(record.FavoriteCuisines) > 0 {
			initial[core.ContextKeyFavoriteCuisines] = record.FavoriteCuisines
		}
		if record.Budget != nil {
			initial[core.ContextKeyBudget] = *record.Budget
		}
	}

	sess := core.NewSession(uuid.NewString(), userID, initial)
	now := r.opts.Now()
	sess.Created = now
	sess.LastActive = now

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	return sess.Clone(), nil
}

// Get implements core.SessionRegistry. Expired sessions are evicted and
// reported as core.ErrSessionNotFound.
func (r *Registry) Get(sessionID string) (*core.Session, error) {
	sess, err := r.live(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Touch()
	return sess.Clone(), nil
}

// Update implements core.SessionRegistry, merging the delta into the session
// context with last-write-wins per key.
func (r *Registry) Update(sessionID string, delta map[string]any) (*core.Session, error) {
	sess, err := r.live(sessionID)
	if err != nil {
		return nil, err
	}
	sess.MergeContext(delta)
	return sess.Clone(), nil
}

// End implements core.SessionRegistry. Ending an unknown or expired session
// returns core.ErrSessionNotFound.
func (r *Registry) End(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return core.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

// Sweep removes every expired session and returns how many were evicted.
func (r *Registry) Sweep() int {
	now := r.opts.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, sess := range r.sessions {
		if sess.IdleSince(now) > r.opts.TTL {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// ForUser returns clones of the user's live sessions, in no particular order.
func (r *Registry) ForUser(userID string) []*core.Session {
	now := r.opts.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*core.Session
	for _, sess := range r.sessions {
		if sess.UserID == userID && sess.IdleSince(now) <= r.opts.TTL {
			out = append(out, sess.Clone())
		}
	}
	return out
}

// Len reports the number of live (not yet swept) sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// live returns the stored session if present and unexpired, evicting it
// otherwise.
func (r *Registry) live(sessionID string) (*core.Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, core.ErrSessionNotFound
	}

	if sess.IdleSince(r.opts.Now()) > r.opts.TTL {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		return nil, core.ErrSessionNotFound
	}
	return sess, nil
}
