package memory

import (
	"sync"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// InMemoryStore is a volatile MemoryStore keeping records in process-local
// maps. It does not survive restarts and is best suited for tests and
// ephemeral demos.
type InMemoryStore struct {
	mu          sync.RWMutex
	preferences map[string]core.PreferenceRecord
	history     map[string][]core.HistoryEntry
	retention   int
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := resolveOptions(optFns)
	return &InMemoryStore{
		preferences: make(map[string]core.PreferenceRecord),
		history:     make(map[string][]core.HistoryEntry),
		retention:   opts.Retention,
	}
}

// LoadPreferences implements core.MemoryStore.
func (s *InMemoryStore) LoadPreferences(userID string) (core.PreferenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.preferences[userID]; ok {
		return record.Clone(), nil
	}
	return core.PreferenceRecord{UserID: userID}, nil
}

// SavePreferences implements core.MemoryStore.
func (s *InMemoryStore) SavePreferences(userID string, record core.PreferenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.UserID = userID
	s.preferences[userID] = record.Clone()
	return nil
}

// AppendHistory implements core.MemoryStore.
func (s *InMemoryStore) AppendHistory(userID string, entry core.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.UserID = userID
	s.history[userID] = capHistory(append(s.history[userID], entry), s.retention)
	return nil
}

// ReadHistory implements core.MemoryStore.
func (s *InMemoryStore) ReadHistory(userID string, limit int) ([]core.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return recentFirst(s.history[userID], limit), nil
}
