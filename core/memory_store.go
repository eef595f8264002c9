package core

// DefaultHistoryRetention is the per-user history cap applied by stores
// unless configured otherwise.
const DefaultHistoryRetention = 50

// MemoryStore persists per-user long-term preferences and history. It has no
// knowledge of sessions or stages.
//
// Implementations must:
//   - survive process restart (except explicitly volatile test stores)
//   - make SavePreferences and AppendHistory individually atomic
//   - serialize writers for the same user without blocking other users
//   - enforce the history retention cap atomically with each append,
//     evicting oldest entries first
type MemoryStore interface {
	// LoadPreferences returns the stored record or a default-empty record
	// for unknown users (never an error for absence).
	LoadPreferences(userID string) (PreferenceRecord, error)

	// SavePreferences replaces the user's record wholesale. Merging is the
	// caller's responsibility.
	SavePreferences(userID string, record PreferenceRecord) error

	// AppendHistory appends an entry, evicting the oldest entries beyond
	// the retention cap in the same atomic operation.
	AppendHistory(userID string, entry HistoryEntry) error

	// ReadHistory returns entries most-recent-first. limit <= 0 returns all
	// retained entries.
	ReadHistory(userID string, limit int) ([]HistoryEntry, error)
}
