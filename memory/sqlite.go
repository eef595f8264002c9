package memory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	user_id    TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS history (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id  TEXT NOT NULL,
	ts       TEXT NOT NULL,
	kind     TEXT NOT NULL,
	payload  TEXT NOT NULL,
	feedback TEXT
);
CREATE INDEX IF NOT EXISTS idx_history_user_ts ON history (user_id, ts);
`

// SQLiteStore is a MemoryStore backed by a SQLite database. Preference
// records are stored as JSON documents keyed by user id; history rows carry
// the entry fields directly so retention eviction can run in SQL. The append
// and the eviction share one transaction.
type SQLiteStore struct {
	db        *sql.DB
	retention int
}

// OpenSQLite opens (or creates) the database in dataDir and prepares the
// schema. Pass ":memory:" as dataDir for an in-memory database.
func OpenSQLite(dataDir string, optFns ...func(o *Options)) (*SQLiteStore, error) {
	opts := resolveOptions(optFns)

	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "memory.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing schema: %w", err)
	}

	return &SQLiteStore{db: db, retention: opts.Retention}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadPreferences implements core.MemoryStore.
func (s *SQLiteStore) LoadPreferences(userID string) (core.PreferenceRecord, error) {
	var raw string
	err := s.db.QueryRow("SELECT record FROM preferences WHERE user_id = ?", userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return core.PreferenceRecord{UserID: userID}, nil
	}
	if err != nil {
		return core.PreferenceRecord{}, fmt.Errorf("loading preferences: %w", err)
	}

	var record core.PreferenceRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return core.PreferenceRecord{}, fmt.Errorf("decoding preferences: %w", err)
	}
	record.UserID = userID
	return record, nil
}

// SavePreferences implements core.MemoryStore.
func (s *SQLiteStore) SavePreferences(userID string, record core.PreferenceRecord) error {
	record.UserID = userID
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO preferences (user_id, record, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		userID, string(raw), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

// AppendHistory implements core.MemoryStore.
func (s *SQLiteStore) AppendHistory(userID string, entry core.HistoryEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning append transaction: %w", err)
	}
	defer tx.Rollback()

	payload := string(entry.Payload)
	if payload == "" {
		payload = "null"
	}
	if _, err := tx.Exec(`
		INSERT INTO history (user_id, ts, kind, payload, feedback)
		VALUES (?, ?, ?, ?, ?)`,
		userID, entry.Timestamp.UTC().Format(time.RFC3339Nano), string(entry.Kind), payload, entry.Feedback,
	); err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}

	// Evict oldest rows beyond the retention cap in the same transaction.
	if _, err := tx.Exec(`
		DELETE FROM history WHERE user_id = ? AND id NOT IN (
			SELECT id FROM history WHERE user_id = ? ORDER BY ts DESC, id DESC LIMIT ?
		)`,
		userID, userID, s.retention,
	); err != nil {
		return fmt.Errorf("evicting history entries: %w", err)
	}

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM history WHERE user_id = ?", userID).Scan(&count); err != nil {
		return fmt.Errorf("counting history entries: %w", err)
	}
	if count > s.retention {
		return core.ErrRetentionViolation
	}

	return tx.Commit()
}

// ReadHistory implements core.MemoryStore.
func (s *SQLiteStore) ReadHistory(userID string, limit int) ([]core.HistoryEntry, error) {
	query := "SELECT ts, kind, payload, feedback FROM history WHERE user_id = ? ORDER BY ts DESC, id DESC"
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var entries []core.HistoryEntry
	for rows.Next() {
		var entry core.HistoryEntry
		var ts, payload string
		var feedback sql.NullString
		if err := rows.Scan(&ts, &entry.Kind, &payload, &feedback); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing history timestamp: %w", err)
		}
		entry.UserID = userID
		entry.Timestamp = t
		entry.Payload = json.RawMessage(payload)
		entry.Feedback = feedback.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
