package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// FileStore persists one JSON document per user under a directory. Writes go
// through a temp-file, fsync, atomic-rename sequence so a crash mid-write
// never leaves a partially written or unreadable record. Unknown fields in
// stored documents are ignored on load, keeping the format forward
// compatible.
//
// Writers for the same user serialize on a per-user mutex; writers for
// different users proceed concurrently.
type FileStore struct {
	dir       string
	retention int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// userDocument is the on-disk layout: the preference record plus the capped
// history sequence, oldest-first.
type userDocument struct {
	Preferences core.PreferenceRecord `json:"preferences"`
	History     []core.HistoryEntry   `json:"history,omitempty"`
}

// NewFileStore creates the directory if needed and returns the store.
func NewFileStore(dir string, optFns ...func(o *Options)) (*FileStore, error) {
	opts := resolveOptions(optFns)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating memory directory: %w", err)
	}
	return &FileStore{dir: dir, retention: opts.Retention, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *FileStore) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *FileStore) path(userID string) string {
	return filepath.Join(s.dir, sanitizeFilename(userID)+".json")
}

// sanitizeFilename keeps user ids filesystem-safe without losing uniqueness
// for the common identifier alphabet.
func sanitizeFilename(userID string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, userID)
}

func (s *FileStore) load(userID string) (userDocument, error) {
	data, err := os.ReadFile(s.path(userID))
	if errors.Is(err, fs.ErrNotExist) {
		return userDocument{Preferences: core.PreferenceRecord{UserID: userID}}, nil
	}
	if err != nil {
		return userDocument{}, fmt.Errorf("reading user record: %w", err)
	}
	var doc userDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return userDocument{}, fmt.Errorf("decoding user record: %w", err)
	}
	if doc.Preferences.UserID == "" {
		doc.Preferences.UserID = userID
	}
	return doc, nil
}

// write persists the document atomically: temp file in the same directory,
// fsync, then rename over the destination.
func (s *FileStore) write(userID string, doc userDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding user record: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, sanitizeFilename(userID)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(userID)); err != nil {
		return fmt.Errorf("replacing user record: %w", err)
	}
	return nil
}

// LoadPreferences implements core.MemoryStore.
func (s *FileStore) LoadPreferences(userID string) (core.PreferenceRecord, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.load(userID)
	if err != nil {
		return core.PreferenceRecord{}, err
	}
	return doc.Preferences.Clone(), nil
}

// SavePreferences implements core.MemoryStore.
func (s *FileStore) SavePreferences(userID string, record core.PreferenceRecord) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.load(userID)
	if err != nil {
		return err
	}
	record.UserID = userID
	doc.Preferences = record.Clone()
	return s.write(userID, doc)
}

// AppendHistory implements core.MemoryStore. The append and the retention
// eviction land in the same atomic file replacement.
func (s *FileStore) AppendHistory(userID string, entry core.HistoryEntry) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.load(userID)
	if err != nil {
		return err
	}
	entry.UserID = userID
	doc.History = capHistory(append(doc.History, entry), s.retention)
	return s.write(userID, doc)
}

// ReadHistory implements core.MemoryStore.
func (s *FileStore) ReadHistory(userID string, limit int) ([]core.HistoryEntry, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return recentFirst(doc.History, limit), nil
}
