// Package memory provides the durable MemoryStore implementations: a
// file-backed store using an atomic temp-file-and-rename write pattern, a
// SQLite-backed store with transactional history eviction, and a volatile
// in-memory store for tests and demos. All stores serialize writers per
// user, never across users, and enforce the history retention cap atomically
// with each append.
package memory
