// Package session implements the in-process SessionRegistry: uuid session
// ids, context seeded from the user's persisted preferences, lazy TTL expiry
// on access, and an explicit Sweep for periodic cleanup.
package session
