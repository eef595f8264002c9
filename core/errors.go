package core

import "errors"

// Sentinel errors surfaced by the session and memory layers.
var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	// It is surfaced to the caller and never retried.
	ErrSessionNotFound = errors.New("session not found")

	// ErrRetentionViolation signals an internal bug: a history write that
	// would exceed the retention cap without eviction. It must never be
	// user-visible.
	ErrRetentionViolation = errors.New("history retention invariant violated")
)
