// Package orchestrator drives a planning run through its state machine:
// session lookup, the stage pipeline with per-stage tracing, soft and hard
// failure handling, cancellation by session id, and the final persistence of
// learned preferences and run history. It is the single write path into the
// session registry and the memory store during a run.
package orchestrator
