// Package trace provides a lightweight hierarchical span recorder. Each
// orchestration run owns one Tracer; every stage and port call opens a span
// that is guaranteed to be closed on all exit paths, including failure and
// cancellation. Summarize folds a finished span tree into per-stage timing
// and failure counts for metrics consumers.
package trace
