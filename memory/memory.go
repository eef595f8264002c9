package memory

import (
	"sort"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// Options configure store construction.
type Options struct {
	// Retention caps the history entries kept per user. Defaults to
	// core.DefaultHistoryRetention.
	Retention int
}

func resolveOptions(optFns []func(o *Options)) Options {
	opts := Options{Retention: core.DefaultHistoryRetention}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Retention <= 0 {
		opts.Retention = core.DefaultHistoryRetention
	}
	return opts
}

// capHistory sorts entries oldest-first by timestamp and evicts from the
// front until the retention cap holds. Ties keep insertion order.
func capHistory(entries []core.HistoryEntry, retention int) []core.HistoryEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	if len(entries) > retention {
		entries = entries[len(entries)-retention:]
	}
	return entries
}

// recentFirst returns up to limit entries most-recent-first from an
// oldest-first slice. limit <= 0 returns all.
func recentFirst(entries []core.HistoryEntry, limit int) []core.HistoryEntry {
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	out := make([]core.HistoryEntry, 0, limit)
	for i := len(entries) - 1; i >= len(entries)-limit; i-- {
		out = append(out, entries[i])
	}
	return out
}
