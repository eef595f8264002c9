package trace

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SpanStatus is the terminal status of a span.
type SpanStatus string

// Span statuses.
const (
	StatusOK        SpanStatus = "ok"
	StatusError     SpanStatus = "error"
	StatusCancelled SpanStatus = "cancelled"
)

// Span is one timed, named unit of work. Spans nest to mirror stage
// containment and are read-only after they are ended.
type Span struct {
	ID         string            `json:"id"`
	ParentID   string            `json:"parent_id,omitempty"`
	Name       string            `json:"name"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end,omitzero"`
	Status     SpanStatus        `json:"status,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`

	ended bool
}

// Duration returns the elapsed time of an ended span, zero otherwise.
func (s *Span) Duration() time.Duration {
	if !s.ended {
		return 0
	}
	return s.End.Sub(s.Start)
}

// Summary aggregates a span tree for metrics consumers.
type Summary struct {
	TotalDurationMs int64            `json:"total_duration_ms"`
	PerStageMs      map[string]int64 `json:"per_stage_ms"`
	FailureCount    int              `json:"failure_count"`
	SpanCount       int              `json:"span_count"`
}

// Tracer records a tree of spans for one orchestration run. It is safe for
// concurrent use; EndSpan is idempotent so spans are closed exactly once even
// when both a failure path and a deferred cleanup call it.
type Tracer struct {
	mu    sync.Mutex
	spans []*Span
	open  int
}

// New creates an empty tracer.
func New() *Tracer {
	return &Tracer{}
}

// StartSpan opens a span under the given parent (nil for the root).
func (t *Tracer) StartSpan(name string, parent *Span) *Span {
	span := &Span{ID: uuid.NewString(), Name: name, Start: time.Now(), Attributes: map[string]string{}}
	if parent != nil {
		span.ParentID = parent.ID
	}
	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.open++
	t.mu.Unlock()
	return span
}

// EndSpan closes the span with a status and optional attributes. Calling it
// again on an ended span is a no-op.
func (t *Tracer) EndSpan(span *Span, status SpanStatus, attrs map[string]string) {
	if span == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if span.ended {
		return
	}
	span.End = time.Now()
	span.Status = status
	for k, v := range attrs {
		span.Attributes[k] = v
	}
	span.ended = true
	t.open--
}

// OpenSpans returns the number of spans started but not yet ended.
func (t *Tracer) OpenSpans() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open
}

// Spans returns a snapshot of all recorded spans in start order.
func (t *Tracer) Spans() []*Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Span, len(t.spans))
	copy(out, t.spans)
	return out
}

// Summarize aggregates the tree rooted at the given span: total duration,
// per-child durations keyed by span name, and the count of spans that ended
// with an error or cancelled status anywhere in the tree.
func (t *Tracer) Summarize(root *Span) Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := Summary{PerStageMs: map[string]int64{}}
	if root == nil {
		return summary
	}
	summary.TotalDurationMs = root.Duration().Milliseconds()

	members := map[string]bool{root.ID: true}
	// Spans are appended in start order, so parents precede children and a
	// single pass collects the whole subtree.
	for _, s := range t.spans {
		if s.ID != root.ID && !members[s.ParentID] {
			continue
		}
		members[s.ID] = true
		summary.SpanCount++
		if s.Status != StatusOK {
			summary.FailureCount++
		}
		if s.ParentID == root.ID {
			summary.PerStageMs[s.Name] = s.Duration().Milliseconds()
		}
	}
	return summary
}
