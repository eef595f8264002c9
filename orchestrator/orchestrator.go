package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/logging"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/memory"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/session"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/stage"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/trace"
)

// Sentinel errors returned by orchestrator operations.
var (
	// ErrRunActive is returned when a session already has a run in flight.
	ErrRunActive = errors.New("run already active for session")
	// ErrNoTextCompletion is returned by New when no text port is wired.
	ErrNoTextCompletion = errors.New("text completion port is required")
)

// MaxPlanDays bounds the requested plan length.
const MaxPlanDays = 14

// Ports bundles the capability implementations a run calls out to. Text is
// required; nil Catalog, Optimize or Nutrition fall back to the local static
// implementations.
type Ports struct {
	Text      capability.TextCompletion
	Catalog   capability.CatalogSearch
	Optimize  capability.ListOptimize
	Nutrition capability.NutritionAnalyzer
}

// Options configure orchestrator construction.
type Options struct {
	// Memory is the durable preference and history store. Defaults to the
	// volatile in-memory store.
	Memory core.MemoryStore
	// Sessions is the session registry. Defaults to an in-process registry
	// seeded from Memory.
	Sessions core.SessionRegistry
	// Logger receives structured run logs. Defaults to a no-op logger.
	Logger logging.Logger
	// RetryPolicy governs port call retries inside every stage.
	RetryPolicy capability.RetryPolicy
	// CuisineCap bounds the favorite-cuisine sequence learned per user.
	CuisineCap int
	// SearchConcurrency bounds parallel catalog searches.
	SearchConcurrency int
}

// Orchestrator coordinates planning runs. It is safe for concurrent use; at
// most one run is in flight per session.
type Orchestrator struct {
	ports    Ports
	memory   core.MemoryStore
	sessions core.SessionRegistry
	logger   logging.Logger
	policy   capability.RetryPolicy

	cuisineCap  int
	concurrency int

	mu         sync.Mutex
	activeRuns map[string]context.CancelFunc

	userMu    sync.Mutex
	userLocks map[string]*sync.Mutex
}

// New wires an orchestrator from the given ports. Unset options fall back to
// local defaults so a zero-configuration orchestrator works offline.
func New(ports Ports, optFns ...func(o *Options)) (*Orchestrator, error) {
	if ports.Text == nil {
		return nil, ErrNoTextCompletion
	}
	if ports.Catalog == nil {
		ports.Catalog = capability.NewStaticCatalog()
	}
	if ports.Optimize == nil {
		ports.Optimize = capability.NewSectionOptimizer()
	}
	if ports.Nutrition == nil {
		ports.Nutrition = capability.NewStaticNutrition()
	}

	opts := Options{
		RetryPolicy:       capability.DefaultRetryPolicy(),
		CuisineCap:        core.DefaultFavoriteCuisineCap,
		SearchConcurrency: stage.DefaultSearchConcurrency,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Memory == nil {
		opts.Memory = memory.NewInMemoryStore()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.New(opts.Memory)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Orchestrator{
		ports:       ports,
		memory:      opts.Memory,
		sessions:    opts.Sessions,
		logger:      opts.Logger,
		policy:      opts.RetryPolicy,
		cuisineCap:  opts.CuisineCap,
		concurrency: opts.SearchConcurrency,
		activeRuns:  make(map[string]context.CancelFunc),
		userLocks:   make(map[string]*sync.Mutex),
	}, nil
}

// userLock returns the mutex serializing preference read-modify-write cycles
// for one user. The store serializes individual loads and saves but leaves
// merging to the caller, so without this lock concurrent merges would
// overwrite each other.
func (o *Orchestrator) userLock(userID string) *sync.Mutex {
	o.userMu.Lock()
	defer o.userMu.Unlock()
	lock, ok := o.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		o.userLocks[userID] = lock
	}
	return lock
}

// CreateSession opens a session for the user. A nil initial map seeds the
// session context from the user's persisted preferences.
func (o *Orchestrator) CreateSession(userID string, initial map[string]any) (*core.Session, error) {
	return o.sessions.Create(userID, initial)
}

// Session returns a snapshot of the session, or core.ErrSessionNotFound.
func (o *Orchestrator) Session(sessionID string) (*core.Session, error) {
	return o.sessions.Get(sessionID)
}

// EndSession removes the session from the registry.
func (o *Orchestrator) EndSession(sessionID string) error {
	return o.sessions.End(sessionID)
}

// Cancel aborts the in-flight run for the session, if any, and reports
// whether one was found. The aborted run persists nothing.
func (o *Orchestrator) Cancel(sessionID string) bool {
	o.mu.Lock()
	cancel, ok := o.activeRuns[sessionID]
	o.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// UpdatePreferences merges the given preference fields into the durable
// record of the session's user and reflects the result into the live session
// context: restrictions union, cuisines most-recent-first under the cap,
// budget last-write-wins when non-nil. Returns core.ErrSessionNotFound for
// an unknown session.
func (o *Orchestrator) UpdatePreferences(sessionID string, restrictions, cuisines []string, budget *float64) error {
	sess, err := o.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	record, err := o.mergePreferences(sess.UserID, restrictions, cuisines, budget)
	if err != nil {
		return err
	}

	delta := map[string]any{}
	if len(record.DietaryRestrictions) > 0 {
		delta[core.ContextKeyDietaryRestrictions] = record.DietaryRestrictions
	}
	if len(record.FavoriteCuisines) > 0 {
		delta[core.ContextKeyFavoriteCuisines] = record.FavoriteCuisines
	}
	if record.Budget != nil {
		delta[core.ContextKeyBudget] = *record.Budget
	}
	if len(delta) == 0 {
		return nil
	}
	_, err = o.sessions.Update(sessionID, delta)
	return err
}

// mergePreferences performs one locked load-merge-save cycle for the user.
// The user lock covers the whole cycle so concurrent merges cannot drop each
// other's writes.
func (o *Orchestrator) mergePreferences(userID string, restrictions, cuisines []string, budget *float64) (core.PreferenceRecord, error) {
	lock := o.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	record, err := o.memory.LoadPreferences(userID)
	if err != nil {
		return core.PreferenceRecord{}, fmt.Errorf("loading preferences: %w", err)
	}
	record.AddRestrictions(restrictions...)
	record.AddCuisines(o.cuisineCap, cuisines...)
	if budget != nil {
		b := *budget
		record.Budget = &b
	}
	record.UpdatedAt = time.Now().UTC()
	if err := o.memory.SavePreferences(userID, record); err != nil {
		return core.PreferenceRecord{}, err
	}
	return record, nil
}

// History returns the user's most recent history entries, newest first.
func (o *Orchestrator) History(userID string, limit int) ([]core.HistoryEntry, error) {
	return o.memory.ReadHistory(userID, limit)
}

// RecordShoppingList appends a shopping list the user acted on to their
// history, with optional feedback text.
func (o *Orchestrator) RecordShoppingList(userID string, list *core.ShoppingList, feedback string) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding shopping list: %w", err)
	}
	return o.memory.AppendHistory(userID, core.HistoryEntry{
		Timestamp: time.Now().UTC(),
		Kind:      core.HistoryKindShoppingList,
		Payload:   payload,
		Feedback:  feedback,
	})
}

// PlanMeals executes one planning run for the session. The returned response
// always carries the terminal state, per-stage results and the trace summary;
// a Failed state is reported in the response, not as an error. The error
// return is reserved for unknown sessions, concurrent runs and cancellation.
// On cancellation the partially built response accompanies the context error
// and nothing is persisted.
func (o *Orchestrator) PlanMeals(ctx context.Context, sessionID string, req core.PlanRequest) (*core.PlanResponse, error) {
	sess, err := o.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	req = normalizeRequest(req)

	runCtx, cancel, err := o.registerRun(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer o.releaseRun(sessionID, cancel)

	runID := uuid.NewString()
	logger := o.logger
	logger.Info("planning run started session_id=%s run_id=%s user_id=%s days=%d", sessionID, runID, sess.UserID, req.Days)

	tracer := trace.New()
	root := tracer.StartSpan("plan_meals", nil)
	// Idempotent close guards the root span on every exit path.
	defer tracer.EndSpan(root, trace.StatusError, nil)

	run := &runExecution{
		orch:    o,
		req:     req,
		tracer:  tracer,
		root:    root,
		logger:  logger,
		context: sess.Snapshot(),
		deltas:  map[string]any{},
	}
	run.execute(runCtx)

	response := run.buildResponse(sessionID)

	if runCtx.Err() != nil {
		tracer.EndSpan(root, trace.StatusCancelled, nil)
		response.Trace = tracer.Summarize(root)
		logger.Warn("planning run cancelled session_id=%s run_id=%s", sessionID, runID)
		return response, runCtx.Err()
	}

	if !response.State.Terminal() {
		response.State = core.RunStateFailed
	}
	if response.State != core.RunStateFailed {
		o.finalize(sessionID, sess.UserID, req, run, response)
	}

	rootStatus := trace.StatusOK
	if response.State == core.RunStateFailed {
		rootStatus = trace.StatusError
	}
	tracer.EndSpan(root, rootStatus, map[string]string{"state": string(response.State)})
	response.Trace = tracer.Summarize(root)

	logger.Info("planning run finished session_id=%s run_id=%s state=%s diagnostics=%d", sessionID, runID, response.State, len(response.Diagnostics))
	return response, nil
}

// registerRun installs the cancel handle for the session, rejecting a second
// concurrent run.
func (o *Orchestrator) registerRun(ctx context.Context, sessionID string) (context.Context, context.CancelFunc, error) {
	runCtx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, active := o.activeRuns[sessionID]; active {
		cancel()
		return nil, nil, ErrRunActive
	}
	o.activeRuns[sessionID] = cancel
	return runCtx, cancel, nil
}

func (o *Orchestrator) releaseRun(sessionID string, cancel context.CancelFunc) {
	o.mu.Lock()
	delete(o.activeRuns, sessionID)
	o.mu.Unlock()
	cancel()
}

// finalize merges the accumulated context deltas back into the session and
// persists learned preferences plus one history entry. Persistence failures
// degrade the response with a diagnostic instead of failing the run.
func (o *Orchestrator) finalize(sessionID, userID string, req core.PlanRequest, run *runExecution, response *core.PlanResponse) {
	if len(run.deltas) > 0 {
		if _, err := o.sessions.Update(sessionID, run.deltas); err != nil {
			response.Diagnostics = append(response.Diagnostics, fmt.Sprintf("session update failed: %v", err))
		}
	}

	if _, err := o.mergePreferences(userID, req.DietaryRestrictions, req.Preferences, req.Budget); err != nil {
		response.Diagnostics = append(response.Diagnostics, fmt.Sprintf("preference persistence failed: %v", err))
	}

	payload, err := json.Marshal(struct {
		Request  core.PlanRequest `json:"request"`
		State    core.RunState    `json:"state"`
		MealPlan *core.MealPlan   `json:"meal_plan,omitempty"`
	}{Request: req, State: response.State, MealPlan: response.MealPlan})
	if err == nil {
		err = o.memory.AppendHistory(userID, core.HistoryEntry{
			Timestamp: time.Now().UTC(),
			Kind:      core.HistoryKindMealPlan,
			Payload:   payload,
		})
	}
	if err != nil {
		response.Diagnostics = append(response.Diagnostics, fmt.Sprintf("history persistence failed: %v", err))
	}
}

// normalizeRequest applies the product defaults and bounds to a request.
func normalizeRequest(req core.PlanRequest) core.PlanRequest {
	if req.Days <= 0 {
		req.Days = 3
	}
	if req.Days > MaxPlanDays {
		req.Days = MaxPlanDays
	}
	return req
}
