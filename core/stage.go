package core

import "context"

// StageStatus is the outcome of a single stage invocation.
type StageStatus string

// Stage statuses.
const (
	StageStatusOK      StageStatus = "ok"
	StageStatusPartial StageStatus = "partial"
	StageStatusFailed  StageStatus = "failed"
)

// StageResult is the immutable record of one stage invocation. Output holds
// the stage-specific payload (e.g. *MealPlan for the planning stage) and is
// nil when the stage failed.
type StageResult struct {
	Stage       string      `json:"stage"`
	Status      StageStatus `json:"status"`
	Output      any         `json:"output,omitempty"`
	Diagnostics []string    `json:"diagnostics,omitempty"`
}

// StageInput carries everything a stage may consume: the originating request,
// a snapshot of the session context, and the results of prior stages in
// pipeline order.
type StageInput struct {
	Request PlanRequest
	Context map[string]any
	Prior   []StageResult
}

// PriorOutput returns the output of a named prior stage, or nil if the stage
// did not run or produced no output.
func (in StageInput) PriorOutput(stage string) any {
	for _, r := range in.Prior {
		if r.Stage == stage {
			return r.Output
		}
	}
	return nil
}

// Stage is one pipeline step. Run is a function of the session context and
// prior outputs; it returns its result plus a context delta the orchestrator
// merges back into the session. A non-nil error marks the stage failed; for
// required stages this aborts the run, otherwise the pipeline continues with
// a sentinel result.
type Stage interface {
	Name() string
	Required() bool
	Run(ctx context.Context, in StageInput) (StageResult, map[string]any, error)
}

// RunState tracks an orchestration run through its state machine. Terminal
// states are final; no further transitions occur for that run.
type RunState string

// Orchestration run states.
const (
	RunStatePending            RunState = "Pending"
	RunStatePlanning           RunState = "Planning"
	RunStateRecipeSearch       RunState = "RecipeSearch"
	RunStateShoppingListBuild  RunState = "ShoppingListBuild"
	RunStateFinalizing         RunState = "Finalizing"
	RunStateCompleted          RunState = "Completed"
	RunStatePartiallyCompleted RunState = "PartiallyCompleted"
	RunStateFailed             RunState = "Failed"
)

// Terminal reports whether the state is final.
func (s RunState) Terminal() bool {
	switch s {
	case RunStateCompleted, RunStatePartiallyCompleted, RunStateFailed:
		return true
	default:
		return false
	}
}

// Canonical stage names used by the orchestrator's pipeline.
const (
	StageNameMealPlanning = "meal_planning"
	StageNameRecipeSearch = "recipe_search"
	StageNameShoppingList = "shopping_list"
	StageNameNutrition    = "nutrition_analysis"
)
