package orchestrator

import (
	"context"
	"time"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/logging"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/stage"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/trace"
)

// runExecution carries the mutable state of one planning run through the
// stage loop.
type runExecution struct {
	orch   *Orchestrator
	req    core.PlanRequest
	tracer *trace.Tracer
	root   *trace.Span
	logger logging.Logger

	context  map[string]any
	deltas   map[string]any
	results  []core.StageResult
	state    core.RunState
	degraded bool
}

// pipeline assembles the stage sequence for the request. Planning and recipe
// search always run; shopping list and nutrition are opt-in.
func (o *Orchestrator) pipeline(req core.PlanRequest) []core.Stage {
	stages := []core.Stage{
		stage.NewPlanStage(o.ports.Text, o.policy),
		stage.NewRecipeStage(o.ports.Catalog, o.policy, stage.WithSearchConcurrency(o.concurrency)),
	}
	if req.IncludeShoppingList {
		stages = append(stages, stage.NewShoppingStage(o.ports.Optimize, o.policy))
	}
	if req.IncludeNutrition {
		stages = append(stages, stage.NewNutritionStage(o.ports.Nutrition, o.policy))
	}
	return stages
}

// stateFor maps a stage onto the run state active while it executes.
func stateFor(stageName string) core.RunState {
	switch stageName {
	case core.StageNameMealPlanning:
		return core.RunStatePlanning
	case core.StageNameRecipeSearch:
		return core.RunStateRecipeSearch
	case core.StageNameShoppingList:
		return core.RunStateShoppingListBuild
	default:
		return core.RunStateFinalizing
	}
}

// execute walks the pipeline. A required stage failure or a cancellation
// aborts with state Failed; soft failures mark the run degraded and continue.
func (r *runExecution) execute(ctx context.Context) {
	r.state = core.RunStatePending

	for _, s := range r.orch.pipeline(r.req) {
		r.state = stateFor(s.Name())
		span := r.tracer.StartSpan(s.Name(), r.root)
		start := time.Now()

		in := core.StageInput{Request: r.req, Context: r.context, Prior: r.results}
		result, delta, err := s.Run(ctx, in)
		r.results = append(r.results, result)

		switch {
		case err != nil && ctx.Err() != nil:
			r.tracer.EndSpan(span, trace.StatusCancelled, nil)
			r.state = core.RunStateFailed
			return
		case err != nil:
			r.tracer.EndSpan(span, trace.StatusError, map[string]string{"status": string(result.Status)})
			r.logStage(s.Name(), time.Since(start), result.Status, err)
			if s.Required() {
				r.state = core.RunStateFailed
				return
			}
			r.degraded = true
		default:
			r.tracer.EndSpan(span, trace.StatusOK, map[string]string{"status": string(result.Status)})
			r.logStage(s.Name(), time.Since(start), result.Status, nil)
			if result.Status == core.StageStatusPartial {
				r.degraded = true
			}
			for k, v := range delta {
				r.context[k] = v
				r.deltas[k] = v
			}
		}
	}

	r.state = core.RunStateFinalizing
	if r.degraded {
		r.state = core.RunStatePartiallyCompleted
	} else {
		r.state = core.RunStateCompleted
	}
}

// logStage reports one stage outcome, preferring the structured stage record
// when the logger supports it.
func (r *runExecution) logStage(name string, dur time.Duration, status core.StageStatus, err error) {
	if sl, ok := r.logger.(logging.StageLogger); ok {
		sl.LogStageExecution(name, dur, string(status), err)
		return
	}
	if err != nil {
		r.logger.Error("stage %s failed after %s: %v", name, dur, err)
		return
	}
	r.logger.Debug("stage %s completed in %s status=%s", name, dur, status)
}

// buildResponse assembles the typed response from the recorded stage results.
func (r *runExecution) buildResponse(sessionID string) *core.PlanResponse {
	response := &core.PlanResponse{
		SessionID: sessionID,
		State:     r.state,
		Stages:    r.results,
	}
	for _, result := range r.results {
		response.Diagnostics = append(response.Diagnostics, result.Diagnostics...)
		switch result.Stage {
		case core.StageNameMealPlanning:
			if plan, ok := result.Output.(*core.MealPlan); ok {
				response.MealPlan = plan
			}
		case core.StageNameRecipeSearch:
			if set, ok := result.Output.(*core.RecipeSet); ok {
				response.Recipes = set
			}
		case core.StageNameShoppingList:
			if list, ok := result.Output.(*core.ShoppingList); ok {
				response.ShoppingList = list
			}
		case core.StageNameNutrition:
			if summary, ok := result.Output.(*core.NutritionSummary); ok {
				response.Nutrition = summary
			}
		}
	}
	return response
}
