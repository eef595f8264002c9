package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// PlanStage produces the meal plan grid by prompting the text-completion
// port. It is the only hard-required stage: without a plan nothing downstream
// can run.
type PlanStage struct {
	text   capability.TextCompletion
	policy capability.RetryPolicy
}

// NewPlanStage constructs the planning stage.
func NewPlanStage(text capability.TextCompletion, policy capability.RetryPolicy) *PlanStage {
	return &PlanStage{text: text, policy: policy}
}

// Name implements core.Stage.
func (s *PlanStage) Name() string { return core.StageNameMealPlanning }

// Required implements core.Stage.
func (s *PlanStage) Required() bool { return true }

// Run implements core.Stage. The completion call and the response parse form
// one retryable unit: a malformed completion is reattempted within the same
// budget as a transport failure.
func (s *PlanStage) Run(ctx context.Context, in core.StageInput) (core.StageResult, map[string]any, error) {
	prompt := buildPlanPrompt(in)

	plan, err := capability.Retry(ctx, s.policy, func(ctx context.Context) (*core.MealPlan, error) {
		raw, err := s.text.Complete(ctx, capability.TextRequest{Prompt: prompt, MaxTokens: 2048, Temperature: 0.7})
		if err != nil {
			return nil, err
		}
		return parsePlanResponse(raw, in.Request.Days)
	})
	if err != nil {
		return core.StageResult{
			Stage:       s.Name(),
			Status:      core.StageStatusFailed,
			Diagnostics: []string{fmt.Sprintf("meal planning failed: %v", err)},
		}, nil, fmt.Errorf("meal planning: %w", err)
	}

	result := core.StageResult{Stage: s.Name(), Status: core.StageStatusOK, Output: plan}
	delta := map[string]any{core.ContextKeyLastMealPlan: plan}
	return result, delta, nil
}

// buildPlanPrompt assembles the planning prompt from the request merged with
// the session context snapshot. Request fields win over context values.
func buildPlanPrompt(in core.StageInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day meal plan with breakfast, lunch and dinner for each day.\n", in.Request.Days)

	restrictions := in.Request.DietaryRestrictions
	if len(restrictions) == 0 {
		restrictions = stringsFromContext(in.Context, core.ContextKeyDietaryRestrictions)
	}
	if len(restrictions) > 0 {
		fmt.Fprintf(&b, "Dietary restrictions: %s.\n", strings.Join(restrictions, ", "))
	}

	cuisines := in.Request.Preferences
	if len(cuisines) == 0 {
		cuisines = stringsFromContext(in.Context, core.ContextKeyFavoriteCuisines)
	}
	if len(cuisines) > 0 {
		fmt.Fprintf(&b, "Preferred cuisines: %s.\n", strings.Join(cuisines, ", "))
	}

	if budget := requestBudget(in); budget != nil {
		fmt.Fprintf(&b, "Keep the weekly grocery budget around $%.2f.\n", *budget)
	}

	b.WriteString(`Respond with JSON only, using this shape:
{"days": <int>, "summary": "<one sentence>", "meals": [{"day": <int>, "meal_type": "breakfast|lunch|dinner", "name": "<meal name>", "description": "<short description>"}]}`)
	return b.String()
}

func requestBudget(in core.StageInput) *float64 {
	if in.Request.Budget != nil {
		return in.Request.Budget
	}
	if v, ok := in.Context[core.ContextKeyBudget]; ok {
		switch b := v.(type) {
		case float64:
			return &b
		case int:
			f := float64(b)
			return &f
		}
	}
	return nil
}

// stringsFromContext tolerates both []string and []any context values, the
// latter appearing after a JSON round trip.
func stringsFromContext(ctx map[string]any, key string) []string {
	switch v := ctx[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// parsePlanResponse extracts the JSON document from a completion, tolerating
// fenced code blocks and surrounding prose, and validates the plan shape.
func parsePlanResponse(raw string, requestedDays int) (*core.MealPlan, error) {
	doc := extractJSON(raw)
	if doc == "" {
		return nil, fmt.Errorf("completion contains no JSON document")
	}

	var plan core.MealPlan
	if err := json.Unmarshal([]byte(doc), &plan); err != nil {
		return nil, fmt.Errorf("decoding meal plan: %w", err)
	}
	if len(plan.Meals) == 0 {
		return nil, fmt.Errorf("meal plan contains no meals")
	}
	if plan.Days <= 0 {
		plan.Days = requestedDays
	}
	for i, meal := range plan.Meals {
		if meal.Name == "" {
			return nil, fmt.Errorf("meal %d has no name", i)
		}
	}
	return &plan, nil
}

// extractJSON returns the JSON payload of a completion: the body of a
// ```json fence when present, otherwise the outermost brace span.
func extractJSON(raw string) string {
	if idx := strings.Index(raw, "```json"); idx >= 0 {
		rest := raw[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if idx := strings.Index(raw, "```"); idx >= 0 {
		rest := raw[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			if body := strings.TrimSpace(rest[:end]); strings.HasPrefix(body, "{") {
				return body
			}
		}
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return strings.TrimSpace(raw[start : end+1])
	}
	return ""
}
