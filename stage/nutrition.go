package stage

import (
	"context"
	"fmt"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// NutritionStage estimates aggregate nutrition for the planned meals. It is
// best effort: a failure degrades the run with a diagnostic, never aborts it.
type NutritionStage struct {
	analyzer capability.NutritionAnalyzer
	policy   capability.RetryPolicy
}

// NewNutritionStage constructs the nutrition stage.
func NewNutritionStage(analyzer capability.NutritionAnalyzer, policy capability.RetryPolicy) *NutritionStage {
	return &NutritionStage{analyzer: analyzer, policy: policy}
}

// Name implements core.Stage.
func (s *NutritionStage) Name() string { return core.StageNameNutrition }

// Required implements core.Stage.
func (s *NutritionStage) Required() bool { return false }

// Run implements core.Stage.
func (s *NutritionStage) Run(ctx context.Context, in core.StageInput) (core.StageResult, map[string]any, error) {
	plan, _ := in.PriorOutput(core.StageNameMealPlanning).(*core.MealPlan)
	if plan == nil {
		return failedResult(s.Name(), "no meal plan available"), nil, fmt.Errorf("nutrition analysis: no meal plan available")
	}

	byMeal := make(map[string]*core.Recipe)
	if recipes, _ := in.PriorOutput(core.StageNameRecipeSearch).(*core.RecipeSet); recipes != nil {
		byMeal = recipes.ByMeal
	}

	summary, err := capability.Retry(ctx, s.policy, func(ctx context.Context) (core.NutritionSummary, error) {
		return s.analyzer.Analyze(ctx, plan.Meals, byMeal)
	})
	if err != nil {
		return failedResult(s.Name(), fmt.Sprintf("nutrition analysis failed: %v", err)), nil, fmt.Errorf("nutrition analysis: %w", err)
	}

	result := core.StageResult{Stage: s.Name(), Status: core.StageStatusOK, Output: &summary}
	return result, nil, nil
}
