package stage

import (
	"context"
	"fmt"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// ShoppingStage builds the consolidated shopping list from the resolved
// recipes via the list-optimization port. Meals without a recipe fall back to
// a name-derived ingredient list so the list covers the whole plan.
type ShoppingStage struct {
	optimizer capability.ListOptimize
	policy    capability.RetryPolicy
}

// NewShoppingStage constructs the shopping-list stage.
func NewShoppingStage(optimizer capability.ListOptimize, policy capability.RetryPolicy) *ShoppingStage {
	return &ShoppingStage{optimizer: optimizer, policy: policy}
}

// Name implements core.Stage.
func (s *ShoppingStage) Name() string { return core.StageNameShoppingList }

// Required implements core.Stage.
func (s *ShoppingStage) Required() bool { return false }

// Run implements core.Stage.
func (s *ShoppingStage) Run(ctx context.Context, in core.StageInput) (core.StageResult, map[string]any, error) {
	plan, _ := in.PriorOutput(core.StageNameMealPlanning).(*core.MealPlan)
	if plan == nil {
		return failedResult(s.Name(), "no meal plan available"), nil, fmt.Errorf("shopping list: no meal plan available")
	}
	recipes, _ := in.PriorOutput(core.StageNameRecipeSearch).(*core.RecipeSet)

	items := gatherIngredients(plan, recipes)
	if len(items) == 0 {
		return failedResult(s.Name(), "no ingredients to shop for"), nil, fmt.Errorf("shopping list: no ingredients to shop for")
	}

	list, err := capability.Retry(ctx, s.policy, func(ctx context.Context) (core.ShoppingList, error) {
		return s.optimizer.Optimize(ctx, items)
	})
	if err != nil {
		return failedResult(s.Name(), fmt.Sprintf("list optimization failed: %v", err)), nil, fmt.Errorf("shopping list: %w", err)
	}

	result := core.StageResult{Stage: s.Name(), Status: core.StageStatusOK, Output: &list}
	delta := map[string]any{core.ContextKeyLastShoppingList: &list}
	return result, delta, nil
}

// gatherIngredients collects ingredients per distinct meal, preferring the
// resolved recipe's list and deriving one from the meal name otherwise.
func gatherIngredients(plan *core.MealPlan, recipes *core.RecipeSet) []string {
	var items []string
	for _, name := range distinctMealNames(plan.Meals) {
		var recipe *core.Recipe
		if recipes != nil {
			recipe = recipes.ByMeal[name]
		}
		if recipe != nil && len(recipe.Ingredients) > 0 {
			items = append(items, recipe.Ingredients...)
			continue
		}
		items = append(items, capability.IngredientsForMeal(name)...)
	}
	return items
}
