package stage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

func withRecipes(in core.StageInput, set *core.RecipeSet) core.StageInput {
	in.Prior = append(in.Prior, core.StageResult{
		Stage:  core.StageNameRecipeSearch,
		Status: core.StageStatusOK,
		Output: set,
	})
	return in
}

func TestShoppingStageUsesRecipeIngredients(t *testing.T) {
	in := withRecipes(planInput("Pasta Primavera"), &core.RecipeSet{
		ByMeal: map[string]*core.Recipe{
			"Pasta Primavera": {Title: "Pasta Primavera", Ingredients: []string{"pasta", "tomato sauce", "garlic"}},
		},
		TotalMeals: 1,
		Found:      1,
	})
	s := NewShoppingStage(capability.NewSectionOptimizer(), fastPolicy())

	result, delta, err := s.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, core.StageStatusOK, result.Status)

	list, ok := result.Output.(*core.ShoppingList)
	require.True(t, ok)
	assert.Equal(t, 3, list.TotalItems)
	assert.Contains(t, list.Sections["pantry"], "pasta")
	require.NotNil(t, list.EstimatedCost)
	assert.Greater(t, *list.EstimatedCost, 0.0)
	assert.Same(t, list, delta[core.ContextKeyLastShoppingList])
}

func TestShoppingStageFallsBackToMealName(t *testing.T) {
	// No recipe stage ran at all; ingredients derive from the meal names.
	s := NewShoppingStage(capability.NewSectionOptimizer(), fastPolicy())

	result, _, err := s.Run(context.Background(), planInput("Vegetable Curry"))
	require.NoError(t, err)

	list := result.Output.(*core.ShoppingList)
	assert.Contains(t, list.Items, "curry powder")
}

func TestShoppingStageDeduplicatesAcrossMeals(t *testing.T) {
	in := withRecipes(planInput("Pasta Primavera", "Greek Salad"), &core.RecipeSet{
		ByMeal: map[string]*core.Recipe{
			"Pasta Primavera": {Title: "Pasta", Ingredients: []string{"olive oil", "pasta"}},
			"Greek Salad":     {Title: "Salad", Ingredients: []string{"olive oil", "feta"}},
		},
		TotalMeals: 2,
		Found:      2,
	})
	s := NewShoppingStage(capability.NewSectionOptimizer(), fastPolicy())

	result, _, err := s.Run(context.Background(), in)
	require.NoError(t, err)

	list := result.Output.(*core.ShoppingList)
	assert.Equal(t, 3, list.TotalItems)
}

func TestShoppingStageOptimizerFailure(t *testing.T) {
	s := NewShoppingStage(failingOptimizer{}, fastPolicy())

	result, delta, err := s.Run(context.Background(), planInput("Pasta Primavera"))
	require.Error(t, err)
	assert.ErrorIs(t, err, capability.ErrProvider)
	assert.Equal(t, core.StageStatusFailed, result.Status)
	assert.Nil(t, delta)
}

func TestShoppingStageWithoutPlan(t *testing.T) {
	s := NewShoppingStage(capability.NewSectionOptimizer(), fastPolicy())

	_, _, err := s.Run(context.Background(), core.StageInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no meal plan")
}

type failingOptimizer struct{}

func (failingOptimizer) Optimize(context.Context, []string) (core.ShoppingList, error) {
	return core.ShoppingList{}, capability.ErrProvider
}
