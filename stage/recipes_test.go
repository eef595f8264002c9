package stage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

func planInput(meals ...string) core.StageInput {
	plan := &core.MealPlan{Days: 1}
	for _, name := range meals {
		plan.Meals = append(plan.Meals, core.Meal{Day: 1, MealType: "dinner", Name: name})
	}
	return core.StageInput{
		Request: core.PlanRequest{Days: 1},
		Prior: []core.StageResult{
			{Stage: core.StageNameMealPlanning, Status: core.StageStatusOK, Output: plan},
		},
	}
}

func TestRecipeStageResolvesAllMeals(t *testing.T) {
	catalog := capability.NewMockCatalogSearch()
	s := NewRecipeStage(catalog, fastPolicy())

	result, delta, err := s.Run(context.Background(), planInput("Pasta Primavera", "Greek Salad"))
	require.NoError(t, err)
	assert.Equal(t, core.StageStatusOK, result.Status)

	set, ok := result.Output.(*core.RecipeSet)
	require.True(t, ok)
	assert.Equal(t, 2, set.TotalMeals)
	assert.Equal(t, 2, set.Found)
	require.NotNil(t, set.ByMeal["Pasta Primavera"])
	assert.NotEmpty(t, set.ByMeal["Pasta Primavera"].Title)
	assert.Same(t, set, delta[core.ContextKeyLastRecipes])
}

func TestRecipeStageDeduplicatesMealNames(t *testing.T) {
	catalog := capability.NewMockCatalogSearch()
	s := NewRecipeStage(catalog, fastPolicy())

	result, _, err := s.Run(context.Background(), planInput("Oatmeal", "Oatmeal", "Oatmeal"))
	require.NoError(t, err)

	set := result.Output.(*core.RecipeSet)
	assert.Equal(t, 1, set.TotalMeals)
}

func TestRecipeStagePartialOnMissingMeal(t *testing.T) {
	catalog := capability.NewMockCatalogSearch()
	catalog.AddResult("Mystery Dish", nil)
	s := NewRecipeStage(catalog, fastPolicy())

	result, _, err := s.Run(context.Background(), planInput("Pasta Primavera", "Mystery Dish"))
	require.NoError(t, err)
	assert.Equal(t, core.StageStatusPartial, result.Status)

	set := result.Output.(*core.RecipeSet)
	assert.Equal(t, 1, set.Found)
	assert.Nil(t, set.ByMeal["Mystery Dish"])
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0], "Mystery Dish")
}

func TestRecipeStageFailsWhenCatalogDown(t *testing.T) {
	catalog := capability.NewMockCatalogSearch()
	catalog.SetError(capability.ErrProvider)
	s := NewRecipeStage(catalog, fastPolicy())

	result, delta, err := s.Run(context.Background(), planInput("Pasta Primavera"))
	require.Error(t, err)
	assert.Equal(t, core.StageStatusFailed, result.Status)
	assert.Nil(t, delta)
	assert.NotEmpty(t, result.Diagnostics)
}

func TestRecipeStageNotFoundIsNotRetried(t *testing.T) {
	catalog := capability.NewMockCatalogSearch()
	catalog.SetError(capability.ErrNotFound)
	s := NewRecipeStage(catalog, fastPolicy())

	_, _, err := s.Run(context.Background(), planInput("Pasta Primavera"))
	require.Error(t, err)
	assert.Equal(t, 1, catalog.Calls())
}

func TestRecipeStageWithoutPlan(t *testing.T) {
	s := NewRecipeStage(capability.NewMockCatalogSearch(), fastPolicy())

	_, _, err := s.Run(context.Background(), core.StageInput{Request: core.PlanRequest{Days: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no meal plan")
}
