package stage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

func TestNutritionStageAnalyzesPlan(t *testing.T) {
	in := core.StageInput{
		Request: core.PlanRequest{Days: 2},
		Prior: []core.StageResult{
			{Stage: core.StageNameMealPlanning, Status: core.StageStatusOK, Output: &core.MealPlan{
				Days: 2,
				Meals: []core.Meal{
					{Day: 1, MealType: "lunch", Name: "Greek Salad"},
					{Day: 1, MealType: "dinner", Name: "Pasta Primavera"},
					{Day: 2, MealType: "dinner", Name: "Chicken Curry"},
				},
			}},
		},
	}
	s := NewNutritionStage(capability.NewStaticNutrition(), fastPolicy())

	result, delta, err := s.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, core.StageStatusOK, result.Status)
	assert.Nil(t, delta)

	summary, ok := result.Output.(*core.NutritionSummary)
	require.True(t, ok)
	assert.Equal(t, 3, summary.MealsAnalyzed)
	assert.Greater(t, summary.CaloriesPerDay, 0.0)
}

func TestNutritionStageWithoutPlan(t *testing.T) {
	s := NewNutritionStage(capability.NewStaticNutrition(), fastPolicy())

	result, _, err := s.Run(context.Background(), core.StageInput{})
	require.Error(t, err)
	assert.Equal(t, core.StageStatusFailed, result.Status)
}
