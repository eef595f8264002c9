package capability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

func TestStaticCatalogSearch(t *testing.T) {
	catalog := NewStaticCatalog()

	recipes, err := catalog.Search(context.Background(), CatalogQuery{Query: "pasta primavera"})
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	assert.Equal(t, "Delicious Pasta Primavera", recipes[0].Title)
	assert.NotEmpty(t, recipes[0].Ingredients)
	assert.NotEmpty(t, recipes[0].SourceURL)
}

func TestStaticCatalogSubstitutesMeatForVegan(t *testing.T) {
	catalog := NewStaticCatalog()

	recipes, err := catalog.Search(context.Background(), CatalogQuery{
		Query:               "Chicken Curry",
		DietaryRestrictions: []string{"vegan"},
		MaxResults:          1,
	})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Contains(t, recipes[0].Title, "Tofu")
	assert.NotContains(t, recipes[0].Title, "Chicken")
}

func TestStaticCatalogMaxResults(t *testing.T) {
	catalog := NewStaticCatalog()

	recipes, err := catalog.Search(context.Background(), CatalogQuery{Query: "salad", MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}

func TestStaticCatalogEmptyQuery(t *testing.T) {
	catalog := NewStaticCatalog()

	recipes, err := catalog.Search(context.Background(), CatalogQuery{Query: "  "})
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestSectionOptimizerGroupsAndDeduplicates(t *testing.T) {
	optimizer := NewSectionOptimizer()

	list, err := optimizer.Optimize(context.Background(), []string{
		"tomato", "fresh tomato", "chicken breast", "pasta", "milk", "mystery item",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, list.TotalItems, "fresh tomato deduplicates against tomato")
	assert.Contains(t, list.Sections["produce"], "tomato")
	assert.Contains(t, list.Sections["meat"], "chicken breast")
	assert.Contains(t, list.Sections["pantry"], "pasta")
	assert.Contains(t, list.Sections["dairy"], "milk")
	assert.Contains(t, list.Sections["other"], "mystery item")
	require.NotNil(t, list.EstimatedCost)
	assert.Greater(t, *list.EstimatedCost, 0.0)
}

func TestSectionOptimizerWithoutCosts(t *testing.T) {
	optimizer := &SectionOptimizer{EstimateCosts: false}

	list, err := optimizer.Optimize(context.Background(), []string{"rice"})
	require.NoError(t, err)
	assert.Nil(t, list.EstimatedCost)
}

func TestStaticNutritionAveragesPerDay(t *testing.T) {
	analyzer := NewStaticNutrition()

	summary, err := analyzer.Analyze(context.Background(), []core.Meal{
		{Day: 1, Name: "Greek Salad"},
		{Day: 1, Name: "Pasta Primavera"},
		{Day: 2, Name: "Greek Salad"},
		{Day: 2, Name: "Pasta Primavera"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.MealsAnalyzed)
	// Two identical days: the per-day average equals one day's total.
	assert.Equal(t, 1000.0, summary.CaloriesPerDay)
}

func TestOfflinePlannerProducesValidPlan(t *testing.T) {
	planner := NewOfflinePlanner()

	out, err := planner.Complete(context.Background(), TextRequest{
		Prompt: "Create a 4-day meal plan with breakfast, lunch and dinner for each day.\nDietary restrictions: vegetarian.",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `"days":4`)
	assert.Contains(t, out, "breakfast")
	assert.NotContains(t, out, "Chicken")
	assert.NotContains(t, out, "Salmon")
}

func TestCachedCatalogSearchMemoizes(t *testing.T) {
	inner := NewMockCatalogSearch()
	cached, err := NewCachedCatalogSearch(inner, 8)
	require.NoError(t, err)

	query := CatalogQuery{Query: "pasta"}
	first, err := cached.Search(context.Background(), query)
	require.NoError(t, err)
	second, err := cached.Search(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.Calls())
}

func TestCachedCatalogSearchDoesNotCacheFailures(t *testing.T) {
	inner := NewMockCatalogSearch()
	inner.SetError(ErrProvider)
	cached, err := NewCachedCatalogSearch(inner, 8)
	require.NoError(t, err)

	_, err = cached.Search(context.Background(), CatalogQuery{Query: "pasta"})
	require.Error(t, err)

	inner.SetError(nil)
	recipes, err := cached.Search(context.Background(), CatalogQuery{Query: "pasta"})
	require.NoError(t, err)
	assert.NotEmpty(t, recipes)
	assert.Equal(t, 2, inner.Calls())
}
