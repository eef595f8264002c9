package capability

import (
	"context"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// TextRequest is the input to the text-completion port.
type TextRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// TextCompletion is the black-box language model capability. Implementations
// may be slow, rate limited or unavailable; failures map onto ErrTimeout,
// ErrRateLimited or ErrProvider.
type TextCompletion interface {
	Complete(ctx context.Context, req TextRequest) (string, error)
}

// CatalogQuery carries structured filters for the recipe catalog.
type CatalogQuery struct {
	Query               string
	DietaryRestrictions []string
	Cuisine             string
	MaxResults          int
}

// CatalogSearch is the black-box recipe catalog capability. An empty result
// is a valid response; ErrNotFound is reserved for catalogs that distinguish
// unknown queries from empty matches.
type CatalogSearch interface {
	Search(ctx context.Context, query CatalogQuery) ([]core.Recipe, error)
}

// ListOptimize groups raw ingredient strings into a structured, deduplicated
// shopping list.
type ListOptimize interface {
	Optimize(ctx context.Context, items []string) (core.ShoppingList, error)
}

// NutritionAnalyzer estimates aggregate nutrition for a set of planned meals
// with their resolved recipes.
type NutritionAnalyzer interface {
	Analyze(ctx context.Context, meals []core.Meal, recipes map[string]*core.Recipe) (core.NutritionSummary, error)
}
