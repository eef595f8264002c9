package stage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// DefaultSearchConcurrency bounds how many catalog searches run in parallel.
const DefaultSearchConcurrency = 4

// RecipeStage resolves each planned meal to a recipe via the catalog-search
// port, one bounded-concurrency search per distinct meal name. A meal whose
// search fails is reported in diagnostics and left without a recipe; the run
// continues.
type RecipeStage struct {
	catalog     capability.CatalogSearch
	policy      capability.RetryPolicy
	concurrency int
}

// NewRecipeStage constructs the recipe-search stage.
func NewRecipeStage(catalog capability.CatalogSearch, policy capability.RetryPolicy, optFns ...func(s *RecipeStage)) *RecipeStage {
	s := &RecipeStage{catalog: catalog, policy: policy, concurrency: DefaultSearchConcurrency}
	for _, fn := range optFns {
		fn(s)
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultSearchConcurrency
	}
	return s
}

// WithSearchConcurrency overrides the parallel search bound.
func WithSearchConcurrency(n int) func(s *RecipeStage) {
	return func(s *RecipeStage) { s.concurrency = n }
}

// Name implements core.Stage.
func (s *RecipeStage) Name() string { return core.StageNameRecipeSearch }

// Required implements core.Stage.
func (s *RecipeStage) Required() bool { return false }

// Run implements core.Stage.
func (s *RecipeStage) Run(ctx context.Context, in core.StageInput) (core.StageResult, map[string]any, error) {
	plan, _ := in.PriorOutput(core.StageNameMealPlanning).(*core.MealPlan)
	if plan == nil {
		return failedResult(s.Name(), "no meal plan available"), nil, fmt.Errorf("recipe search: no meal plan available")
	}

	restrictions := in.Request.DietaryRestrictions
	if len(restrictions) == 0 {
		restrictions = stringsFromContext(in.Context, core.ContextKeyDietaryRestrictions)
	}
	var cuisine string
	if cuisines := in.Request.Preferences; len(cuisines) > 0 {
		cuisine = cuisines[0]
	}

	mealNames := distinctMealNames(plan.Meals)
	set := &core.RecipeSet{ByMeal: make(map[string]*core.Recipe, len(mealNames)), TotalMeals: len(mealNames)}

	var mu sync.Mutex
	var diagnostics []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, name := range mealNames {
		g.Go(func() error {
			recipes, err := capability.Retry(gctx, s.policy, func(ctx context.Context) ([]core.Recipe, error) {
				return s.catalog.Search(ctx, capability.CatalogQuery{
					Query:               name,
					DietaryRestrictions: restrictions,
					Cuisine:             cuisine,
					MaxResults:          3,
				})
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				// Per-meal failures degrade the stage, not the group.
				set.ByMeal[name] = nil
				diagnostics = append(diagnostics, fmt.Sprintf("recipe search failed for %q: %v", name, err))
			case len(recipes) == 0:
				set.ByMeal[name] = nil
				diagnostics = append(diagnostics, fmt.Sprintf("no recipe found for %q", name))
			default:
				recipe := recipes[0]
				set.ByMeal[name] = &recipe
				set.Found++
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return failedResult(s.Name(), err.Error()), nil, fmt.Errorf("recipe search: %w", err)
	}
	sort.Strings(diagnostics)

	if set.TotalMeals > 0 && set.Found == 0 {
		result := failedResult(s.Name(), diagnostics...)
		return result, nil, fmt.Errorf("recipe search: no meal could be resolved")
	}

	status := core.StageStatusOK
	if set.Found < set.TotalMeals {
		status = core.StageStatusPartial
	}
	result := core.StageResult{Stage: s.Name(), Status: status, Output: set, Diagnostics: diagnostics}
	delta := map[string]any{core.ContextKeyLastRecipes: set}
	return result, delta, nil
}

func distinctMealNames(meals []core.Meal) []string {
	seen := make(map[string]bool, len(meals))
	var names []string
	for _, m := range meals {
		if m.Name == "" || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		names = append(names, m.Name)
	}
	return names
}

func failedResult(stage string, diagnostics ...string) core.StageResult {
	return core.StageResult{Stage: stage, Status: core.StageStatusFailed, Diagnostics: diagnostics}
}
