package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// StaticCatalog is an offline CatalogSearch backed by templated recipe data.
// It keeps the system usable without a recipe API key and mirrors the
// catalog's record shape exactly.
type StaticCatalog struct{}

// NewStaticCatalog returns a catalog that always resolves queries locally.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{}
}

var meatSubstitutions = map[string]string{
	"chicken": "tofu",
	"salmon":  "tofu",
	"fish":    "tofu",
	"beef":    "lentils",
	"meat":    "vegetables",
}

// Search synthesizes up to MaxResults candidate recipes for the query,
// substituting meat terms when the filters demand vegetarian or vegan.
func (c *StaticCatalog) Search(ctx context.Context, query CatalogQuery) ([]core.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.TrimSpace(query.Query)
	if q == "" {
		return nil, nil
	}
	if hasRestriction(query.DietaryRestrictions, "vegan") || hasRestriction(query.DietaryRestrictions, "vegetarian") {
		lower := strings.ToLower(q)
		for meat, sub := range meatSubstitutions {
			if strings.Contains(lower, meat) {
				lower = strings.ReplaceAll(lower, meat, sub)
			}
		}
		q = lower
	}

	title := titleCase(q)
	candidates := []core.Recipe{
		{
			ID:          "static-1-" + slug(q),
			Title:       "Delicious " + title,
			Summary:     fmt.Sprintf("A tasty %s recipe that's easy to make.", q),
			SourceURL:   "https://example.com/recipe1",
			Ingredients: IngredientsForMeal(q),
		},
		{
			ID:          "static-2-" + slug(q),
			Title:       "Healthy " + title + " Bowl",
			Summary:     fmt.Sprintf("A nutritious %s bowl perfect for a quick meal.", q),
			SourceURL:   "https://example.com/recipe2",
			Ingredients: IngredientsForMeal(q),
		},
		{
			ID:          "static-3-" + slug(q),
			Title:       "Classic " + title,
			Summary:     fmt.Sprintf("Traditional %s recipe with authentic flavors.", q),
			SourceURL:   "https://example.com/recipe3",
			Ingredients: IngredientsForMeal(q),
		},
	}

	max := query.MaxResults
	if max <= 0 || max > len(candidates) {
		max = len(candidates)
	}
	return candidates[:max], nil
}

// IngredientsForMeal derives a plausible ingredient list from a meal name.
// Used by the static catalog and as a fallback when a resolved recipe
// carries no ingredient data.
func IngredientsForMeal(mealName string) []string {
	base := []string{"salt", "pepper", "olive oil"}
	lower := strings.ToLower(mealName)
	switch {
	case strings.Contains(lower, "pasta"):
		return append(base, "pasta", "tomato sauce", "garlic", "onion")
	case strings.Contains(lower, "chicken"):
		return append(base, "chicken breast", "vegetables", "herbs")
	case strings.Contains(lower, "salad"):
		return append(base, "lettuce", "tomato", "cucumber", "dressing")
	case strings.Contains(lower, "curry"):
		return append(base, "curry powder", "coconut milk", "vegetables", "rice")
	case strings.Contains(lower, "tofu"):
		return append(base, "tofu", "soy sauce", "vegetables", "rice")
	default:
		return append(base, "vegetables", "spices")
	}
}

func hasRestriction(restrictions []string, want string) bool {
	for _, r := range restrictions {
		if strings.EqualFold(r, want) {
			return true
		}
	}
	return false
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// storeSections maps grocery store sections to keyword markers, checked in a
// fixed order so grouping is deterministic.
var storeSections = []struct {
	name     string
	keywords []string
}{
	{"produce", []string{"lettuce", "tomato", "onion", "garlic", "pepper", "carrot", "celery", "potato", "apple", "banana", "orange", "cucumber", "vegetable"}},
	{"dairy", []string{"milk", "cheese", "yogurt", "butter", "cream", "eggs"}},
	{"meat", []string{"chicken", "beef", "pork", "fish", "turkey", "bacon", "sausage"}},
	{"pantry", []string{"flour", "sugar", "salt", "oil", "vinegar", "rice", "pasta", "beans", "canned", "spice", "sauce", "herb"}},
	{"frozen", []string{"frozen", "ice cream"}},
	{"bakery", []string{"bread", "bagel", "roll", "croissant"}},
	{"beverages", []string{"juice", "soda", "water", "coffee", "tea"}},
}

// SectionOptimizer is the local ListOptimize implementation: it deduplicates
// and normalizes ingredients, groups them by store section, and attaches a
// rough cost estimate.
type SectionOptimizer struct {
	// EstimateCosts toggles the cost estimate on the produced list.
	EstimateCosts bool
}

// NewSectionOptimizer returns an optimizer with cost estimation enabled.
func NewSectionOptimizer() *SectionOptimizer {
	return &SectionOptimizer{EstimateCosts: true}
}

// Optimize implements ListOptimize.
func (o *SectionOptimizer) Optimize(ctx context.Context, items []string) (core.ShoppingList, error) {
	if err := ctx.Err(); err != nil {
		return core.ShoppingList{}, err
	}

	normalized := normalizeIngredients(items)
	sections := make(map[string][]string)
	for _, item := range normalized {
		sections[sectionFor(item)] = append(sections[sectionFor(item)], item)
	}

	list := core.ShoppingList{
		Items:      normalized,
		Sections:   sections,
		TotalItems: len(normalized),
	}
	if o.EstimateCosts {
		total := 0.0
		for _, item := range normalized {
			total += estimateItemCost(item)
		}
		list.EstimatedCost = &total
	}
	return list, nil
}

// normalizeIngredients lowercases for comparison, strips freshness prefixes
// and deduplicates while preserving the original spelling and order.
func normalizeIngredients(items []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		key := strings.ToLower(trimmed)
		key = strings.ReplaceAll(key, "fresh ", "")
		key = strings.ReplaceAll(key, "dried ", "")
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

func sectionFor(item string) string {
	lower := strings.ToLower(item)
	for _, section := range storeSections {
		for _, kw := range section.keywords {
			if strings.Contains(lower, kw) {
				return section.name
			}
		}
	}
	return "other"
}

func estimateItemCost(item string) float64 {
	lower := strings.ToLower(item)
	switch {
	case containsAny(lower, "chicken", "beef", "pork", "fish"):
		return 8.0
	case containsAny(lower, "cheese", "milk", "yogurt"):
		return 4.0
	case containsAny(lower, "lettuce", "tomato", "onion", "pepper"):
		return 2.0
	case containsAny(lower, "pasta", "rice", "flour"):
		return 3.0
	case containsAny(lower, "bread", "bagel"):
		return 3.5
	default:
		return 3.0
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// StaticNutrition is the local NutritionAnalyzer: a keyword-based estimator
// standing in for a real nutrition database.
type StaticNutrition struct{}

// NewStaticNutrition returns the estimator.
func NewStaticNutrition() *StaticNutrition {
	return &StaticNutrition{}
}

// Analyze implements NutritionAnalyzer. Values are per-meal estimates summed
// and averaged over the planned days.
func (n *StaticNutrition) Analyze(ctx context.Context, meals []core.Meal, recipes map[string]*core.Recipe) (core.NutritionSummary, error) {
	if err := ctx.Err(); err != nil {
		return core.NutritionSummary{}, err
	}

	summary := core.NutritionSummary{}
	days := make(map[int]bool)
	for _, meal := range meals {
		title := meal.Name
		if r := recipes[meal.Name]; r != nil {
			title = r.Title
		}
		cal, protein, carbs, fat := estimateMealNutrition(title)
		summary.CaloriesPerDay += cal
		summary.ProteinGrams += protein
		summary.CarbGrams += carbs
		summary.FatGrams += fat
		summary.MealsAnalyzed++
		days[meal.Day] = true
	}
	if len(days) > 1 {
		summary.CaloriesPerDay /= float64(len(days))
	}
	return summary, nil
}

func estimateMealNutrition(title string) (calories, protein, carbs, fat float64) {
	lower := strings.ToLower(title)
	switch {
	case containsAny(lower, "salad", "bowl"):
		return 400, 20, 40, 15
	case containsAny(lower, "pasta", "noodle"):
		return 600, 20, 80, 15
	case containsAny(lower, "chicken", "meat"):
		return 550, 40, 30, 25
	case containsAny(lower, "soup"):
		return 300, 15, 35, 10
	default:
		return 500, 25, 50, 20
	}
}
