package core

import (
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/trace"
)

// PlanRequest is the caller's input to a planning run.
type PlanRequest struct {
	Days                int      `json:"days"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	Preferences         []string `json:"preferences,omitempty"` // cuisine preferences
	Budget              *float64 `json:"budget,omitempty"`
	IncludeNutrition    bool     `json:"include_nutrition"`
	IncludeShoppingList bool     `json:"include_shopping_list"`
}

// Meal is one planned meal slot.
type Meal struct {
	Day         int    `json:"day"`
	MealType    string `json:"meal_type"` // breakfast, lunch, dinner
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MealPlan is the output of the planning stage: a day/meal-type grid.
type MealPlan struct {
	Days    int    `json:"days"`
	Meals   []Meal `json:"meals"`
	Summary string `json:"summary,omitempty"`
}

// MealsForDay returns the meals planned for one day, in plan order.
func (p *MealPlan) MealsForDay(day int) []Meal {
	var meals []Meal
	for _, m := range p.Meals {
		if m.Day == day {
			meals = append(meals, m)
		}
	}
	return meals
}

// Recipe is one candidate record returned by the catalog-search port.
type Recipe struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// RecipeSet maps meal names to their resolved recipe. A nil entry means no
// recipe matched the meal.
type RecipeSet struct {
	ByMeal     map[string]*Recipe `json:"by_meal"`
	TotalMeals int                `json:"total_meals"`
	Found      int                `json:"found"`
}

// ShoppingList is the grouped, deduplicated output of the list-optimization
// port.
type ShoppingList struct {
	Items         []string            `json:"items"`
	Sections      map[string][]string `json:"sections,omitempty"`
	TotalItems    int                 `json:"total_items"`
	EstimatedCost *float64            `json:"estimated_cost,omitempty"`
}

// NutritionSummary is a best-effort aggregate over the planned meals.
type NutritionSummary struct {
	CaloriesPerDay float64 `json:"calories_per_day"`
	ProteinGrams   float64 `json:"protein_grams"`
	CarbGrams      float64 `json:"carb_grams"`
	FatGrams       float64 `json:"fat_grams"`
	MealsAnalyzed  int     `json:"meals_analyzed"`
}

// PlanResponse is the assembled result of a planning run. Diagnostics name
// every degraded or skipped capability so callers can render best-effort
// results instead of a hard error.
type PlanResponse struct {
	SessionID    string            `json:"session_id"`
	State        RunState          `json:"state"`
	MealPlan     *MealPlan         `json:"meal_plan,omitempty"`
	Recipes      *RecipeSet        `json:"recipes,omitempty"`
	ShoppingList *ShoppingList     `json:"shopping_list,omitempty"`
	Nutrition    *NutritionSummary `json:"nutrition,omitempty"`
	Diagnostics  []string          `json:"diagnostics,omitempty"`
	Stages       []StageResult     `json:"stages,omitempty"`
	Trace        trace.Summary     `json:"trace"`
}
