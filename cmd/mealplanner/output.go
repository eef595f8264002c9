package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

func printResponse(w io.Writer, resp *core.PlanResponse) {
	fmt.Fprintf(w, "state: %s\n", resp.State)

	if resp.MealPlan != nil {
		fmt.Fprintf(w, "\n%d-day meal plan", resp.MealPlan.Days)
		if resp.MealPlan.Summary != "" {
			fmt.Fprintf(w, " (%s)", resp.MealPlan.Summary)
		}
		fmt.Fprintln(w)
		for day := 1; day <= resp.MealPlan.Days; day++ {
			meals := resp.MealPlan.MealsForDay(day)
			if len(meals) == 0 {
				continue
			}
			fmt.Fprintf(w, "  day %d:\n", day)
			for _, meal := range meals {
				fmt.Fprintf(w, "    %-10s %s", meal.MealType, meal.Name)
				if resp.Recipes != nil {
					if recipe := resp.Recipes.ByMeal[meal.Name]; recipe != nil && recipe.SourceURL != "" {
						fmt.Fprintf(w, "  [%s]", recipe.SourceURL)
					}
				}
				fmt.Fprintln(w)
			}
		}
	}

	if resp.ShoppingList != nil {
		fmt.Fprintf(w, "\nshopping list (%d items)\n", resp.ShoppingList.TotalItems)
		sections := make([]string, 0, len(resp.ShoppingList.Sections))
		for name := range resp.ShoppingList.Sections {
			sections = append(sections, name)
		}
		sort.Strings(sections)
		for _, name := range sections {
			fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(resp.ShoppingList.Sections[name], ", "))
		}
		if resp.ShoppingList.EstimatedCost != nil {
			fmt.Fprintf(w, "  estimated cost: $%.2f\n", *resp.ShoppingList.EstimatedCost)
		}
	}

	if resp.Nutrition != nil {
		fmt.Fprintf(w, "\nnutrition (avg/day): %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat\n",
			resp.Nutrition.CaloriesPerDay, resp.Nutrition.ProteinGrams, resp.Nutrition.CarbGrams, resp.Nutrition.FatGrams)
	}

	if len(resp.Diagnostics) > 0 {
		fmt.Fprintln(w, "\nwarnings:")
		for _, d := range resp.Diagnostics {
			fmt.Fprintf(w, "  - %s\n", d)
		}
	}

	fmt.Fprintf(w, "\ncompleted in %dms\n", resp.Trace.TotalDurationMs)
}

func printPreferences(w io.Writer, sess *core.Session) {
	fmt.Fprintf(w, "user: %s\n", sess.UserID)
	if v, ok := sess.Value(core.ContextKeyDietaryRestrictions); ok {
		fmt.Fprintf(w, "dietary restrictions: %s\n", joinAny(v))
	}
	if v, ok := sess.Value(core.ContextKeyFavoriteCuisines); ok {
		fmt.Fprintf(w, "favorite cuisines: %s\n", joinAny(v))
	}
	if v, ok := sess.Value(core.ContextKeyBudget); ok {
		if budget, ok := v.(float64); ok {
			fmt.Fprintf(w, "budget: $%.2f\n", budget)
		}
	}
}

func printHistory(w io.Writer, entries []core.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no history")
		return
	}
	for _, entry := range entries {
		fmt.Fprintf(w, "%s  %-12s", entry.Timestamp.Local().Format("2006-01-02 15:04"), entry.Kind)
		if entry.Feedback != "" {
			fmt.Fprintf(w, "  %s", entry.Feedback)
		}
		fmt.Fprintln(w)
	}
}

func joinAny(v any) string {
	switch vals := v.(type) {
	case []string:
		return strings.Join(vals, ", ")
	case []any:
		parts := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
