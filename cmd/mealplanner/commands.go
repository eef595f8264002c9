package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	mealplanner "github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/config"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

var rootCmd = &cobra.Command{
	Use:     "mealplanner",
	Short:   "Plan meals, find recipes and build shopping lists",
	Version: version,
	Long: `mealplanner runs a full planning workflow: a meal plan for the
requested days, a recipe per meal, and an optional shopping list with
store sections and a cost estimate. Preferences are remembered per user
across runs.`,
}

func init() {
	rootCmd.PersistentFlags().String("user", "default", "user id owning preferences and history")

	planCmd.Flags().Int("days", 3, "number of days to plan")
	planCmd.Flags().String("diet", "", "comma-separated dietary restrictions")
	planCmd.Flags().String("cuisines", "", "comma-separated preferred cuisines")
	planCmd.Flags().Float64("budget", 0, "grocery budget for the plan")
	planCmd.Flags().Bool("shopping-list", true, "build a shopping list")
	planCmd.Flags().Bool("nutrition", false, "estimate nutrition for the plan")

	prefsSetCmd.Flags().String("diet", "", "comma-separated dietary restrictions to add")
	prefsSetCmd.Flags().String("cuisines", "", "comma-separated cuisines to add")
	prefsSetCmd.Flags().Float64("budget", 0, "budget to set")

	historyCmd.Flags().Int("limit", 10, "number of entries to show (0 for all)")

	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd)
	rootCmd.AddCommand(planCmd, prefsCmd, historyCmd)
}

// newPlanner builds a Planner from configuration for one command invocation.
func newPlanner() (*mealplanner.Planner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return mealplanner.FromConfig(cfg)
}

func splitFlag(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// --- plan ---

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run a planning workflow",
	Long: `Run a planning workflow for the given user.

Examples:
  mealplanner plan --days 5 --diet vegetarian --cuisines italian,thai
  mealplanner plan --days 3 --budget 80 --nutrition`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		days, _ := cmd.Flags().GetInt("days")
		diet, _ := cmd.Flags().GetString("diet")
		cuisines, _ := cmd.Flags().GetString("cuisines")
		budget, _ := cmd.Flags().GetFloat64("budget")
		shoppingList, _ := cmd.Flags().GetBool("shopping-list")
		nutrition, _ := cmd.Flags().GetBool("nutrition")

		planner, err := newPlanner()
		if err != nil {
			return err
		}

		sess, err := planner.CreateSession(userID, nil)
		if err != nil {
			return err
		}
		defer planner.EndSession(sess.ID)

		req := core.PlanRequest{
			Days:                days,
			DietaryRestrictions: splitFlag(diet),
			Preferences:         splitFlag(cuisines),
			IncludeShoppingList: shoppingList,
			IncludeNutrition:    nutrition,
		}
		if budget > 0 {
			req.Budget = &budget
		}

		// Ctrl-C cancels the run through the orchestrator so nothing is
		// persisted for an aborted plan.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		resp, err := planner.PlanMeals(ctx, sess.ID, req)
		if err != nil {
			if resp != nil {
				fmt.Fprintln(os.Stdout, "plan cancelled")
				return nil
			}
			return err
		}

		printResponse(os.Stdout, resp)
		return nil
	},
}

// --- prefs ---

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage stored preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the user's stored preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")

		planner, err := newPlanner()
		if err != nil {
			return err
		}

		sess, err := planner.CreateSession(userID, nil)
		if err != nil {
			return err
		}
		defer planner.EndSession(sess.ID)

		printPreferences(os.Stdout, sess)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Add preferences to the user's stored record",
	Long: `Add preferences to the user's stored record.

Examples:
  mealplanner prefs set --diet vegetarian --cuisines thai
  mealplanner prefs set --budget 90`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		diet, _ := cmd.Flags().GetString("diet")
		cuisines, _ := cmd.Flags().GetString("cuisines")
		budget, _ := cmd.Flags().GetFloat64("budget")

		planner, err := newPlanner()
		if err != nil {
			return err
		}

		sess, err := planner.CreateSession(userID, nil)
		if err != nil {
			return err
		}
		defer planner.EndSession(sess.ID)

		var budgetPtr *float64
		if budget > 0 {
			budgetPtr = &budget
		}
		if err := planner.UpdatePreferences(sess.ID, splitFlag(diet), splitFlag(cuisines), budgetPtr); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "preferences updated")
		return nil
	},
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the user's planning history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		limit, _ := cmd.Flags().GetInt("limit")

		planner, err := newPlanner()
		if err != nil {
			return err
		}

		entries, err := planner.History(userID, limit)
		if err != nil {
			return err
		}
		printHistory(os.Stdout, entries)
		return nil
	},
}
