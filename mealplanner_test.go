package mealplanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/capability"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/config"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

func TestZeroConfigPlannerRunsOffline(t *testing.T) {
	planner, err := New(func(o *Options) {
		o.RetryPolicy = capability.RetryPolicy{MaxRetries: 1, Backoff: time.Millisecond}
	})
	require.NoError(t, err)

	sess, err := planner.CreateSession("alice", nil)
	require.NoError(t, err)

	resp, err := planner.PlanMeals(context.Background(), sess.ID, core.PlanRequest{
		Days:                2,
		DietaryRestrictions: []string{"vegetarian"},
		IncludeShoppingList: true,
	})
	require.NoError(t, err)

	assert.Equal(t, core.RunStateCompleted, resp.State)
	require.NotNil(t, resp.MealPlan)
	assert.Len(t, resp.MealPlan.Meals, 6)
	for _, meal := range resp.MealPlan.Meals {
		assert.NotContains(t, meal.Name, "Chicken")
		assert.NotContains(t, meal.Name, "Salmon")
	}
	require.NotNil(t, resp.ShoppingList)
	assert.Greater(t, resp.ShoppingList.TotalItems, 0)
}

func TestFromConfigBuildsFileBackedPlanner(t *testing.T) {
	cfg := &config.Config{}
	cfg.Logger.Level = "error"
	cfg.Logger.Format = "text"
	cfg.Storage.Backend = "file"
	cfg.Storage.Dir = t.TempDir()
	cfg.Storage.HistoryRetention = 10
	cfg.Session.TTL = time.Minute
	cfg.Retry.MaxRetries = 1
	cfg.Retry.Backoff = time.Millisecond
	cfg.Planner.CuisineCap = 5
	cfg.Planner.SearchConcurrency = 2

	planner, err := FromConfig(cfg)
	require.NoError(t, err)

	sess, err := planner.CreateSession("bob", nil)
	require.NoError(t, err)

	resp, err := planner.PlanMeals(context.Background(), sess.ID, core.PlanRequest{Days: 1})
	require.NoError(t, err)
	assert.Equal(t, core.RunStateCompleted, resp.State)

	entries, err := planner.History("bob", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFromConfigRejectsMissingProviderKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Backend = "memory"
	cfg.Storage.HistoryRetention = 10
	cfg.Providers.TextProvider = "openai"

	_, err := FromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no api key")
}
