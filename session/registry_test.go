package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/memory"
)

func TestCreateSeedsFromPreferences(t *testing.T) {
	store := memory.NewInMemoryStore()
	budget := 50.0
	require.NoError(t, store.SavePreferences("alice", core.PreferenceRecord{
		DietaryRestrictions: []string{"vegetarian"},
		FavoriteCuisines:    []string{"thai"},
		Budget:              &budget,
	}))

	registry := New(store)
	sess, err := registry.Create("alice", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "alice", sess.UserID)

	restrictions, ok := sess.Value(core.ContextKeyDietaryRestrictions)
	require.True(t, ok)
	assert.Equal(t, []string{"vegetarian"}, restrictions)

	b, ok := sess.Value(core.ContextKeyBudget)
	require.True(t, ok)
	assert.Equal(t, 50.0, b)
}

func TestCreateExplicitPreferencesSkipSeeding(t *testing.T) {
	store := memory.NewInMemoryStore()
	require.NoError(t, store.SavePreferences("bob", core.PreferenceRecord{
		DietaryRestrictions: []string{"vegan"},
	}))

	registry := New(store)
	sess, err := registry.Create("bob", map[string]any{
		core.ContextKeyBudget: 30.0,
	})
	require.NoError(t, err)

	_, ok := sess.Value(core.ContextKeyDietaryRestrictions)
	assert.False(t, ok, "explicit initial context must not be merged with stored preferences")
	b, ok := sess.Value(core.ContextKeyBudget)
	require.True(t, ok)
	assert.Equal(t, 30.0, b)
}

func TestCreateUniqueIDs(t *testing.T) {
	registry := New(memory.NewInMemoryStore())

	first, err := registry.Create("alice", nil)
	require.NoError(t, err)
	second, err := registry.Create("alice", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestGetUnknownSession(t *testing.T) {
	registry := New(memory.NewInMemoryStore())

	_, err := registry.Get("missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestGetExpiredSession(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	registry := New(memory.NewInMemoryStore(), func(o *Options) {
		o.TTL = time.Minute
		o.Now = clock
	})

	sess, err := registry.Create("alice", nil)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = registry.Get(sess.ID)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.Zero(t, registry.Len(), "expired session must be evicted on access")
}

func TestUpdateMergesDelta(t *testing.T) {
	registry := New(memory.NewInMemoryStore())

	sess, err := registry.Create("alice", map[string]any{"a": 1})
	require.NoError(t, err)

	updated, err := registry.Update(sess.ID, map[string]any{"a": 2, "b": 3})
	require.NoError(t, err)

	a, _ := updated.Value("a")
	assert.Equal(t, 2, a)
	b, _ := updated.Value("b")
	assert.Equal(t, 3, b)
}

func TestUpdateReturnsClone(t *testing.T) {
	registry := New(memory.NewInMemoryStore())

	sess, err := registry.Create("alice", nil)
	require.NoError(t, err)

	clone, err := registry.Get(sess.ID)
	require.NoError(t, err)
	clone.SetValue("local", "only")

	fresh, err := registry.Get(sess.ID)
	require.NoError(t, err)
	_, ok := fresh.Value("local")
	assert.False(t, ok, "mutating a returned session must not affect the registry copy")
}

func TestEndSession(t *testing.T) {
	registry := New(memory.NewInMemoryStore())

	sess, err := registry.Create("alice", nil)
	require.NoError(t, err)

	require.NoError(t, registry.End(sess.ID))
	_, err = registry.Get(sess.ID)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.ErrorIs(t, registry.End(sess.ID), core.ErrSessionNotFound)
}

func TestForUserListsLiveSessions(t *testing.T) {
	registry := New(memory.NewInMemoryStore())

	first, err := registry.Create("alice", nil)
	require.NoError(t, err)
	second, err := registry.Create("alice", nil)
	require.NoError(t, err)
	_, err = registry.Create("bob", nil)
	require.NoError(t, err)

	sessions := registry.ForUser("alice")
	require.Len(t, sessions, 2)
	ids := []string{sessions[0].ID, sessions[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
	assert.Empty(t, registry.ForUser("carol"))
}

func TestSweepEvictsOnlyExpired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	registry := New(memory.NewInMemoryStore(), func(o *Options) {
		o.TTL = time.Minute
		o.Now = clock
	})

	stale, err := registry.Create("alice", nil)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	fresh, err := registry.Create("bob", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, registry.Sweep())
	_, err = registry.Get(stale.ID)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	_, err = registry.Get(fresh.ID)
	assert.NoError(t, err)
}
