package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddRestrictionsUnions(t *testing.T) {
	r := PreferenceRecord{DietaryRestrictions: []string{"vegetarian"}}
	r.AddRestrictions("vegan", "vegetarian", "", "gluten-free")
	assert.Equal(t, []string{"vegetarian", "vegan", "gluten-free"}, r.DietaryRestrictions)
}

func TestAddCuisinesMostRecentFirst(t *testing.T) {
	r := PreferenceRecord{FavoriteCuisines: []string{"italian", "thai"}}
	r.AddCuisines(10, "mexican", "thai")
	assert.Equal(t, []string{"mexican", "thai", "italian"}, r.FavoriteCuisines)
}

func TestAddCuisinesTrimsToCap(t *testing.T) {
	r := PreferenceRecord{FavoriteCuisines: []string{"a", "b", "c"}}
	r.AddCuisines(3, "d", "e")
	assert.Equal(t, []string{"d", "e", "a"}, r.FavoriteCuisines)
}

func TestAddCuisinesZeroCapUsesDefault(t *testing.T) {
	r := PreferenceRecord{}
	for i := 0; i < 30; i++ {
		r.AddCuisines(0, string(rune('a'+i)))
	}
	assert.Len(t, r.FavoriteCuisines, DefaultFavoriteCuisineCap)
}

func TestPreferenceRecordCloneIsIndependent(t *testing.T) {
	budget := 50.0
	r := PreferenceRecord{
		DietaryRestrictions: []string{"vegan"},
		FavoriteCuisines:    []string{"thai"},
		Budget:              &budget,
	}
	clone := r.Clone()
	clone.DietaryRestrictions[0] = "changed"
	*clone.Budget = 99.0

	assert.Equal(t, "vegan", r.DietaryRestrictions[0])
	assert.Equal(t, 50.0, *r.Budget)
}
