package fatigue_test

import (
	"testing"

	"github.com/evolvefit/fatiguecore/internal/fatigue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_AllEntriesValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range fatigue.Catalog {
		require.NotEmpty(t, e.ID)
		require.False(t, seen[e.ID], "duplicate catalog id %s", e.ID)
		seen[e.ID] = true

		require.NotEmpty(t, e.Primary, "catalog entry %s has no primary muscles", e.ID)
		require.Greater(t, e.Difficulty, 0.0, "catalog entry %s", e.ID)

		for _, m := range e.Primary {
			assert.True(t, m.IsValid(), "catalog entry %s: primary %s", e.ID, m)
		}
		for _, m := range e.Secondary {
			assert.True(t, m.IsValid(), "catalog entry %s: secondary %s", e.ID, m)
		}
	}
}

func TestLookupExercise(t *testing.T) {
	entry, ok := fatigue.LookupExercise("bench_press")
	require.True(t, ok)
	assert.Equal(t, "Bench Press", entry.Name)

	// normalization of case and separators
	entry, ok = fatigue.LookupExercise("Bench Press")
	require.True(t, ok)
	assert.Equal(t, "bench_press", entry.ID)

	_, ok = fatigue.LookupExercise("underwater_basket_weaving")
	assert.False(t, ok)
}
