package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPatch_IsEmpty(t *testing.T) {
	name := "X"
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{Name: &name}.IsEmpty())
	assert.Len(t, Patch{}.Options(), 0)
	assert.Len(t, Patch{Name: &name}.Options(), 1)
}

func TestApply(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	done := true
	name := "Renamed"

	t.Run("only given fields change", func(t *testing.T) {
		tk := Task{ID: 1, Name: "Original", CreatedAt: created, UpdatedAt: created}
		now := created.Add(time.Hour)

		Apply(&tk, now, Patch{Done: &done}.Options()...)

		assert.Equal(t, "Original", tk.Name)
		assert.True(t, tk.Done)
		assert.Equal(t, int64(1), tk.ID)
		assert.Equal(t, created, tk.CreatedAt)
		assert.Equal(t, now, tk.UpdatedAt)
	})

	t.Run("updatedAt never moves back", func(t *testing.T) {
		later := created.Add(time.Hour)
		tk := Task{Name: "Original", CreatedAt: created, UpdatedAt: later}

		Apply(&tk, created.Add(-time.Hour), WithName(name))

		assert.Equal(t, name, tk.Name)
		assert.Equal(t, later, tk.UpdatedAt)
	})
}
