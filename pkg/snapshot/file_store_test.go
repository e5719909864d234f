package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should round-trip a snapshot", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		snap := New()
		snap.UserType = UserTypeWorker
		snap.Budget = 2500.50
		snap.Profile = ProfileDetails{FirstName: "Aysel", LastName: "Aliyeva"}
		snap.Incomes = []Income{{
			ID:         "i1",
			Source:     "Salary",
			Amount:     1200,
			ReceivedAt: time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
			ReminderID: "r1",
		}}
		snap.IncomeReminders = []IncomeReminder{{
			ID:          "r1",
			SourceType:  SourceSalary,
			Label:       "Salary",
			Frequency:   FrequencyMonthly,
			DayOfMonth:  5,
			NextTrigger: "2025-07-05",
			AutoRenew:   true,
			RemindHour:  9,
		}}

		require.NoError(t, store.Save(ctx, "worker", snap))
		loaded, found, err := store.Load(ctx, "worker")

		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, snap, loaded)
	})

	t.Run("should report absence for an unknown profile", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		_, found, err := store.Load(ctx, "nobody")

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("should ignore a record written under a different storage key", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewFileStore(dir)
		require.NoError(t, err)
		stale := []byte(`{"key":"manat/profile-state-v0","snapshot":{"currency":"AZN"}}`)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "default.json"), stale, 0o644))

		_, found, err := store.Load(ctx, "default")

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("should overwrite on subsequent saves", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		first := New()
		first.Budget = 100
		require.NoError(t, store.Save(ctx, "default", first))

		second := New()
		second.Budget = 200
		require.NoError(t, store.Save(ctx, "default", second))

		loaded, found, err := store.Load(ctx, "default")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 200.0, loaded.Budget)
	})

	t.Run("should delete the stored record", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, "default", New()))

		require.NoError(t, store.Delete(ctx, "default"))

		_, found, err := store.Load(ctx, "default")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("should tolerate deleting a missing record", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		assert.NoError(t, store.Delete(ctx, "nobody"))
	})
}
