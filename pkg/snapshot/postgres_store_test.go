package snapshot

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"testing"

	"github.com/manatly/manat/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var connect func() *sql.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}
	container, connectFn := test_utils.TestWithDB()
	connect = connectFn
	code := m.Run()
	_ = container.Terminate(context.Background())
	os.Exit(code)
}

func setupPostgresStore(t *testing.T) (context.Context, *PostgresStore) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres store test in short mode")
	}
	db := connect()
	t.Cleanup(func() { db.Close() })
	return context.Background(), NewPostgresStore(db)
}

func TestPostgresStore_SaveAndLoad(t *testing.T) {
	ctx, store := setupPostgresStore(t)

	// given
	snap := New()
	snap.UserType = UserTypeStudent
	snap.Budget = 450.75
	snap.IncomeReminders = []IncomeReminder{{
		ID:          "r1",
		SourceType:  SourceFreelance,
		Label:       "Tutoring",
		Frequency:   FrequencyWeekly,
		NextTrigger: "2025-06-13",
		RemindHour:  9,
	}}

	// when
	require.NoError(t, store.Save(ctx, "pg-roundtrip", snap))
	loaded, found, err := store.Load(ctx, "pg-roundtrip")

	// then
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, UserTypeStudent, loaded.UserType)
	assert.Equal(t, 450.75, loaded.Budget)
	require.Len(t, loaded.IncomeReminders, 1)
	assert.Equal(t, "Tutoring", loaded.IncomeReminders[0].Label)
}

func TestPostgresStore_SaveOverwrites(t *testing.T) {
	ctx, store := setupPostgresStore(t)

	// given
	first := New()
	first.Budget = 100
	require.NoError(t, store.Save(ctx, "pg-overwrite", first))

	// when
	second := New()
	second.Budget = 200
	require.NoError(t, store.Save(ctx, "pg-overwrite", second))

	// then
	loaded, found, err := store.Load(ctx, "pg-overwrite")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 200.0, loaded.Budget)
}

func TestPostgresStore_LoadMissing(t *testing.T) {
	ctx, store := setupPostgresStore(t)

	_, found, err := store.Load(ctx, "pg-nobody")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestPostgresStore_Delete(t *testing.T) {
	ctx, store := setupPostgresStore(t)

	// given
	require.NoError(t, store.Save(ctx, "pg-delete", New()))

	// when
	require.NoError(t, store.Delete(ctx, "pg-delete"))

	// then
	_, found, err := store.Load(ctx, "pg-delete")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting again stays a no-op
	assert.NoError(t, store.Delete(ctx, "pg-delete"))
}
