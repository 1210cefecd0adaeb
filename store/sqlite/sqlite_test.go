package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workpattern-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndGetRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := sqlite.RunRecord{
		ID:                    "run-1",
		EmployeeID:            "E1",
		Status:                "ok",
		EmployeeHTTPStatus:    200,
		WorkPatternHTTPStatus: 200,
		StartDate:             "2024-05-01",
		WorkPatternBody:       `{"Result":[]}`,
		ResolvedJSON:          `{"weekly_minutes":2400}`,
		CreatedAt:             time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "E1", got.EmployeeID)
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, "2024-05-01", got.StartDate)
	assert.Equal(t, `{"weekly_minutes":2400}`, got.ResolvedJSON)
	assert.True(t, got.CreatedAt.Equal(run.CreatedAt))
}

func TestStore_GetRun_NotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetRun(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ListRuns_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, store.SaveRun(ctx, sqlite.RunRecord{
			ID:         id,
			EmployeeID: "E1",
			Status:     "ok",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-b", runs[1].ID)
}

func TestStore_DuplicateRunIDRejected(t *testing.T) {
	// Runs are append-only with unique ids; a redelivered webhook gets
	// a fresh id, never an overwrite.
	store := newTestStore(t)
	ctx := context.Background()

	run := sqlite.RunRecord{ID: "run-1", EmployeeID: "E1", Status: "ok"}
	require.NoError(t, store.SaveRun(ctx, run))
	assert.Error(t, store.SaveRun(ctx, run))
}
