package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arnold/habitus-api/internal/kv"
	"github.com/arnold/habitus-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type failingKV struct{ err error }

func (f failingKV) Get(ctx context.Context, key string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(ctx context.Context, key string, value []byte) error { return f.err }

func TestLoadAbsentSeedsOnce(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	l := NewLocal(backend, WithClock(clock))

	first, err := l.Load(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, []string{"1", "2", "3"}, ids(first))

	stored, err := backend.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.NotEmpty(t, stored)

	// A later clock must not change the materialised seed.
	later := NewLocal(backend, WithClock(func() time.Time { return fixedNow.Add(time.Hour) }))
	second, err := later.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadAbsentWithoutSeed(t *testing.T) {
	l := NewLocal(kv.NewMemory(), WithSeed(false))

	goals, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, goals)
	assert.NotNil(t, goals)
}

func TestLoadWithoutStorage(t *testing.T) {
	l := NewLocal(nil)

	goals, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, goals)
	assert.NoError(t, l.Save(context.Background(), goals))
}

func TestLoadMalformedDegrades(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte("{not json")))

	seeded, err := NewLocal(backend, WithClock(clock)).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, seeded, 3)

	empty, err := NewLocal(backend, WithSeed(false)).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	raw, err := backend.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw), "malformed block must not be overwritten")
}

func TestLoadBackendError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewLocal(failingKV{err: boom}).Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	due := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	desc := "with notes"
	owner := "user-1"
	goals := []models.Goal{
		{ID: "a", Name: "A", Frequency: models.FrequencyDaily, Visibility: models.VisibilityPublic, Done: true, CreatedAt: fixedNow},
		{ID: "b", UserID: &owner, Name: "B", Description: &desc, Frequency: models.FrequencyOnce, DueDate: &due, Visibility: models.VisibilityFriends, CreatedAt: fixedNow.Add(-time.Hour)},
		{ID: "c", Name: "legacy without visibility", Frequency: models.FrequencyOnce, CreatedAt: fixedNow},
	}

	require.NoError(t, NewLocal(backend).Save(ctx, goals))

	// Simulates a page refresh: a fresh instance over the same storage.
	reloaded, err := NewLocal(backend).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, goals, reloaded)
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(kv.NewMemory(), WithSeed(false), WithKey("goals"))

	require.NoError(t, l.Save(ctx, []models.Goal{{ID: "1"}, {ID: "2"}}))
	require.NoError(t, l.Save(ctx, []models.Goal{{ID: "3"}}))

	goals, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(goals))
	assert.Equal(t, "goals", l.Key())
}

func TestSeedGoals(t *testing.T) {
	goals := SeedGoals(fixedNow)

	require.Len(t, goals, 3)
	assert.True(t, goals[1].Done)
	require.NotNil(t, goals[2].DueDate)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), *goals[2].DueDate)
	assert.Nil(t, goals[0].DueDate)
}

func ids(goals []models.Goal) []string {
	out := make([]string, len(goals))
	for i, g := range goals {
		out[i] = g.ID
	}
	return out
}
