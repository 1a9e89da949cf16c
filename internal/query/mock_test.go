package query

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/arnold/habitus-api/internal/kv"
	"github.com/arnold/habitus-api/internal/models"
	"github.com/arnold/habitus-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type tick struct {
	mu  sync.Mutex
	now time.Time
}

// next returns strictly increasing times so created_at ordering is deterministic.
func (c *tick) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newMock(t *testing.T, seed bool) (*Mock, *store.Local) {
	t.Helper()
	c := &tick{now: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	local := store.NewLocal(kv.NewMemory(), store.WithSeed(seed), store.WithClock(c.next))
	return NewMock(local, WithLatency(0), WithMockClock(c.next)), local
}

func await(t *testing.T, f *Future) Result {
	t.Helper()
	return f.Await(context.Background())
}

func TestMockInsertThenSelectNewestFirst(t *testing.T) {
	m, _ := newMock(t, true)
	ctx := context.Background()

	ins := await(t, Insert(ctx, m, "", models.GoalPatch{Name: ptr("Drink water")}))
	require.NoError(t, ins.Err)
	require.Len(t, ins.Data, 1)
	created := ins.Data[0]
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Done)

	res := await(t, Select(ctx, m, "", &Order{Column: models.ColumnCreatedAt, Ascending: false}))
	require.NoError(t, res.Err)
	require.Len(t, res.Data, 4)
	assert.Equal(t, created.ID, res.Data[0].ID)
}

func TestMockInsertPrependsAndUsesFirstRowOnly(t *testing.T) {
	m, local := newMock(t, false)
	ctx := context.Background()

	require.NoError(t, await(t, Insert(ctx, m, "", models.GoalPatch{Name: ptr("first")})).Err)
	res := await(t, Insert(ctx, m, "", models.GoalPatch{Name: ptr("second"), Done: ptr(true)}, models.GoalPatch{Name: ptr("ignored")}))
	require.NoError(t, res.Err)
	assert.True(t, res.Data[0].Done)

	stored, err := local.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "second", stored[0].Name)
	assert.Equal(t, "first", stored[1].Name)
}

func TestMockInsertEmpty(t *testing.T) {
	m, local := newMock(t, false)

	res := await(t, Insert(context.Background(), m, ""))
	require.NoError(t, res.Err)
	assert.Empty(t, res.Data)

	stored, err := local.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestMockUpdateChangesOnlyTargetedFields(t *testing.T) {
	m, local := newMock(t, true)
	ctx := context.Background()

	before, err := local.Load(ctx)
	require.NoError(t, err)

	res := await(t, Update(ctx, m, "", "3", models.GoalPatch{Done: ptr(true), Name: ptr("Ship MVP")}))
	require.NoError(t, res.Err)
	require.Len(t, res.Data, 1)

	updated := res.Data[0]
	prev := before[2]
	assert.Equal(t, prev.ID, updated.ID)
	assert.Equal(t, prev.CreatedAt, updated.CreatedAt)
	assert.Equal(t, prev.Description, updated.Description)
	assert.Equal(t, prev.DueDate, updated.DueDate)
	assert.Equal(t, prev.Frequency, updated.Frequency)
	assert.True(t, updated.Done)
	assert.Equal(t, "Ship MVP", updated.Name)

	after, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[1], after[1])
	assert.Equal(t, updated, after[2])
}

func TestMockUpdateNotFound(t *testing.T) {
	m, _ := newMock(t, true)

	res := await(t, Update(context.Background(), m, "", "nope", models.GoalPatch{Done: ptr(true)}))

	assert.ErrorIs(t, res.Err, ErrNotFound)
	assert.Nil(t, res.Data)
}

func TestMockDeleteRemovesExactlyOne(t *testing.T) {
	m, local := newMock(t, true)
	ctx := context.Background()

	res := await(t, Delete(ctx, m, "", "2"))
	require.NoError(t, res.Err)

	stored, err := local.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "1", stored[0].ID)
	assert.Equal(t, "3", stored[1].ID)
}

func TestMockDeleteMissingLeavesCollection(t *testing.T) {
	m, local := newMock(t, true)
	ctx := context.Background()
	before, err := local.Load(ctx)
	require.NoError(t, err)

	res := await(t, Delete(ctx, m, "", "missing"))
	assert.ErrorIs(t, res.Err, ErrNotFound)

	after, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMockRejectsNonIDMutations(t *testing.T) {
	m, _ := newMock(t, true)
	ctx := context.Background()

	res := await(t, m.Query(ctx, Query{Table: TableGoals, Op: OpDelete, Filters: []Eq{{Column: "frequency", Value: "daily"}}}))
	assert.ErrorIs(t, res.Err, ErrUnsupportedFilter)

	res = await(t, m.Query(ctx, Query{Table: TableGoals, Op: OpUpdate, Filters: []Eq{{Column: "name", Value: "Read a Book"}}}))
	assert.ErrorIs(t, res.Err, ErrUnsupportedFilter)
}

func TestMockSelectFiltersAndOrders(t *testing.T) {
	m, _ := newMock(t, true)

	res := await(t, Select(context.Background(), m, "", &Order{Column: models.ColumnName, Ascending: true}, Eq{Column: models.ColumnFrequency, Value: "daily"}))

	require.NoError(t, res.Err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Morning Meditation", res.Data[0].Name)
	assert.Equal(t, "Read a Book", res.Data[1].Name)
}

func TestMockSelectIgnoresOwner(t *testing.T) {
	m, _ := newMock(t, true)

	res := await(t, Select(context.Background(), m, "someone-else", nil))

	require.NoError(t, res.Err)
	assert.Len(t, res.Data, 3)
}

func TestMockLatency(t *testing.T) {
	local := store.NewLocal(kv.NewMemory())
	m := NewMock(local, WithLatency(30*time.Millisecond))

	start := time.Now()
	res := await(t, Select(context.Background(), m, "", nil))

	require.NoError(t, res.Err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestMockConcurrentInsertsAllPersist(t *testing.T) {
	m, local := newMock(t, false)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, await(t, Insert(ctx, m, "", models.GoalPatch{Name: ptr("parallel")})).Err)
		}()
	}
	wg.Wait()

	stored, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 20)
}

func TestInstrumentPassesResultsThrough(t *testing.T) {
	m, _ := newMock(t, true)
	b := Instrument(m)

	assert.Equal(t, "mock", b.Name())
	res := await(t, Delete(context.Background(), b, "", "missing"))
	assert.ErrorIs(t, res.Err, ErrNotFound)
	res = await(t, Select(context.Background(), b, "", nil))
	assert.NoError(t, res.Err)
}

func TestMockRejectsUnknownTable(t *testing.T) {
	m, local := newMock(t, true)
	ctx := context.Background()

	res := await(t, m.Query(ctx, Query{Table: "profiles", Op: OpDelete, Filters: []Eq{{Column: "id", Value: "1"}}}))
	assert.ErrorIs(t, res.Err, ErrUnknownTable)

	res = await(t, m.Query(ctx, Query{Op: OpSelect}))
	assert.ErrorIs(t, res.Err, ErrUnknownTable)

	stored, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}
