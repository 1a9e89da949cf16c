package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arnold/habitus-api/internal/goals"
	"github.com/arnold/habitus-api/internal/models"
	"github.com/arnold/habitus-api/internal/store"
)

// DefaultLatency emulates a network round-trip on every mock operation.
const DefaultLatency = 500 * time.Millisecond

// Mock serves the query contract from the Local Store. It does not scope rows
// by owner.
type Mock struct {
	store   *store.Local
	latency time.Duration
	now     func() time.Time

	// serializes read-modify-write within this process
	mu sync.Mutex
}

type MockOption func(*Mock)

func WithLatency(d time.Duration) MockOption {
	return func(m *Mock) { m.latency = d }
}

func WithMockClock(now func() time.Time) MockOption {
	return func(m *Mock) { m.now = now }
}

func NewMock(s *store.Local, opts ...MockOption) *Mock {
	m := &Mock{store: s, latency: DefaultLatency, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Query(ctx context.Context, q Query) *Future {
	if err := checkTable(q); err != nil {
		return Resolved(Result{Err: err})
	}

	ctx = context.WithoutCancel(ctx)
	return Go(func() Result {
		if m.latency > 0 {
			time.Sleep(m.latency)
		}

		m.mu.Lock()
		defer m.mu.Unlock()

		switch q.Op {
		case OpSelect:
			return m.selectGoals(ctx, q)
		case OpInsert:
			return m.insert(ctx, q)
		case OpUpdate:
			return m.update(ctx, q)
		case OpDelete:
			return m.delete(ctx, q)
		}
		return Result{Err: fmt.Errorf("unsupported operation %q", q.Op)}
	})
}

func (m *Mock) selectGoals(ctx context.Context, q Query) Result {
	list, err := m.store.Load(ctx)
	if err != nil {
		return Result{Err: err}
	}

	out := make([]models.Goal, 0, len(list))
	for _, g := range list {
		if matchesAll(g, q.Filters) {
			out = append(out, g)
		}
	}

	if q.Order != nil {
		order := goals.Desc
		if q.Order.Ascending {
			order = goals.Asc
		}
		goals.Sort(out, goals.SortState{Field: q.Order.Column, Order: order})
	}
	return Result{Data: out}
}

func (m *Mock) insert(ctx context.Context, q Query) Result {
	if len(q.Rows) == 0 {
		return Result{Data: []models.Goal{}}
	}

	list, err := m.store.Load(ctx)
	if err != nil {
		return Result{Err: err}
	}

	// Only the first row is inserted.
	g := models.NewGoal(q.Rows[0], m.now().UTC())
	list = append([]models.Goal{g}, list...)

	if err := m.store.Save(ctx, list); err != nil {
		return Result{Err: err}
	}
	return Result{Data: []models.Goal{g}}
}

func (m *Mock) update(ctx context.Context, q Query) Result {
	id, err := keyedID(q)
	if err != nil {
		return Result{Err: err}
	}

	list, err := m.store.Load(ctx)
	if err != nil {
		return Result{Err: err}
	}

	i := indexOf(list, id)
	if i < 0 {
		return Result{Err: ErrNotFound}
	}
	q.Patch.ApplyTo(&list[i])

	if err := m.store.Save(ctx, list); err != nil {
		return Result{Err: err}
	}
	return Result{Data: []models.Goal{list[i]}}
}

func (m *Mock) delete(ctx context.Context, q Query) Result {
	id, err := keyedID(q)
	if err != nil {
		return Result{Err: err}
	}

	list, err := m.store.Load(ctx)
	if err != nil {
		return Result{Err: err}
	}

	i := indexOf(list, id)
	if i < 0 {
		return Result{Err: ErrNotFound}
	}
	list = append(list[:i], list[i+1:]...)

	if err := m.store.Save(ctx, list); err != nil {
		return Result{Err: err}
	}
	return Result{}
}

func indexOf(list []models.Goal, id string) int {
	for i, g := range list {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func matchesAll(g models.Goal, filters []Eq) bool {
	for _, f := range filters {
		if columnValue(g, f.Column) != f.Value {
			return false
		}
	}
	return true
}

// columnValue renders a column the way an equality filter spells it.
func columnValue(g models.Goal, column string) string {
	switch column {
	case models.ColumnID:
		return g.ID
	case models.ColumnUserID:
		if g.UserID == nil {
			return ""
		}
		return *g.UserID
	case models.ColumnName:
		return g.Name
	case models.ColumnDescription:
		if g.Description == nil {
			return ""
		}
		return *g.Description
	case models.ColumnFrequency:
		return string(g.Frequency)
	case models.ColumnVisibility:
		return string(g.EffectiveVisibility())
	case models.ColumnDone:
		if g.Done {
			return "true"
		}
		return "false"
	case models.ColumnDueDate:
		if g.DueDate == nil {
			return ""
		}
		return g.DueDate.UTC().Format(time.RFC3339)
	case models.ColumnCreatedAt:
		return g.CreatedAt.UTC().Format(time.RFC3339)
	}
	return ""
}
