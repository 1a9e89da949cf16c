// Package query defines the goal backend contract: one call per operation,
// each returning a Future that resolves to a Result.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnold/habitus-api/internal/models"
)

var (
	ErrNotFound          = errors.New("goal not found")
	ErrUnsupportedFilter = errors.New("update and delete must be keyed by id")
	ErrInvalidColumn     = errors.New("invalid column")
	ErrUnknownTable      = errors.New("unknown table")
)

const TableGoals = "goals"

type Op string

const (
	OpSelect Op = "select"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

type Order struct {
	Column    string
	Ascending bool
}

// Eq is an equality filter on one column.
type Eq struct {
	Column string
	Value  string
}

type Query struct {
	Table   string
	Op      Op
	// Owner scopes rows to a user. Only the database backend enforces it.
	Owner   string
	Order   *Order
	Filters []Eq
	Rows    []models.GoalPatch
	Patch   models.GoalPatch
}

// Result mirrors the {data, error} shape callers render.
type Result struct {
	Data []models.Goal
	Err  error
}

type Backend interface {
	Name() string
	Query(ctx context.Context, q Query) *Future
}

// Future resolves once the operation finishes. The operation runs to
// completion even if every waiter gives up.
type Future struct {
	done   chan struct{}
	result Result
}

func Go(fn func() Result) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.result = fn()
	}()
	return f
}

// Resolved returns an already completed future.
func Resolved(r Result) *Future {
	f := &Future{done: make(chan struct{}), result: r}
	close(f.done)
	return f
}

func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is ready or ctx is done.
func (f *Future) Await(ctx context.Context) Result {
	select {
	case <-f.done:
		return f.result
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}

func Select(ctx context.Context, b Backend, owner string, order *Order, filters ...Eq) *Future {
	return b.Query(ctx, Query{Table: TableGoals, Op: OpSelect, Owner: owner, Order: order, Filters: filters})
}

func Insert(ctx context.Context, b Backend, owner string, rows ...models.GoalPatch) *Future {
	return b.Query(ctx, Query{Table: TableGoals, Op: OpInsert, Owner: owner, Rows: rows})
}

func Update(ctx context.Context, b Backend, owner, id string, patch models.GoalPatch) *Future {
	return b.Query(ctx, Query{Table: TableGoals, Op: OpUpdate, Owner: owner, Patch: patch, Filters: []Eq{{Column: models.ColumnID, Value: id}}})
}

func Delete(ctx context.Context, b Backend, owner, id string) *Future {
	return b.Query(ctx, Query{Table: TableGoals, Op: OpDelete, Owner: owner, Filters: []Eq{{Column: models.ColumnID, Value: id}}})
}

// checkTable rejects queries against anything but the goals table.
func checkTable(q Query) error {
	if q.Table != TableGoals {
		return fmt.Errorf("%w: %q", ErrUnknownTable, q.Table)
	}
	return nil
}

// keyedID extracts the id a mutation targets.
func keyedID(q Query) (string, error) {
	if len(q.Filters) != 1 || q.Filters[0].Column != models.ColumnID {
		return "", ErrUnsupportedFilter
	}
	return q.Filters[0].Value, nil
}
