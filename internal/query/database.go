package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnold/habitus-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Database serves the query contract from the goals table, scoping every
// operation to the owner.
type Database struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db, now: time.Now}
}

func (d *Database) Name() string { return "database" }

func (d *Database) Query(ctx context.Context, q Query) *Future {
	if err := checkTable(q); err != nil {
		return Resolved(Result{Err: err})
	}

	ctx = context.WithoutCancel(ctx)
	return Go(func() Result {
		tx := d.db.WithContext(ctx)
		switch q.Op {
		case OpSelect:
			return d.selectGoals(tx, q)
		case OpInsert:
			return d.insert(tx, q)
		case OpUpdate:
			return d.update(tx, q)
		case OpDelete:
			return d.delete(tx, q)
		}
		return Result{Err: fmt.Errorf("unsupported operation %q", q.Op)}
	})
}

func (d *Database) scoped(tx *gorm.DB, owner string) *gorm.DB {
	return tx.Where("user_id = ?", owner)
}

func (d *Database) selectGoals(tx *gorm.DB, q Query) Result {
	tx = d.scoped(tx, q.Owner)
	for _, f := range q.Filters {
		if !models.IsGoalColumn(f.Column) {
			return Result{Err: fmt.Errorf("%w: %s", ErrInvalidColumn, f.Column)}
		}
		var value interface{} = f.Value
		if f.Column == models.ColumnDone {
			value = f.Value == "true"
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: value})
	}
	if q.Order != nil {
		if !models.IsGoalColumn(q.Order.Column) {
			return Result{Err: fmt.Errorf("%w: %s", ErrInvalidColumn, q.Order.Column)}
		}
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: q.Order.Column},
			Desc:   !q.Order.Ascending,
		})
	}

	var list []models.Goal
	if err := tx.Find(&list).Error; err != nil {
		return Result{Err: fmt.Errorf("select goals: %w", err)}
	}
	if list == nil {
		list = []models.Goal{}
	}
	return Result{Data: list}
}

func (d *Database) insert(tx *gorm.DB, q Query) Result {
	if len(q.Rows) == 0 {
		return Result{Data: []models.Goal{}}
	}

	owner := q.Owner
	row := q.Rows[0]
	row.UserID = &owner
	g := models.NewGoal(row, d.now().UTC())

	if err := tx.Create(&g).Error; err != nil {
		return Result{Err: fmt.Errorf("insert goal: %w", err)}
	}
	return Result{Data: []models.Goal{g}}
}

func (d *Database) update(tx *gorm.DB, q Query) Result {
	id, err := keyedID(q)
	if err != nil {
		return Result{Err: err}
	}

	var g models.Goal
	if err := d.scoped(tx, q.Owner).Where("id = ?", id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{Err: ErrNotFound}
		}
		return Result{Err: fmt.Errorf("load goal: %w", err)}
	}

	// Ownership is not transferable through an update.
	q.Patch.UserID = nil
	q.Patch.ApplyTo(&g)

	if err := tx.Save(&g).Error; err != nil {
		return Result{Err: fmt.Errorf("update goal: %w", err)}
	}
	return Result{Data: []models.Goal{g}}
}

func (d *Database) delete(tx *gorm.DB, q Query) Result {
	id, err := keyedID(q)
	if err != nil {
		return Result{Err: err}
	}

	res := d.scoped(tx, q.Owner).Where("id = ?", id).Delete(&models.Goal{})
	if res.Error != nil {
		return Result{Err: fmt.Errorf("delete goal: %w", res.Error)}
	}
	if res.RowsAffected == 0 {
		return Result{Err: ErrNotFound}
	}
	return Result{}
}
