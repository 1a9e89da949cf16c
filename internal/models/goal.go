package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Frequency string

const (
	FrequencyOnce  Frequency = "once"
	FrequencyDaily Frequency = "daily"
)

func (f Frequency) Valid() bool {
	return f == FrequencyOnce || f == FrequencyDaily
}

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	VisibilityFriends Visibility = "friends"
)

// DefaultVisibility applies to new goals and to stored goals that predate the field.
const DefaultVisibility = VisibilityPrivate

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityFriends:
		return true
	}
	return false
}

// Goal is a tracked habit. The JSON field names double as the mock storage format.
type Goal struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      *string    `json:"user_id,omitempty" gorm:"index"`
	Name        string     `json:"name" gorm:"not null"`
	Description *string    `json:"description,omitempty"`
	Frequency   Frequency  `json:"frequency" gorm:"not null;default:'once'"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Visibility  Visibility `json:"visibility,omitempty" gorm:"not null;default:'private'"`
	Done        bool       `json:"done" gorm:"default:false"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// EffectiveVisibility reports the stored visibility or the default when absent.
func (g Goal) EffectiveVisibility() Visibility {
	if g.Visibility == "" {
		return DefaultVisibility
	}
	return g.Visibility
}

// Column names accepted for ordering and equality filters.
const (
	ColumnID          = "id"
	ColumnUserID      = "user_id"
	ColumnName        = "name"
	ColumnDescription = "description"
	ColumnFrequency   = "frequency"
	ColumnDueDate     = "due_date"
	ColumnVisibility  = "visibility"
	ColumnDone        = "done"
	ColumnCreatedAt   = "created_at"
)

var goalColumns = map[string]bool{
	ColumnID:          true,
	ColumnUserID:      true,
	ColumnName:        true,
	ColumnDescription: true,
	ColumnFrequency:   true,
	ColumnDueDate:     true,
	ColumnVisibility:  true,
	ColumnDone:        true,
	ColumnCreatedAt:   true,
}

func IsGoalColumn(name string) bool {
	return goalColumns[name]
}

// GoalPatch carries caller-supplied fields for insert and update.
// Nil fields are left untouched. id and created_at are never patchable.
type GoalPatch struct {
	UserID       *string
	Name         *string
	Description  *string
	Frequency    *Frequency
	DueDate      *time.Time
	ClearDueDate bool
	Visibility   *Visibility
	Done         *bool
}

// ApplyTo merges the patch over g.
func (p GoalPatch) ApplyTo(g *Goal) {
	if p.UserID != nil {
		g.UserID = p.UserID
	}
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = p.Description
	}
	if p.Frequency != nil {
		g.Frequency = *p.Frequency
	}
	if p.ClearDueDate {
		g.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		g.DueDate = &d
	}
	if p.Visibility != nil {
		g.Visibility = *p.Visibility
	}
	if p.Done != nil {
		g.Done = *p.Done
	}
}

// NewGoal builds a record with server defaults and merges the patch over them.
func NewGoal(p GoalPatch, now time.Time) Goal {
	g := Goal{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		Done:       false,
		Frequency:  FrequencyOnce,
		Visibility: DefaultVisibility,
	}
	p.ApplyTo(&g)
	return g
}

// GoalRequest is the JSON body accepted by create and update.
type GoalRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
	DueDate     *string `json:"due_date"`
	Visibility  *string `json:"visibility"`
	Done        *bool   `json:"done"`
}
