package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity action types
const (
	ActionGoalCreated   = "goal_created"
	ActionGoalUpdated   = "goal_updated"
	ActionGoalCompleted = "goal_completed"
	ActionGoalReopened  = "goal_reopened"
	ActionGoalDeleted   = "goal_deleted"
)

type Activity struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	ActionType string         `json:"actionType" gorm:"not null"`
	TargetID   string         `json:"targetId" gorm:"index"` // goal ID
	Metadata   *string        `json:"metadata"`              // JSON string for extra context
	CreatedAt  time.Time      `json:"createdAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
