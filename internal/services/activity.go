package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/arnold/habitus-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewActivityService(db *gorm.DB, log *slog.Logger) *ActivityService {
	if log == nil {
		log = slog.Default()
	}
	return &ActivityService{db: db, log: log}
}

// Log records a goal lifecycle event. Failures are logged, never returned.
func (s *ActivityService) Log(ctx context.Context, userID uuid.UUID, actionType, goalID string, metadata map[string]interface{}) {
	if s == nil || s.db == nil {
		return
	}

	activity := models.Activity{
		UserID:     userID,
		ActionType: actionType,
		TargetID:   goalID,
	}

	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err == nil {
			m := string(data)
			activity.Metadata = &m
		}
	}

	if err := s.db.WithContext(ctx).Create(&activity).Error; err != nil {
		s.log.Warn("failed to record activity", "action", actionType, "goal_id", goalID, "error", err)
	}
}

// List returns one page of a user's activity, newest first.
func (s *ActivityService) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Activity, int64, error) {
	var activities []models.Activity
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Activity{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, total, nil
}
