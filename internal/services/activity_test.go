package services

import (
	"context"
	"testing"
	"time"

	"github.com/arnold/habitus-api/internal/database/dbtest"
	"github.com/arnold/habitus-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLogAndList(t *testing.T) {
	db := dbtest.New(t)
	s := NewActivityService(db, nil)
	ctx := context.Background()
	user := uuid.New()

	s.Log(ctx, user, models.ActionGoalCreated, "g1", map[string]interface{}{"name": "Run"})
	s.Log(ctx, uuid.New(), models.ActionGoalCreated, "other", nil)

	list, total, err := s.List(ctx, user, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "g1", list[0].TargetID)
	require.NotNil(t, list[0].Metadata)
	assert.JSONEq(t, `{"name":"Run"}`, *list[0].Metadata)
}

func TestActivityListNewestFirstAndPaged(t *testing.T) {
	db := dbtest.New(t)
	s := NewActivityService(db, nil)
	ctx := context.Background()
	user := uuid.New()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, target := range []string{"a", "b", "c"} {
		require.NoError(t, db.Create(&models.Activity{
			UserID:     user,
			ActionType: models.ActionGoalUpdated,
			TargetID:   target,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	page1, total, err := s.List(ctx, user, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page1, 2)
	assert.Equal(t, "c", page1[0].TargetID)
	assert.Equal(t, "b", page1[1].TargetID)

	page2, _, err := s.List(ctx, user, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "a", page2[0].TargetID)
}

func TestActivityNilServiceIsNoop(t *testing.T) {
	var s *ActivityService
	assert.NotPanics(t, func() {
		s.Log(context.Background(), uuid.New(), models.ActionGoalDeleted, "g", nil)
	})
}
