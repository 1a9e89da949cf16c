package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/arnold/habitus-api/internal/goals"
	"github.com/arnold/habitus-api/internal/middleware"
	"github.com/arnold/habitus-api/internal/models"
	"github.com/arnold/habitus-api/internal/query"
	"github.com/arnold/habitus-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type GoalHandler struct {
	backend  query.Backend
	hub      *Hub
	activity *services.ActivityService
	log      *slog.Logger
}

func NewGoalHandler(backend query.Backend, hub *Hub, activity *services.ActivityService, log *slog.Logger) *GoalHandler {
	if log == nil {
		log = slog.Default()
	}
	return &GoalHandler{backend: backend, hub: hub, activity: activity, log: log}
}

// goalResponse writes the {data, error} envelope.
func goalResponse(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"data": data, "error": nil})
}

func goalError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"data": nil, "error": msg})
}

func (h *GoalHandler) fail(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, query.ErrNotFound):
		return goalError(c, fiber.StatusNotFound, "Goal not found")
	case errors.Is(err, query.ErrUnsupportedFilter), errors.Is(err, query.ErrInvalidColumn), errors.Is(err, query.ErrUnknownTable):
		return goalError(c, fiber.StatusBadRequest, err.Error())
	}
	h.log.Error("goal operation failed", "op", op, "backend", h.backend.Name(), "error", err)
	return goalError(c, fiber.StatusInternalServerError, "Failed to "+op+" goal")
}

func owner(c *fiber.Ctx) string {
	return middleware.GetUserID(c).String()
}

// ListGoals returns the filtered, sorted collection.
func (h *GoalHandler) ListGoals(c *fiber.Ctx) error {
	filter := goals.FilterState{
		Search:      c.Query("search"),
		Name:        c.Query("name"),
		Description: c.Query("description"),
		Frequency:   c.Query("frequency"),
		DueDate:     c.Query("dueDate"),
		Done:        c.Query("done"),
		Visibility:  c.Query("visibility"),
	}

	sortState := goals.DefaultSort
	if field := c.Query("sort"); field != "" {
		if !goals.IsSortable(field) {
			return goalError(c, fiber.StatusBadRequest, "Invalid sort field")
		}
		sortState.Field = field
	}
	switch order := goals.SortOrder(strings.ToLower(c.Query("order"))); order {
	case "":
	case goals.Asc, goals.Desc:
		sortState.Order = order
	default:
		return goalError(c, fiber.StatusBadRequest, "Invalid sort order")
	}

	res := query.Select(c.UserContext(), h.backend, owner(c), &query.Order{
		Column:    sortState.Field,
		Ascending: sortState.Order == goals.Asc,
	}).Await(c.UserContext())
	if res.Err != nil {
		return h.fail(c, "list", res.Err)
	}

	list := goals.Filter(res.Data, filter)
	// Re-sort in the view layer so undated goals land last on every backend.
	goals.Sort(list, sortState)

	return goalResponse(c, fiber.StatusOK, list)
}

func (h *GoalHandler) GetGoal(c *fiber.Ctx) error {
	g, err := h.find(c.UserContext(), owner(c), c.Params("id"))
	if err != nil {
		return h.fail(c, "load", err)
	}
	return goalResponse(c, fiber.StatusOK, g)
}

func (h *GoalHandler) find(ctx context.Context, owner, id string) (*models.Goal, error) {
	res := query.Select(ctx, h.backend, owner, nil, query.Eq{Column: models.ColumnID, Value: id}).Await(ctx)
	if res.Err != nil {
		return nil, res.Err
	}
	if len(res.Data) == 0 {
		return nil, query.ErrNotFound
	}
	return &res.Data[0], nil
}

func (h *GoalHandler) CreateGoal(c *fiber.Ctx) error {
	var req models.GoalRequest
	if err := c.BodyParser(&req); err != nil {
		return goalError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	patch, err := parseGoalRequest(req, true)
	if err != nil {
		return goalError(c, fiber.StatusBadRequest, err.Error())
	}

	res := query.Insert(c.UserContext(), h.backend, owner(c), patch).Await(c.UserContext())
	if res.Err != nil {
		return h.fail(c, "create", res.Err)
	}
	if len(res.Data) == 0 {
		return h.fail(c, "create", errors.New("insert returned no rows"))
	}

	g := res.Data[0]
	h.record(c, models.ActionGoalCreated, g, map[string]interface{}{"name": g.Name})
	h.hub.Broadcast(middleware.GetUserID(c), WSEvent{Type: EventGoalCreated, Data: g})

	return goalResponse(c, fiber.StatusCreated, g)
}

func (h *GoalHandler) UpdateGoal(c *fiber.Ctx) error {
	var req models.GoalRequest
	if err := c.BodyParser(&req); err != nil {
		return goalError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	patch, err := parseGoalRequest(req, false)
	if err != nil {
		return goalError(c, fiber.StatusBadRequest, err.Error())
	}

	return h.update(c, c.Params("id"), patch)
}

// ToggleGoal flips done on one goal.
func (h *GoalHandler) ToggleGoal(c *fiber.Ctx) error {
	id := c.Params("id")
	g, err := h.find(c.UserContext(), owner(c), id)
	if err != nil {
		return h.fail(c, "toggle", err)
	}

	done := !g.Done
	return h.update(c, id, models.GoalPatch{Done: &done})
}

func (h *GoalHandler) update(c *fiber.Ctx, id string, patch models.GoalPatch) error {
	res := query.Update(c.UserContext(), h.backend, owner(c), id, patch).Await(c.UserContext())
	if res.Err != nil {
		return h.fail(c, "update", res.Err)
	}
	if len(res.Data) == 0 {
		return h.fail(c, "update", query.ErrNotFound)
	}

	g := res.Data[0]
	action := models.ActionGoalUpdated
	if patch.Done != nil {
		if *patch.Done {
			action = models.ActionGoalCompleted
		} else {
			action = models.ActionGoalReopened
		}
	}
	h.record(c, action, g, nil)
	h.hub.Broadcast(middleware.GetUserID(c), WSEvent{Type: EventGoalUpdated, Data: g})

	return goalResponse(c, fiber.StatusOK, g)
}

func (h *GoalHandler) DeleteGoal(c *fiber.Ctx) error {
	id := c.Params("id")
	res := query.Delete(c.UserContext(), h.backend, owner(c), id).Await(c.UserContext())
	if res.Err != nil {
		return h.fail(c, "delete", res.Err)
	}

	h.record(c, models.ActionGoalDeleted, models.Goal{ID: id}, nil)
	h.hub.Broadcast(middleware.GetUserID(c), WSEvent{Type: EventGoalDeleted, Data: fiber.Map{"id": id}})

	return goalResponse(c, fiber.StatusOK, nil)
}

func (h *GoalHandler) record(c *fiber.Ctx, action string, g models.Goal, metadata map[string]interface{}) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return
	}
	h.activity.Log(c.UserContext(), userID, action, g.ID, metadata)
}

type validationError string

func (e validationError) Error() string { return string(e) }

// parseGoalRequest validates a form submission into a patch. Name is
// required on create; other fields keep their defaults when omitted.
func parseGoalRequest(req models.GoalRequest, create bool) (models.GoalPatch, error) {
	var p models.GoalPatch

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return p, validationError("Name is required")
		}
		p.Name = &name
	} else if create {
		return p, validationError("Name is required")
	}

	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		p.Description = &desc
	}

	if req.Frequency != nil && *req.Frequency != "" {
		f := models.Frequency(*req.Frequency)
		if !f.Valid() {
			return p, validationError("Frequency must be once or daily")
		}
		p.Frequency = &f
	}

	if req.Visibility != nil && *req.Visibility != "" {
		v := models.Visibility(*req.Visibility)
		if !v.Valid() {
			return p, validationError("Visibility must be public, private or friends")
		}
		p.Visibility = &v
	}

	if req.DueDate != nil {
		if *req.DueDate == "" {
			p.ClearDueDate = true
		} else {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				return p, validationError("Due date must be RFC 3339 or YYYY-MM-DD")
			}
			p.DueDate = &due
		}
	}

	p.Done = req.Done
	return p, nil
}

func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(goals.DateLayout, s)
}
