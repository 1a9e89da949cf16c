package goals

import (
	"sort"
	"strings"
	"time"

	"github.com/arnold/habitus-api/internal/models"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

type SortState struct {
	Field string
	Order SortOrder
}

// DefaultSort lists newest goals first.
var DefaultSort = SortState{Field: models.ColumnCreatedAt, Order: Desc}

var sortableFields = map[string]bool{
	models.ColumnName:       true,
	models.ColumnDueDate:    true,
	models.ColumnCreatedAt:  true,
	models.ColumnFrequency:  true,
	models.ColumnVisibility: true,
	models.ColumnDone:       true,
}

func IsSortable(field string) bool {
	return sortableFields[field]
}

// Sort orders goals in place by s. The sort is stable, so goals with equal
// keys keep their current relative order. Goals without a due date always
// sort after dated ones when ordering by due_date, in either direction.
func Sort(list []models.Goal, s SortState) {
	desc := s.Order == Desc
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if s.Field == models.ColumnDueDate && (a.DueDate == nil) != (b.DueDate == nil) {
			return b.DueDate == nil
		}
		c := Compare(a, b, s.Field)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// Compare returns -1, 0 or 1 comparing a and b on field. Unknown fields
// compare equal. A missing due date compares before any date.
func Compare(a, b models.Goal, field string) int {
	switch field {
	case models.ColumnID:
		return strings.Compare(a.ID, b.ID)
	case models.ColumnName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case models.ColumnDescription:
		return strings.Compare(strings.ToLower(deref(a.Description)), strings.ToLower(deref(b.Description)))
	case models.ColumnFrequency:
		return strings.Compare(string(a.Frequency), string(b.Frequency))
	case models.ColumnVisibility:
		return strings.Compare(string(a.EffectiveVisibility()), string(b.EffectiveVisibility()))
	case models.ColumnUserID:
		return strings.Compare(deref(a.UserID), deref(b.UserID))
	case models.ColumnDone:
		return compareBool(a.Done, b.Done)
	case models.ColumnCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case models.ColumnDueDate:
		return compareTimePtr(a.DueDate, b.DueDate)
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
