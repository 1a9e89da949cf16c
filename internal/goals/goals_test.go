package goals

import (
	"testing"
	"time"

	"github.com/arnold/habitus-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func names(list []models.Goal) []string {
	out := make([]string, len(list))
	for i, g := range list {
		out[i] = g.Name
	}
	return out
}

func TestFilterDoneAndVisibility(t *testing.T) {
	list := []models.Goal{
		{ID: "A", Name: "A", Done: true, Visibility: models.VisibilityPublic},
		{ID: "B", Name: "B", Done: false, Visibility: models.VisibilityPublic},
		{ID: "C", Name: "C", Done: true, Visibility: models.VisibilityPrivate},
	}

	got := Filter(list, FilterState{Done: "true", Visibility: "public"})

	assert.Equal(t, []string{"A"}, names(got))
}

func TestFilterAllDisablesPredicates(t *testing.T) {
	list := []models.Goal{{Name: "A"}, {Name: "B", Done: true}}
	f := FilterState{Frequency: All, Done: All, Visibility: All}

	assert.False(t, f.Active())
	assert.Len(t, Filter(list, f), 2)
}

func TestFilterSearchMatchesNameOrDescription(t *testing.T) {
	list := []models.Goal{
		{Name: "Morning Meditation"},
		{Name: "Read", Description: ptr("at least 30 PAGES")},
		{Name: "Run"},
	}

	assert.Equal(t, []string{"Morning Meditation"}, names(Filter(list, FilterState{Search: "medit"})))
	assert.Equal(t, []string{"Read"}, names(Filter(list, FilterState{Search: "pages"})))
	assert.Equal(t, []string{"Read"}, names(Filter(list, FilterState{Description: "Pages"})))
	assert.Equal(t, []string{"Run"}, names(Filter(list, FilterState{Name: "RUN"})))
}

func TestFilterFrequencyAndMissingVisibility(t *testing.T) {
	list := []models.Goal{
		{Name: "legacy", Frequency: models.FrequencyDaily},
		{Name: "shared", Frequency: models.FrequencyOnce, Visibility: models.VisibilityFriends},
	}

	assert.Equal(t, []string{"legacy"}, names(Filter(list, FilterState{Frequency: "daily"})))
	assert.Equal(t, []string{"legacy"}, names(Filter(list, FilterState{Visibility: "private"})))
	assert.Equal(t, []string{"shared"}, names(Filter(list, FilterState{Visibility: "friends"})))
}

func TestFilterDueDateMatchesCalendarDay(t *testing.T) {
	list := []models.Goal{
		{Name: "morning", DueDate: ptr(time.Date(2026, 7, 4, 8, 0, 0, 0, time.UTC))},
		{Name: "next day", DueDate: ptr(time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC))},
		{Name: "undated"},
	}

	assert.Equal(t, []string{"morning"}, names(Filter(list, FilterState{DueDate: "2026-07-04"})))
}

func TestFilterInvalidDoneMatchesNothing(t *testing.T) {
	list := []models.Goal{{Name: "A"}, {Name: "B", Done: true}}
	assert.Empty(t, Filter(list, FilterState{Done: "maybe"}))
}

func TestSortDueDateMissingLast(t *testing.T) {
	d := func(day int) *time.Time { return ptr(time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)) }
	list := []models.Goal{
		{Name: "none-1"},
		{Name: "jan-3", DueDate: d(3)},
		{Name: "none-2"},
		{Name: "jan-1", DueDate: d(1)},
	}

	asc := append([]models.Goal(nil), list...)
	Sort(asc, SortState{Field: models.ColumnDueDate, Order: Asc})
	assert.Equal(t, []string{"jan-1", "jan-3", "none-1", "none-2"}, names(asc))

	desc := append([]models.Goal(nil), list...)
	Sort(desc, SortState{Field: models.ColumnDueDate, Order: Desc})
	assert.Equal(t, []string{"jan-3", "jan-1", "none-1", "none-2"}, names(desc))
}

func TestSortCreatedAtDescNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []models.Goal{
		{Name: "old", CreatedAt: base},
		{Name: "new", CreatedAt: base.Add(2 * time.Hour)},
		{Name: "mid", CreatedAt: base.Add(time.Hour)},
	}

	Sort(list, DefaultSort)

	assert.Equal(t, []string{"new", "mid", "old"}, names(list))
}

func TestSortNameCaseInsensitiveAndStable(t *testing.T) {
	list := []models.Goal{
		{ID: "1", Name: "beta"},
		{ID: "2", Name: "Alpha"},
		{ID: "3", Name: "alpha"},
	}

	Sort(list, SortState{Field: models.ColumnName, Order: Asc})

	assert.Equal(t, "2", list[0].ID)
	assert.Equal(t, "3", list[1].ID)
	assert.Equal(t, "1", list[2].ID)
}

func TestSortDone(t *testing.T) {
	list := []models.Goal{{Name: "done", Done: true}, {Name: "open"}}

	Sort(list, SortState{Field: models.ColumnDone, Order: Asc})

	assert.Equal(t, []string{"open", "done"}, names(list))
}

func TestSortUnknownFieldKeepsOrder(t *testing.T) {
	list := []models.Goal{{Name: "b"}, {Name: "a"}}

	Sort(list, SortState{Field: "priority", Order: Asc})

	assert.Equal(t, []string{"b", "a"}, names(list))
	assert.False(t, IsSortable("priority"))
	assert.True(t, IsSortable("due_date"))
}
