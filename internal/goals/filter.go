// Package goals implements the dashboard's filtering and sorting of goal lists.
package goals

import (
	"strconv"
	"strings"

	"github.com/arnold/habitus-api/internal/models"
)

// All disables a select-style predicate.
const All = "all"

// DateLayout is the calendar-date format accepted by the due date filter.
const DateLayout = "2006-01-02"

// FilterState mirrors the dashboard filter panel. Empty strings and "all"
// disable the corresponding predicate.
type FilterState struct {
	Search      string
	Name        string
	Description string
	Frequency   string
	DueDate     string
	Done        string
	Visibility  string
}

func (f FilterState) Active() bool {
	for _, v := range []string{f.Search, f.Name, f.Description, f.Frequency, f.DueDate, f.Done, f.Visibility} {
		if v != "" && v != All {
			return true
		}
	}
	return false
}

// Match reports whether g satisfies every active predicate.
func (f FilterState) Match(g models.Goal) bool {
	desc := strings.ToLower(deref(g.Description))
	name := strings.ToLower(g.Name)

	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(name, q) && !strings.Contains(desc, q) {
			return false
		}
	}
	if f.Name != "" && !strings.Contains(name, strings.ToLower(f.Name)) {
		return false
	}
	if f.Description != "" && !strings.Contains(desc, strings.ToLower(f.Description)) {
		return false
	}
	if enabled(f.Frequency) && string(g.Frequency) != f.Frequency {
		return false
	}
	if f.DueDate != "" {
		if g.DueDate == nil || g.DueDate.UTC().Format(DateLayout) != f.DueDate {
			return false
		}
	}
	if enabled(f.Done) {
		want, err := strconv.ParseBool(f.Done)
		if err != nil || g.Done != want {
			return false
		}
	}
	if enabled(f.Visibility) && string(g.EffectiveVisibility()) != f.Visibility {
		return false
	}
	return true
}

// Filter returns the goals matching f, preserving order.
func Filter(list []models.Goal, f FilterState) []models.Goal {
	out := make([]models.Goal, 0, len(list))
	for _, g := range list {
		if f.Match(g) {
			out = append(out, g)
		}
	}
	return out
}

func enabled(v string) bool {
	return v != "" && v != All
}
