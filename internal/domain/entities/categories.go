package entities

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Category is one of the derived task views shown on the dashboard.
type Category string

const (
	CategoryToday     Category = "today"
	CategoryScheduled Category = "scheduled"
	CategoryAll       Category = "all"
	CategoryFlagged   Category = "flagged"
	CategoryCompleted Category = "completed"
)

// Categories lists every category in dashboard order.
var Categories = []Category{
	CategoryToday,
	CategoryScheduled,
	CategoryAll,
	CategoryFlagged,
	CategoryCompleted,
}

// ParseCategory resolves a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DayWindow is the half-open interval [Start, End) covering one local day.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// DayWindowAt returns the calendar day containing now, in now's location.
// End is the next local midnight, so DST days are 23 or 25 hours long.
func DayWindowAt(now time.Time) DayWindow {
	y, m, d := now.Date()
	loc := now.Location()
	return DayWindow{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d+1, 0, 0, 0, 0, loc),
	}
}

// Contains reports whether t falls inside the window
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Matches applies the category predicate to a single task.
//
//	today:     due date inside the local day
//	scheduled: incomplete with a due date, past-due included
//	all:       incomplete
//	flagged:   flagged, any completion state
//	completed: completed
func (c Category) Matches(t *Task, day DayWindow) bool {
	switch c {
	case CategoryToday:
		return t.DueDate != nil && day.Contains(*t.DueDate)
	case CategoryScheduled:
		return t.IsScheduled()
	case CategoryAll:
		return !t.Completed
	case CategoryFlagged:
		return t.Flagged
	case CategoryCompleted:
		return t.Completed
	default:
		return false
	}
}

// FilterByCategory keeps the tasks matching c, preserving input order.
func FilterByCategory(tasks []Task, c Category, day DayWindow) []Task {
	out := make([]Task, 0, len(tasks))
	for i := range tasks {
		if c.Matches(&tasks[i], day) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// SummaryCounts holds the five dashboard counters.
type SummaryCounts struct {
	Today     int `json:"today"`
	Scheduled int `json:"scheduled"`
	All       int `json:"all"`
	Flagged   int `json:"flagged"`
	Completed int `json:"completed"`
}

// Get returns the counter for c
func (s SummaryCounts) Get(c Category) int {
	switch c {
	case CategoryToday:
		return s.Today
	case CategoryScheduled:
		return s.Scheduled
	case CategoryAll:
		return s.All
	case CategoryFlagged:
		return s.Flagged
	case CategoryCompleted:
		return s.Completed
	}
	return 0
}

// CountByCategory partitions one snapshot of tasks with the same predicates
// FilterByCategory uses.
func CountByCategory(tasks []Task, day DayWindow) SummaryCounts {
	var counts SummaryCounts
	for i := range tasks {
		t := &tasks[i]
		if CategoryToday.Matches(t, day) {
			counts.Today++
		}
		if CategoryScheduled.Matches(t, day) {
			counts.Scheduled++
		}
		if CategoryAll.Matches(t, day) {
			counts.All++
		}
		if CategoryFlagged.Matches(t, day) {
			counts.Flagged++
		}
		if CategoryCompleted.Matches(t, day) {
			counts.Completed++
		}
	}
	return counts
}

// SortTasks orders tasks by creation time ascending, then by ID.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
