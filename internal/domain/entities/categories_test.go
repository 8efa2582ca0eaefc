package entities

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func at(t *testing.T, loc *time.Location, value string) *time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return &ts
}

func TestDayWindowAt_CoversLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2026, 10, 19, 23, 59, 0, 0, loc)

	day := DayWindowAt(now)

	wantStart := time.Date(2026, 10, 19, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2026, 10, 20, 0, 0, 0, 0, loc)
	if !day.Start.Equal(wantStart) || !day.End.Equal(wantEnd) {
		t.Fatalf("window mismatch: got [%v, %v) want [%v, %v)", day.Start, day.End, wantStart, wantEnd)
	}
	if !day.Contains(now) {
		t.Fatalf("window should contain %v", now)
	}
	if day.Contains(wantEnd) {
		t.Fatalf("window end must be exclusive")
	}
}

func TestDayWindowAt_DSTDayIsShort(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2026-03-08 is the spring-forward day in New York.
	day := DayWindowAt(time.Date(2026, 3, 8, 12, 0, 0, 0, loc))

	if got := day.End.Sub(day.Start); got != 23*time.Hour {
		t.Fatalf("DST day length: got %v want 23h", got)
	}
}

func TestCategoryMatches_Today(t *testing.T) {
	loc := time.UTC
	day := DayWindowAt(*at(t, loc, "2026-10-19 09:00"))

	cases := []struct {
		name string
		task Task
		want bool
	}{
		{"start of day", Task{DueDate: at(t, loc, "2026-10-19 00:00")}, true},
		{"late evening", Task{DueDate: at(t, loc, "2026-10-19 23:59")}, true},
		{"completed still counts", Task{DueDate: at(t, loc, "2026-10-19 10:00"), Completed: true}, true},
		{"next midnight", Task{DueDate: at(t, loc, "2026-10-20 00:00")}, false},
		{"yesterday", Task{DueDate: at(t, loc, "2026-10-18 23:59")}, false},
		{"no due date", Task{}, false},
	}

	for _, tc := range cases {
		if got := CategoryToday.Matches(&tc.task, day); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestCategoryMatches_Scheduled(t *testing.T) {
	loc := time.UTC
	day := DayWindowAt(*at(t, loc, "2026-10-19 09:00"))

	past := Task{DueDate: at(t, loc, "2025-01-01 08:00")}
	future := Task{DueDate: at(t, loc, "2027-01-01 08:00")}
	doneWithDate := Task{DueDate: at(t, loc, "2026-10-19 08:00"), Completed: true}
	undated := Task{}

	if !CategoryScheduled.Matches(&past, day) {
		t.Errorf("past-due incomplete task must be scheduled")
	}
	if !CategoryScheduled.Matches(&future, day) {
		t.Errorf("future incomplete task must be scheduled")
	}
	if CategoryScheduled.Matches(&doneWithDate, day) {
		t.Errorf("completed task must never be scheduled")
	}
	if CategoryScheduled.Matches(&undated, day) {
		t.Errorf("undated task must never be scheduled")
	}
}

func TestCategoryMatches_FlaggedIgnoresCompletion(t *testing.T) {
	day := DayWindowAt(time.Now())
	open := Task{Flagged: true}
	done := Task{Flagged: true, Completed: true}

	if !CategoryFlagged.Matches(&open, day) || !CategoryFlagged.Matches(&done, day) {
		t.Fatalf("flagged must match regardless of completion")
	}
}

func TestCountByCategory_DashboardScenario(t *testing.T) {
	loc := time.UTC
	now := *at(t, loc, "2026-10-19 09:00")
	day := DayWindowAt(now)

	tasks := []Task{
		// L1: due today
		{ID: "a", ListID: "l1", DueDate: at(t, loc, "2026-10-19 17:00")},
		// L1: flagged and overdue
		{ID: "b", ListID: "l1", DueDate: at(t, loc, "2026-10-10 17:00"), Flagged: true},
		// L2: completed
		{ID: "c", ListID: "l2", Completed: true},
	}

	got := CountByCategory(tasks, day)
	// Both L1 tasks are incomplete and dated, so both are scheduled.
	want := SummaryCounts{Today: 1, Scheduled: 2, All: 2, Flagged: 1, Completed: 1}
	if got != want {
		t.Fatalf("counts mismatch: got %+v want %+v", got, want)
	}
	if got.All != len(tasks)-got.Completed {
		t.Fatalf("all must equal total minus completed: %+v", got)
	}
}

func TestCountByCategory_AgreesWithFilter(t *testing.T) {
	loc := time.UTC
	day := DayWindowAt(*at(t, loc, "2026-10-19 09:00"))
	tasks := []Task{
		{ID: "1", DueDate: at(t, loc, "2026-10-19 12:00"), Flagged: true},
		{ID: "2", DueDate: at(t, loc, "2026-10-21 12:00"), Completed: true},
		{ID: "3"},
		{ID: "4", Flagged: true, Completed: true},
	}

	counts := CountByCategory(tasks, day)
	for _, c := range Categories {
		if n := len(FilterByCategory(tasks, c, day)); n != counts.Get(c) {
			t.Errorf("%s: filter gave %d, count gave %d", c, n, counts.Get(c))
		}
	}
}

func TestFilterByCategory_EmptyInputGivesEmptySlice(t *testing.T) {
	got := FilterByCategory(nil, CategoryAll, DayWindowAt(time.Now()))
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Flagged ")
	if err != nil || c != CategoryFlagged {
		t.Fatalf("got %q, %v", c, err)
	}

	if _, err := ParseCategory("someday"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestSortTasks_CreatedAscThenID(t *testing.T) {
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "z", CreatedAt: base.Add(time.Hour)},
		{ID: "b", CreatedAt: base},
		{ID: "a", CreatedAt: base},
	}

	SortTasks(tasks)

	var got []string
	for _, task := range tasks {
		got = append(got, task.ID)
	}
	if want := []string{"a", "b", "z"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order mismatch: got %v want %v", got, want)
	}
}
