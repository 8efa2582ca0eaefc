package entities

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestUserIDFromEmail_Deterministic(t *testing.T) {
	first := UserIDFromEmail("ada@example.com")
	second := UserIDFromEmail("ada@example.com")

	if first == "" || first != second {
		t.Fatalf("expected stable non-empty id, got %q and %q", first, second)
	}
	// base64("ada@example.com") = "YWRhQGV4YW1wbGUuY29t"
	if first != "YWRhQGV4YW1wbGUuY29t" {
		t.Fatalf("unexpected id: %q", first)
	}
}

func TestUserIDFromEmail_StripsNonAlphanumerics(t *testing.T) {
	// base64("a?b>") = "YT9iPg==" and base64("??>") = "Pz8+"
	cases := map[string]string{
		"a?b>": "YT9iPg",
		"??>":  "Pz8",
	}
	for email, want := range cases {
		got := UserIDFromEmail(email)
		if got != want {
			t.Errorf("%q: got %q want %q", email, got, want)
		}
		if strings.ContainsAny(got, "+/=") {
			t.Errorf("%q: id %q still contains padding or symbols", email, got)
		}
	}
}

func TestUserIDFromEmail_Empty(t *testing.T) {
	if got := UserIDFromEmail("   "); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}

func TestUserMergeLogin_KeepsImageWhenMissing(t *testing.T) {
	image := "https://example.com/a.png"
	u := &User{ID: "x", Email: "old@example.com", Name: "Old", ProfileImage: &image}
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	u.MergeLogin("new@example.com", "New", nil, now)

	if u.Email != "new@example.com" || u.Name != "New" {
		t.Fatalf("identity fields not refreshed: %+v", u)
	}
	if u.ProfileImage == nil || *u.ProfileImage != image {
		t.Fatalf("profile image should be kept, got %v", u.ProfileImage)
	}
	if u.LastLoginAt == nil || !u.LastLoginAt.Equal(now) {
		t.Fatalf("last login not stamped: %v", u.LastLoginAt)
	}
}

func TestTaskSetCompleted_IsSymmetric(t *testing.T) {
	task := &Task{}
	now := time.Now()

	task.SetCompleted(true, now)
	if !task.Completed || task.UpdatedAt == nil {
		t.Fatalf("expected completed with update stamp, got %+v", task)
	}
	task.SetCompleted(false, now.Add(time.Minute))
	if task.Completed {
		t.Fatalf("completion should be reversible")
	}
}

func TestTaskIsUnscheduled(t *testing.T) {
	due := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		task Task
		want bool
	}{
		{"open without date", Task{}, true},
		{"open with date", Task{DueDate: &due}, false},
		{"completed without date", Task{Completed: true}, false},
		{"flagged without date", Task{Flagged: true}, true},
	}

	for _, tc := range cases {
		if got := tc.task.IsUnscheduled(); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
		if tc.task.IsUnscheduled() && tc.task.IsScheduled() {
			t.Errorf("%s: a task cannot be both scheduled and unscheduled", tc.name)
		}
	}
}

func TestGatewayError_WrapsAndUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewGatewayError("list tasks", cause)

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *GatewayError, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("underlying error lost")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("message not preserved: %q", err.Error())
	}

	if NewGatewayError("x", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
	wrapped := fmt.Errorf("get task: %w", ErrTaskNotFound)
	if got := NewGatewayError("get task", wrapped); got != wrapped {
		t.Fatalf("sentinel errors must pass through, got %v", got)
	}
}
