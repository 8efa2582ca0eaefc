package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/config"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/database"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "remindify.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.MigrateUp(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUserAndList(t *testing.T, db *database.DB) (*entities.User, *entities.List) {
	t.Helper()
	ctx := context.Background()

	user := &entities.User{
		ID:    entities.UserIDFromEmail("ada@example.com"),
		Email: "ada@example.com",
		Name:  "Ada",
	}
	if err := NewUserRepository(db.DB).Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	list := &entities.List{UserID: user.ID, Name: "Groceries"}
	if err := NewListRepository(db.DB).Create(ctx, list); err != nil {
		t.Fatalf("create list: %v", err)
	}
	return user, list
}

func TestUserRepository_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.DB)
	ctx := context.Background()

	user := &entities.User{ID: "u1", Email: "u1@example.com", Name: "U One"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "u1@example.com" || got.ProfileImage != nil || got.LastLoginAt != nil {
		t.Fatalf("unexpected user: %+v", got)
	}

	image := "https://example.com/u1.png"
	login := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	got.MergeLogin("u1@example.com", "Renamed", &image, login)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	again, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if again.Name != "Renamed" || again.ProfileImage == nil || *again.ProfileImage != image {
		t.Fatalf("update not persisted: %+v", again)
	}
	if again.LastLoginAt == nil || !again.LastLoginAt.Equal(login) {
		t.Fatalf("last login = %v, want %v", again.LastLoginAt, login)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, entities.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := repo.Update(ctx, &entities.User{ID: "missing"}); !errors.Is(err, entities.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on update, got %v", err)
	}
}

func TestListRepository_ScopedToUser(t *testing.T) {
	db := newTestDB(t)
	user, list := seedUserAndList(t, db)
	repo := NewListRepository(db.DB)
	ctx := context.Background()

	if list.ID == "" {
		t.Fatal("expected generated list id")
	}

	got, err := repo.GetByID(ctx, user.ID, list.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Groceries" {
		t.Fatalf("name = %q", got.Name)
	}

	if _, err := repo.GetByID(ctx, "someone-else", list.ID); !errors.Is(err, entities.ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound for foreign user, got %v", err)
	}

	second := &entities.List{UserID: user.ID, Name: "Work", CreatedAt: list.CreatedAt.Add(time.Second)}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	lists, err := repo.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lists) != 2 || lists[0].ID != list.ID || lists[1].ID != second.ID {
		t.Fatalf("unexpected lists: %+v", lists)
	}

	empty, err := repo.ListByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("list nobody: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestTaskRepository_Filters(t *testing.T) {
	db := newTestDB(t)
	user, list := seedUserAndList(t, db)
	repo := NewTaskRepository(db.DB)
	ctx := context.Background()

	base := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	due := func(d time.Time) *time.Time { return &d }

	tasks := []*entities.Task{
		{UserID: user.ID, ListID: list.ID, Title: "milk", DueDate: due(base.Add(2 * time.Hour)), CreatedAt: base},
		{UserID: user.ID, ListID: list.ID, Title: "eggs", Completed: true, CreatedAt: base.Add(time.Minute)},
		{UserID: user.ID, ListID: list.ID, Title: "bread", Flagged: true, DueDate: due(base.Add(48 * time.Hour)), CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, task := range tasks {
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.Title, err)
		}
	}

	tests := []struct {
		name   string
		filter ports.TaskFilter
		want   []string
	}{
		{"all", ports.TaskFilter{UserID: user.ID}, []string{"milk", "eggs", "bread"}},
		{"by list incomplete", ports.TaskFilter{UserID: user.ID, ListID: ports.StringPtr(list.ID), Completed: ports.BoolPtr(false)}, []string{"milk", "bread"}},
		{"completed", ports.TaskFilter{UserID: user.ID, Completed: ports.BoolPtr(true)}, []string{"eggs"}},
		{"flagged", ports.TaskFilter{UserID: user.ID, Flagged: ports.BoolPtr(true)}, []string{"bread"}},
		{"due range", ports.TaskFilter{UserID: user.ID, DueFrom: due(base), DueBefore: due(base.Add(24 * time.Hour))}, []string{"milk"}},
		{"other user", ports.TaskFilter{UserID: "someone-else"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tasks, want %d", len(got), len(tt.want))
			}
			for i, title := range tt.want {
				if got[i].Title != title {
					t.Errorf("task %d = %q, want %q", i, got[i].Title, title)
				}
			}
		})
	}
}

func TestTaskRepository_UpdateScopedToUser(t *testing.T) {
	db := newTestDB(t)
	user, list := seedUserAndList(t, db)
	repo := NewTaskRepository(db.DB)
	ctx := context.Background()

	task := &entities.Task{UserID: user.ID, ListID: list.ID, Title: "call mom", Description: "sunday"}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	stored, err := repo.GetByID(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Completed || stored.UpdatedAt != nil || stored.DueDate != nil {
		t.Fatalf("unexpected stored task: %+v", stored)
	}

	if err := repo.UpdateCompletion(ctx, user.ID, task.ID, true, time.Now()); err != nil {
		t.Fatalf("update completion: %v", err)
	}

	again, err := repo.GetByID(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if !again.Completed || again.UpdatedAt == nil {
		t.Fatalf("completion not persisted: %+v", again)
	}
	if again.Flagged || again.Title != "call mom" || again.Description != "sunday" {
		t.Fatalf("completion update touched other columns: %+v", again)
	}

	if err := repo.UpdateCompletion(ctx, "someone-else", task.ID, false, time.Now()); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign completion update, got %v", err)
	}
	if err := repo.UpdateFlag(ctx, "someone-else", task.ID, true, time.Now()); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign flag update, got %v", err)
	}
	if err := repo.UpdateFlag(ctx, user.ID, "missing", true, time.Now()); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for unknown task, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "someone-else", task.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign read, got %v", err)
	}

	final, err := repo.GetByID(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("final get: %v", err)
	}
	if !final.Completed || final.Flagged {
		t.Fatalf("foreign updates changed the task: %+v", final)
	}
}

func TestTaskRepository_ConcurrentFieldUpdates(t *testing.T) {
	db := newTestDB(t)
	user, list := seedUserAndList(t, db)
	repo := NewTaskRepository(db.DB)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		task := &entities.Task{UserID: user.ID, ListID: list.ID, Title: "race"}
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("create: %v", err)
		}

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- repo.UpdateCompletion(ctx, user.ID, task.ID, true, time.Now())
		}()
		go func() {
			defer wg.Done()
			errs <- repo.UpdateFlag(ctx, user.ID, task.ID, true, time.Now())
		}()
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("update: %v", err)
			}
		}

		got, err := repo.GetByID(ctx, user.ID, task.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !got.Completed || !got.Flagged {
			t.Fatalf("iteration %d lost an update: completed=%v flagged=%v", i, got.Completed, got.Flagged)
		}
	}
}
