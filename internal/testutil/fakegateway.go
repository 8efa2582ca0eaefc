// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

// FakeGateway is an in-memory persistence layer for testing. It backs the
// user, list and task repositories with one shared store.
type FakeGateway struct {
	mu    sync.RWMutex
	users map[string]entities.User
	lists []entities.List
	tasks []entities.Task
	seq   int
	clock time.Time
	calls int

	// Error injection for testing
	CreateUserErr   error
	GetUserErr      error
	UpdateUserErr   error
	CreateListErr   error
	GetListErr      error
	ListListsErr    error
	CreateTaskErr   error
	GetTaskErr      error
	UpdateTaskErr   error
	ListTasksErr    error
	ListTasksErrFor map[string]error // listID -> error
}

// NewFakeGateway creates an empty FakeGateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		users:           make(map[string]entities.User),
		clock:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ListTasksErrFor: make(map[string]error),
	}
}

// Users returns the user repository view.
func (f *FakeGateway) Users() ports.UserRepository { return fakeUsers{f} }

// Lists returns the list repository view.
func (f *FakeGateway) Lists() ports.ListRepository { return fakeLists{f} }

// Tasks returns the task repository view.
func (f *FakeGateway) Tasks() ports.TaskRepository { return fakeTasks{f} }

// Calls returns how many repository calls have been made.
func (f *FakeGateway) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls
}

// AddList stores a list directly and returns it.
func (f *FakeGateway) AddList(userID, name string) entities.List {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := entities.List{ID: f.nextID("list"), UserID: userID, Name: name, CreatedAt: f.tick()}
	f.lists = append(f.lists, l)
	return l
}

// AddTask stores a task directly, filling ID and CreatedAt when unset.
func (f *FakeGateway) AddTask(task entities.Task) entities.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.ID == "" {
		task.ID = f.nextID("task")
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = f.tick()
	}
	f.tasks = append(f.tasks, task)
	return task
}

// AllTasks returns a copy of every stored task.
func (f *FakeGateway) AllTasks() []entities.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]entities.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// User returns the stored user with the given ID.
func (f *FakeGateway) User(id string) (entities.User, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[id]
	return u, ok
}

// caller must hold f.mu
func (f *FakeGateway) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

// caller must hold f.mu
func (f *FakeGateway) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *FakeGateway) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

type fakeUsers struct{ f *FakeGateway }

func (r fakeUsers) Create(ctx context.Context, user *entities.User) error {
	r.f.count()
	if r.f.CreateUserErr != nil {
		return r.f.CreateUserErr
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, exists := r.f.users[user.ID]; exists {
		return fmt.Errorf("duplicate user id %q", user.ID)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.f.tick()
	}
	r.f.users[user.ID] = *user
	return nil
}

func (r fakeUsers) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.f.count()
	if r.f.GetUserErr != nil {
		return nil, r.f.GetUserErr
	}
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()
	u, ok := r.f.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return &u, nil
}

func (r fakeUsers) Update(ctx context.Context, user *entities.User) error {
	r.f.count()
	if r.f.UpdateUserErr != nil {
		return r.f.UpdateUserErr
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.users[user.ID]; !ok {
		return entities.ErrUserNotFound
	}
	r.f.users[user.ID] = *user
	return nil
}

type fakeLists struct{ f *FakeGateway }

func (r fakeLists) Create(ctx context.Context, list *entities.List) error {
	r.f.count()
	if r.f.CreateListErr != nil {
		return r.f.CreateListErr
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if list.ID == "" {
		list.ID = r.f.nextID("list")
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = r.f.tick()
	}
	r.f.lists = append(r.f.lists, *list)
	return nil
}

func (r fakeLists) GetByID(ctx context.Context, userID, id string) (*entities.List, error) {
	r.f.count()
	if r.f.GetListErr != nil {
		return nil, r.f.GetListErr
	}
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()
	for _, l := range r.f.lists {
		if l.ID == id && l.UserID == userID {
			l := l
			return &l, nil
		}
	}
	return nil, entities.ErrListNotFound
}

func (r fakeLists) ListByUser(ctx context.Context, userID string) ([]entities.List, error) {
	r.f.count()
	if r.f.ListListsErr != nil {
		return nil, r.f.ListListsErr
	}
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()
	out := []entities.List{}
	for _, l := range r.f.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeTasks struct{ f *FakeGateway }

func (r fakeTasks) Create(ctx context.Context, task *entities.Task) error {
	r.f.count()
	if r.f.CreateTaskErr != nil {
		return r.f.CreateTaskErr
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if task.ID == "" {
		task.ID = r.f.nextID("task")
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = r.f.tick()
	}
	r.f.tasks = append(r.f.tasks, *task)
	return nil
}

func (r fakeTasks) GetByID(ctx context.Context, userID, id string) (*entities.Task, error) {
	r.f.count()
	if r.f.GetTaskErr != nil {
		return nil, r.f.GetTaskErr
	}
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()
	for _, t := range r.f.tasks {
		if t.ID == id && t.UserID == userID {
			t := t
			return &t, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (r fakeTasks) UpdateCompletion(ctx context.Context, userID, id string, completed bool, at time.Time) error {
	return r.update(userID, id, func(t *entities.Task) { t.SetCompleted(completed, at) })
}

func (r fakeTasks) UpdateFlag(ctx context.Context, userID, id string, flagged bool, at time.Time) error {
	return r.update(userID, id, func(t *entities.Task) { t.SetFlagged(flagged, at) })
}

// update applies fn to the stored task under the write lock, touching only
// what fn touches.
func (r fakeTasks) update(userID, id string, fn func(*entities.Task)) error {
	r.f.count()
	if r.f.UpdateTaskErr != nil {
		return r.f.UpdateTaskErr
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := range r.f.tasks {
		if r.f.tasks[i].ID == id && r.f.tasks[i].UserID == userID {
			fn(&r.f.tasks[i])
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

func (r fakeTasks) List(ctx context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	r.f.count()
	if r.f.ListTasksErr != nil {
		return nil, r.f.ListTasksErr
	}
	if filter.ListID != nil {
		r.f.mu.RLock()
		err := r.f.ListTasksErrFor[*filter.ListID]
		r.f.mu.RUnlock()
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.f.mu.RLock()
	defer r.f.mu.RUnlock()
	out := []entities.Task{}
	for _, t := range r.f.tasks {
		if matchesFilter(t, filter) {
			out = append(out, t)
		}
	}
	entities.SortTasks(out)
	return out, nil
}

func matchesFilter(t entities.Task, filter ports.TaskFilter) bool {
	if t.UserID != filter.UserID {
		return false
	}
	if filter.ListID != nil && t.ListID != *filter.ListID {
		return false
	}
	if filter.Completed != nil && t.Completed != *filter.Completed {
		return false
	}
	if filter.Flagged != nil && t.Flagged != *filter.Flagged {
		return false
	}
	if filter.DueFrom != nil && (t.DueDate == nil || t.DueDate.Before(*filter.DueFrom)) {
		return false
	}
	if filter.DueBefore != nil && (t.DueDate == nil || !t.DueDate.Before(*filter.DueBefore)) {
		return false
	}
	return true
}
