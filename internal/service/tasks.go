// Package service holds the task and person services that sit between the
// HTTP layer and the record stores: validation, seed data and id assignment.
package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/idilsaglam/taskhub/internal/errors"
	"github.com/idilsaglam/taskhub/internal/logging"
	"github.com/idilsaglam/taskhub/internal/model"
	"github.com/idilsaglam/taskhub/internal/store"
)

const (
	msgEmptyTitle   = "title must not be empty"
	msgTaskNotFound = "task not found"
	msgTaskExists   = "task already exists"
)

// DefaultTasks is the seed of a fresh task store.
func DefaultTasks() []model.Task {
	return []model.Task{
		{ID: 1, Title: "Backend läuft", Done: true},
		{ID: 2, Title: "GET /api/tasks", Done: false},
		{ID: 3, Title: "YEPP POST/DELETE/TOGGLE implementieren", Done: false},
	}
}

// Tasks is the task service.
type Tasks struct {
	store store.Store[int64, model.Task]
	ids   *model.IDGenerator
	log   *slog.Logger

	// toggleMu serializes the read-modify-write of Toggle within this process.
	toggleMu sync.Mutex
}

// TaskOption configures Tasks.
type TaskOption func(*Tasks)

// WithTaskIDs replaces the id generator.
func WithTaskIDs(g *model.IDGenerator) TaskOption {
	return func(t *Tasks) { t.ids = g }
}

// WithTaskLogger sets the logger.
func WithTaskLogger(l *slog.Logger) TaskOption {
	return func(t *Tasks) { t.log = l }
}

// NewTasks wraps st and seeds it with DefaultTasks when it is empty.
func NewTasks(ctx context.Context, st store.Store[int64, model.Task], opts ...TaskOption) (*Tasks, error) {
	t := &Tasks{store: st, ids: model.NewIDGenerator(), log: logging.Logger()}
	for _, o := range opts {
		o(t)
	}
	all, err := st.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load tasks")
	}
	if len(all) == 0 {
		for _, task := range DefaultTasks() {
			if _, err := st.Insert(ctx, task); err != nil {
				return nil, errors.Wrap(err, "seed tasks")
			}
		}
	}
	for _, task := range all {
		t.ids.Observe(task.ID)
	}
	return t, nil
}

// List returns all tasks, newest (highest id) first.
func (t *Tasks) List(ctx context.Context) ([]model.Task, error) {
	all, err := t.store.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list tasks")
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return all, nil
}

func (t *Tasks) Get(ctx context.Context, id int64) (model.Task, error) {
	task, ok, err := t.store.FindByID(ctx, id)
	if err != nil {
		return model.Task{}, errors.Wrap(err, "get task")
	}
	if !ok {
		return model.Task{}, errors.NotFound(msgTaskNotFound)
	}
	return task, nil
}

// Create stores a new open task with a fresh id. The title is trimmed and must not be empty.
func (t *Tasks) Create(ctx context.Context, title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, errors.Invalid(msgEmptyTitle)
	}
	task := model.Task{ID: t.ids.Next(), Title: title}
	ok, err := t.store.Insert(ctx, task)
	if err != nil {
		return model.Task{}, errors.Wrap(err, "create task")
	}
	if !ok {
		return model.Task{}, errors.Conflict(msgTaskExists)
	}
	t.log.DebugContext(ctx, "task created", logging.KeyTask, task.ID)
	return task, nil
}

// Toggle flips the done flag of task id.
func (t *Tasks) Toggle(ctx context.Context, id int64) (model.Task, error) {
	t.toggleMu.Lock()
	defer t.toggleMu.Unlock()
	task, err := t.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	task.Done = !task.Done
	return t.replace(ctx, task)
}

// Update replaces title and done of task id.
func (t *Tasks) Update(ctx context.Context, id int64, title string, done bool) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, errors.Invalid(msgEmptyTitle)
	}
	return t.replace(ctx, model.Task{ID: id, Title: title, Done: done})
}

func (t *Tasks) replace(ctx context.Context, task model.Task) (model.Task, error) {
	ok, err := t.store.Update(ctx, task)
	if err != nil {
		return model.Task{}, errors.Wrap(err, "update task")
	}
	if !ok {
		return model.Task{}, errors.NotFound(msgTaskNotFound)
	}
	t.log.DebugContext(ctx, "task updated", logging.KeyTask, task.ID, "done", task.Done)
	return task, nil
}

func (t *Tasks) Delete(ctx context.Context, id int64) error {
	ok, err := t.store.Delete(ctx, id)
	if err != nil {
		return errors.Wrap(err, "delete task")
	}
	if !ok {
		return errors.NotFound(msgTaskNotFound)
	}
	t.log.DebugContext(ctx, "task deleted", logging.KeyTask, id)
	return nil
}
