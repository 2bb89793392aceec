// Package mockapi is an in-memory stand-in for the task API.
// It has the same method set as client.Client's task calls, waits a little
// on every call, and never hands out memory it keeps.
package mockapi

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/idilsaglam/taskhub/internal/errors"
	"github.com/idilsaglam/taskhub/internal/model"
)

// DefaultDelay is the artificial latency of every call.
const DefaultDelay = 300 * time.Millisecond

type Tasks struct {
	mu    sync.Mutex
	db    []model.Task
	ids   *model.IDGenerator
	delay time.Duration
}

// Option configures Tasks.
type Option func(*Tasks)

// WithDelay overrides DefaultDelay. Zero disables the wait.
func WithDelay(d time.Duration) Option {
	return func(t *Tasks) { t.delay = d }
}

// WithIDs replaces the id generator.
func WithIDs(g *model.IDGenerator) Option {
	return func(t *Tasks) { t.ids = g }
}

// WithTasks replaces the seed.
func WithTasks(tasks ...model.Task) Option {
	return func(t *Tasks) { t.db = model.CloneTasks(tasks) }
}

func New(opts ...Option) *Tasks {
	t := &Tasks{
		db: []model.Task{
			{ID: 1, Title: "Mock API: Start", Done: true},
			{ID: 2, Title: "API-Schicht einführen", Done: false},
		},
		ids:   model.NewIDGenerator(),
		delay: DefaultDelay,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Tasks) wait(ctx context.Context) error {
	if t.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(t.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (t *Tasks) ListTasks(ctx context.Context) ([]model.Task, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return model.CloneTasks(t.db), nil
}

func (t *Tasks) AddTask(ctx context.Context, title string) (model.Task, error) {
	if err := t.wait(ctx); err != nil {
		return model.Task{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, errors.Invalid("title must not be empty")
	}
	task := model.Task{ID: t.ids.Next(), Title: title}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.db = append([]model.Task{task}, t.db...)
	return task, nil
}

func (t *Tasks) ToggleTask(ctx context.Context, id int64) (model.Task, error) {
	if err := t.wait(ctx); err != nil {
		return model.Task{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.db {
		if t.db[i].ID == id {
			t.db[i].Done = !t.db[i].Done
			return t.db[i], nil
		}
	}
	return model.Task{}, errors.NotFound("task not found")
}

func (t *Tasks) RemoveTask(ctx context.Context, id int64) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.db[:0:0]
	for _, task := range t.db {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	if len(kept) == len(t.db) {
		return errors.NotFound("task not found")
	}
	t.db = kept
	return nil
}
