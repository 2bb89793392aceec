package uistore

import (
	"context"
	"log/slog"
	"sync"

	"github.com/idilsaglam/taskhub/internal/errors"
	"github.com/idilsaglam/taskhub/internal/logging"
	"github.com/idilsaglam/taskhub/internal/model"
)

// TaskAPI is the backend of Tasks: *client.Client or *mockapi.Tasks.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	AddTask(ctx context.Context, title string) (model.Task, error)
	ToggleTask(ctx context.Context, id int64) (model.Task, error)
	RemoveTask(ctx context.Context, id int64) error
}

// TaskUpdater is implemented by backends that can replace a task.
// *client.Client does; the mock API does not.
type TaskUpdater interface {
	UpdateTask(ctx context.Context, id int64, title string, done bool) (model.Task, error)
}

const msgNoUpdate = "this backend cannot change tasks"

// Tasks mirrors the remote task list. It starts empty; call Refresh.
type Tasks struct {
	api TaskAPI
	log *slog.Logger

	mu      sync.Mutex
	tasks   []model.Task
	loading bool
	err     string
}

func NewTasks(api TaskAPI) *Tasks {
	return &Tasks{api: api, tasks: []model.Task{}, log: logging.Logger()}
}

func (s *Tasks) State() TaskState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TaskState{Tasks: model.CloneTasks(s.tasks), Loading: s.loading, Error: s.err}
}

func (s *Tasks) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.OpenCount(s.tasks)
}

// run wraps call in the loading/error machine. apply runs under the lock
// only when call succeeded.
func (s *Tasks) run(op string, call func() error, apply func()) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	err := call()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = messageOf(err)
		s.log.Debug("task action failed", logging.KeyOp, op, logging.KeyError, s.err)
	} else {
		apply()
	}
	s.loading = false
	return err
}

func (s *Tasks) Refresh(ctx context.Context) error {
	var fresh []model.Task
	return s.run("refresh", func() (err error) {
		fresh, err = s.api.ListTasks(ctx)
		return err
	}, func() {
		s.tasks = model.CloneTasks(fresh)
	})
}

func (s *Tasks) Add(ctx context.Context, title string) error {
	var created model.Task
	return s.run("add", func() (err error) {
		created, err = s.api.AddTask(ctx, title)
		return err
	}, func() {
		s.tasks = append([]model.Task{created}, s.tasks...)
	})
}

func (s *Tasks) Toggle(ctx context.Context, id int64) error {
	var updated model.Task
	return s.run("toggle", func() (err error) {
		updated, err = s.api.ToggleTask(ctx, id)
		return err
	}, func() {
		for i := range s.tasks {
			if s.tasks[i].ID == id {
				s.tasks[i] = updated
				return
			}
		}
	})
}

func (s *Tasks) Remove(ctx context.Context, id int64) error {
	return s.run("remove", func() error {
		return s.api.RemoveTask(ctx, id)
	}, func() {
		kept := make([]model.Task, 0, len(s.tasks))
		for _, t := range s.tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		s.tasks = kept
	})
}

// Rename changes the title of task id and keeps its done flag. It needs a
// backend that implements TaskUpdater.
func (s *Tasks) Rename(ctx context.Context, id int64, title string) error {
	s.mu.Lock()
	var (
		current model.Task
		found   bool
	)
	for _, t := range s.tasks {
		if t.ID == id {
			current, found = t, true
			break
		}
	}
	s.mu.Unlock()

	var updated model.Task
	return s.run("rename", func() (err error) {
		up, ok := s.api.(TaskUpdater)
		switch {
		case !ok:
			return errors.Invalid(msgNoUpdate)
		case !found:
			return errors.NotFound("task not found")
		}
		updated, err = up.UpdateTask(ctx, id, title, current.Done)
		return err
	}, func() {
		for i := range s.tasks {
			if s.tasks[i].ID == id {
				s.tasks[i] = updated
				return
			}
		}
	})
}
