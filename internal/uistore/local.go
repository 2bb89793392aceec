package uistore

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/idilsaglam/taskhub/internal/errors"
	"github.com/idilsaglam/taskhub/internal/kv"
	"github.com/idilsaglam/taskhub/internal/logging"
	"github.com/idilsaglam/taskhub/internal/model"
)

// LocalKey is the storage key of the local task list.
const LocalKey = "tasks-v1"

// DefaultLocalTasks is the list a fresh install starts with.
func DefaultLocalTasks() []model.Task {
	return []model.Task{
		{ID: 1, Title: "Pinia installieren", Done: true},
		{ID: 2, Title: "Store anlegen", Done: true},
		{ID: 3, Title: "Persistenz aktivieren", Done: false},
	}
}

// LocalTasks is a task list with no backend. The whole list is written to
// storage after every change. A change that cannot be written is rolled back
// and its error returned.
type LocalTasks struct {
	storage kv.Storage
	ids     *model.IDGenerator
	log     *slog.Logger

	mu    sync.Mutex
	tasks []model.Task
}

// NewLocalTasks loads the stored list. A storage read failure is returned,
// never replaced by the defaults.
func NewLocalTasks(ctx context.Context, st kv.Storage) (*LocalTasks, error) {
	s := &LocalTasks{storage: st, ids: model.NewIDGenerator(), log: logging.Logger()}
	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.tasks = tasks
	s.observe()
	return s, nil
}

// load returns the stored list, or the defaults when nothing usable is stored.
func (s *LocalTasks) load(ctx context.Context) ([]model.Task, error) {
	raw, ok, err := s.storage.GetItem(ctx, LocalKey)
	if err != nil {
		s.log.Warn("load local tasks", logging.KeyError, err)
		return nil, errors.Wrap(err, "load local tasks")
	}
	if !ok || raw == "" {
		return DefaultLocalTasks(), nil
	}
	tasks, ok := ParseStoredTasks(raw)
	if !ok {
		return DefaultLocalTasks(), nil
	}
	return tasks, nil
}

func (s *LocalTasks) observe() {
	for _, t := range s.tasks {
		s.ids.Observe(t.ID)
	}
}

// ParseStoredTasks validates a stored list. It fails only when raw is not a
// JSON array; entries without a numeric id or a string title are dropped and
// done is read the way JavaScript's Boolean() reads a value.
func ParseStoredTasks(raw string) ([]model.Task, bool) {
	var entries []any
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false
	}
	if entries == nil {
		// "null"
		return nil, false
	}
	tasks := make([]model.Task, 0, len(entries))
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		id, ok := obj["id"].(float64)
		if !ok || id != float64(int64(id)) {
			continue
		}
		title, ok := obj["title"].(string)
		if !ok {
			continue
		}
		tasks = append(tasks, model.Task{ID: int64(id), Title: title, Done: truthy(obj["done"])})
	}
	return tasks, true
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// commit stores next and makes it the current list. On a write failure the
// current list is left untouched. Must be called with mu held.
func (s *LocalTasks) commit(ctx context.Context, next []model.Task) error {
	b, err := json.Marshal(next)
	if err == nil {
		err = s.storage.SetItem(ctx, LocalKey, string(b))
	}
	if err != nil {
		s.log.Warn("save local tasks", logging.KeyError, err)
		return errors.Wrap(err, "save local tasks")
	}
	s.tasks = next
	return nil
}

func (s *LocalTasks) State() TaskState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TaskState{Tasks: model.CloneTasks(s.tasks)}
}

func (s *LocalTasks) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.OpenCount(s.tasks)
}

// Refresh reloads the list from storage. On a read failure the current list
// is kept.
func (s *LocalTasks) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.tasks = tasks
	s.observe()
	return nil
}

// Add prepends a task. Blank titles are ignored.
func (s *LocalTasks) Add(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := model.Task{ID: s.ids.Next(), Title: title}
	return s.commit(ctx, append([]model.Task{t}, s.tasks...))
}

// Toggle flips done on the task with id. Unknown ids are a no-op.
func (s *LocalTasks) Toggle(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			next := model.CloneTasks(s.tasks)
			next[i].Done = !next[i].Done
			return s.commit(ctx, next)
		}
	}
	return nil
}

// Rename sets the title of task id. Blank titles and unknown ids are a no-op.
func (s *LocalTasks) Rename(ctx context.Context, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			next := model.CloneTasks(s.tasks)
			next[i].Title = title
			return s.commit(ctx, next)
		}
	}
	return nil
}

func (s *LocalTasks) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.commit(ctx, kept)
}

func (s *LocalTasks) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []model.Task{})
}
