// Package uistore holds client-side state for the presentation layer: a
// list of records plus a loading flag and the last error message. Every
// action follows the same machine: set loading and clear the error, call
// the backend, reconcile the list on success or keep the message on
// failure, clear loading.
//
// The mutex only protects memory. Two actions in flight at once still race
// on the list and flags; the last one to finish wins.
package uistore

import (
	"context"

	"github.com/idilsaglam/taskhub/internal/errors"
	"github.com/idilsaglam/taskhub/internal/model"
)

// UnknownError is shown when a failure carries no message at all.
const UnknownError = "unknown error"

// TaskState is a snapshot of a task list store.
type TaskState struct {
	Tasks   []model.Task
	Loading bool
	Error   string
}

// OpenCount counts tasks that are not done.
func (s TaskState) OpenCount() int { return model.OpenCount(s.Tasks) }

// TaskList is what the CLI and the TUI drive. Both the remote and the
// local task store satisfy it.
type TaskList interface {
	Refresh(ctx context.Context) error
	Add(ctx context.Context, title string) error
	Toggle(ctx context.Context, id int64) error
	Remove(ctx context.Context, id int64) error
	State() TaskState
}

// Renamer is a TaskList that can change a task's title.
type Renamer interface {
	Rename(ctx context.Context, id int64, title string) error
}

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	if m := errors.Message(err); m != "" {
		return m
	}
	return UnknownError
}
