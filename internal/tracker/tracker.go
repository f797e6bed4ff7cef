// Package tracker implements the task operations: add, list, complete and
// delete. Each one is a single load-mutate-save transaction against a Store
// and reports its outcome as a Result or a coded error.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/felixgeelhaar/tasks/internal/errors"
	"github.com/felixgeelhaar/tasks/internal/log"
	"github.com/felixgeelhaar/tasks/internal/storage"
	"github.com/felixgeelhaar/tasks/internal/task"
)

// Store is the persistence the tracker needs.
type Store interface {
	Load(ctx context.Context) ([]task.Task, error)
	Update(ctx context.Context, fn storage.MutateFunc) error
}

// Tracker runs task operations against a Store.
type Tracker struct {
	store  Store
	logger *log.Logger
}

// New creates a Tracker. A nil logger discards diagnostics.
func New(store Store, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.Discard()
	}
	return &Tracker{store: store, logger: logger}
}

// Add appends a new pending task. Identical titles are never merged.
func (t *Tracker) Add(ctx context.Context, title string, priority task.Priority) (Result, error) {
	if strings.TrimSpace(title) == "" {
		return Result{}, errors.NewUsageError("title is required")
	}
	if !utf8.ValidString(title) {
		return Result{}, errors.NewUsageError("title is not valid UTF-8")
	}
	if !priority.Valid() {
		return Result{}, errors.NewUsageError(fmt.Sprintf("invalid priority %q: must be low, medium, or high", priority))
	}

	added := task.New(title, priority)
	var position int
	err := t.store.Update(ctx, func(tasks []task.Task) ([]task.Task, error) {
		tasks = append(tasks, added)
		position = len(tasks)
		return tasks, nil
	})
	if err != nil {
		return Result{}, err
	}

	t.logger.InfoContext(ctx, "task added", "position", position, "priority", string(priority))
	return Result{
		Kind:     KindAdded,
		Entries:  []Entry{{Position: position, Task: added}},
		Position: position,
	}, nil
}

// List returns every task with its position. It never writes.
func (t *Tracker) List(ctx context.Context) (Result, error) {
	tasks, err := t.store.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(tasks) == 0 {
		return Result{Kind: KindEmpty}, nil
	}

	entries := make([]Entry, len(tasks))
	for i, tk := range tasks {
		entries[i] = Entry{Position: i + 1, Task: tk}
	}
	return Result{Kind: KindListed, Entries: entries}, nil
}

// Complete marks the task at the 1-based position as completed. Completing a
// completed task still saves. Out-of-range positions leave the store untouched.
func (t *Tracker) Complete(ctx context.Context, position int) (Result, error) {
	var completed task.Task
	err := t.store.Update(ctx, func(tasks []task.Task) ([]task.Task, error) {
		if err := checkPosition(position, len(tasks)); err != nil {
			return nil, err
		}
		tasks[position-1].Complete()
		completed = tasks[position-1]
		return tasks, nil
	})
	if err != nil {
		return Result{}, err
	}

	t.logger.InfoContext(ctx, "task completed", "position", position)
	return Result{
		Kind:     KindCompleted,
		Entries:  []Entry{{Position: position, Task: completed}},
		Position: position,
	}, nil
}

// Delete removes the task at the 1-based position. Later tasks move up one
// position. Out-of-range positions leave the store untouched.
func (t *Tracker) Delete(ctx context.Context, position int) (Result, error) {
	var removed task.Task
	err := t.store.Update(ctx, func(tasks []task.Task) ([]task.Task, error) {
		if err := checkPosition(position, len(tasks)); err != nil {
			return nil, err
		}
		removed = tasks[position-1]
		return append(tasks[:position-1], tasks[position:]...), nil
	})
	if err != nil {
		return Result{}, err
	}

	t.logger.InfoContext(ctx, "task deleted", "position", position)
	return Result{
		Kind:     KindDeleted,
		Entries:  []Entry{{Position: position, Task: removed}},
		Position: position,
	}, nil
}

func checkPosition(position, length int) error {
	if position < 1 || position > length {
		return errors.NewInvalidPositionError(position, length)
	}
	return nil
}
