// Package task defines the task record and its priority levels.
package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Priority represents task priority levels.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ErrInvalidPriority is returned by ParsePriority for values outside the enum.
var ErrInvalidPriority = errors.New("must be low, medium, or high")

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (p Priority) String() string {
	return string(p)
}

// ParsePriority converts a string to a Priority. Matching ignores case and
// surrounding whitespace.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q: %w", s, ErrInvalidPriority)
	}
	return p, nil
}

// Task represents a single task item. It has no identifier: a task is
// addressed by its 1-based position in the store.
type Task struct {
	Title     string   `json:"title" yaml:"title"`
	Priority  Priority `json:"priority" yaml:"priority"`
	Completed bool     `json:"completed" yaml:"completed"`
}

// New creates a pending task.
func New(title string, priority Priority) Task {
	return Task{
		Title:    title,
		Priority: priority,
	}
}

// Validate checks if the task has valid data.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("title is required")
	}
	if !utf8.ValidString(t.Title) {
		return errors.New("title is not valid UTF-8")
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("invalid priority %q: %w", t.Priority, ErrInvalidPriority)
	}
	return nil
}

// Complete marks the task as completed. Completing a completed task is a no-op.
func (t *Task) Complete() {
	t.Completed = true
}

// Marker returns the completion marker shown in listings.
func (t Task) Marker() string {
	if t.Completed {
		return "✅"
	}
	return "❌"
}
