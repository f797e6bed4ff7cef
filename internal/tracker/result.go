package tracker

import "github.com/felixgeelhaar/tasks/internal/task"

// Kind identifies which successful outcome a Result describes.
type Kind int

const (
	KindAdded Kind = iota + 1
	KindListed
	KindEmpty
	KindCompleted
	KindDeleted
)

func (k Kind) String() string {
	switch k {
	case KindAdded:
		return "added"
	case KindListed:
		return "listed"
	case KindEmpty:
		return "empty"
	case KindCompleted:
		return "completed"
	case KindDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Entry is a task paired with its 1-based position at the time of the operation.
type Entry struct {
	Position  int `json:"position" yaml:"position"`
	task.Task `yaml:",inline"`
}

// Result is the successful outcome of an operation. Failures are returned as
// errors carrying an errors.ErrorCode instead.
type Result struct {
	Kind Kind
	// Entries holds the listed tasks for KindListed, and the single affected
	// task for KindAdded, KindCompleted and KindDeleted.
	Entries []Entry
	// Position is the affected position for single-task outcomes.
	Position int
}

// Task returns the single affected task, if any.
func (r Result) Task() (task.Task, bool) {
	if r.Kind == KindListed || len(r.Entries) != 1 {
		return task.Task{}, false
	}
	return r.Entries[0].Task, true
}
