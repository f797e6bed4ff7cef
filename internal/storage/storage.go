// Package storage persists the ordered task list as a JSON document.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/felixgeelhaar/tasks/internal/errors"
	"github.com/felixgeelhaar/tasks/internal/log"
	"github.com/felixgeelhaar/tasks/internal/task"
)

// DefaultLockTimeout is the maximum duration to wait for the store lock.
const DefaultLockTimeout = 5 * time.Second

const (
	lockRetryDelay = 50 * time.Millisecond
	dirPerm        = 0o755
	filePerm       = 0o644
)

// MutateFunc receives the loaded tasks and returns the sequence to persist.
// Returning an error aborts the transaction without writing.
type MutateFunc func(tasks []task.Task) ([]task.Task, error)

// Option configures a FileStore.
type Option func(*FileStore)

// WithLockTimeout bounds how long Update waits for the lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *FileStore) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// FileStore stores tasks in a single JSON file.
//
// Writes go to a temp file in the same directory which is then renamed over
// the backing file, so readers never observe a partial document. Update
// serializes writers across processes with an exclusive lock on <path>.lock.
type FileStore struct {
	path        string
	lockTimeout time.Duration
	logger      *log.Logger
}

// NewFileStore creates a store backed by the file at path.
// The file is not touched until the first save.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:        path,
		lockTimeout: DefaultLockTimeout,
		logger:      log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// LockPath returns the path of the advisory lock file.
func (s *FileStore) LockPath() string {
	return s.path + ".lock"
}

// Load returns all tasks in file order. A missing or empty file yields an
// empty list.
func (s *FileStore) Load(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			s.logger.DebugContext(ctx, "task file not found, starting empty", "path", s.path)
			return []task.Task{}, nil
		}
		return nil, errors.NewFileReadError(s.path, err)
	}

	tasks, err := Decode(data)
	if err != nil {
		return nil, errors.NewStoreCorruptError(s.path, err)
	}

	s.logger.DebugContext(ctx, "task file loaded", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// Save replaces the backing file with tasks.
func (s *FileStore) Save(ctx context.Context, tasks []task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(tasks)
	if err != nil {
		return errors.NewFileWriteError(s.path, err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return errors.NewFileWriteError(s.path, err)
	}

	s.logger.DebugContext(ctx, "task file saved", "path", s.path, "count", len(tasks))
	return nil
}

// Update runs one load-mutate-save transaction under the store lock.
// The file is written only when fn succeeds.
func (s *FileStore) Update(ctx context.Context, fn MutateFunc) (err error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := unlock(); uerr != nil {
			s.logger.WarnContext(ctx, "failed to release task file lock", "path", s.LockPath(), "error", uerr)
		}
	}()

	tasks, err := s.Load(ctx)
	if err != nil {
		return err
	}

	updated, err := fn(tasks)
	if err != nil {
		return err
	}

	return s.Save(ctx, updated)
}

func (s *FileStore) lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return nil, errors.NewFileWriteError(s.path, err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	fl := flock.New(s.LockPath())
	locked, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewStoreLockedError(s.path, err)
	}
	if !locked {
		return nil, errors.NewStoreLockedError(s.path, fmt.Errorf("lock not acquired within %s", s.lockTimeout))
	}

	return fl.Unlock, nil
}

// Encode serializes tasks in the on-disk format: a 4-space indented JSON
// array with no trailing newline. A nil slice encodes as []. Tasks that
// Decode would reject, such as titles that are not valid UTF-8, are refused
// rather than written lossily.
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tasks); err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// record mirrors task.Task with pointer fields so absent keys can be detected.
type record struct {
	Title     *string `json:"title"`
	Priority  *string `json:"priority"`
	Completed *bool   `json:"completed"`
}

// Decode parses the on-disk format. Blank input is an empty list. Anything
// that does not describe a complete list of valid tasks is an error: no
// defaults are filled in.
func Decode(data []byte) ([]task.Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []task.Task{}, nil
	}
	if data[0] != '[' {
		return nil, stderrors.New("expected a JSON array of tasks")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, stderrors.New("unexpected data after task list")
	}

	tasks := make([]task.Task, 0, len(records))
	for i, r := range records {
		t, err := r.toTask()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r record) toTask() (task.Task, error) {
	switch {
	case r.Title == nil:
		return task.Task{}, stderrors.New(`missing field "title"`)
	case r.Priority == nil:
		return task.Task{}, stderrors.New(`missing field "priority"`)
	case r.Completed == nil:
		return task.Task{}, stderrors.New(`missing field "completed"`)
	}

	t := task.Task{
		Title:     *r.Title,
		Priority:  task.Priority(*r.Priority),
		Completed: *r.Completed,
	}
	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// writeAtomic writes data using the temp file + fsync + rename pattern.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	success = true
	return nil
}
