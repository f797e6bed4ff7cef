package storage

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasks/internal/errors"
	"github.com/felixgeelhaar/tasks/internal/task"
)

func newTestStore(t *testing.T, opts ...Option) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "tasks.json"), opts...)
}

func sampleTasks() []task.Task {
	return []task.Task{
		{Title: "Write report", Priority: task.PriorityHigh},
		{Title: "Review PR", Priority: task.PriorityLow, Completed: true},
		{Title: "Plan <sprint> & retro", Priority: task.PriorityMedium},
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t)

	tasks, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "Load must not create the backing file")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	want := sampleTasks()

	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	first, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, got))
	second, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second), "repeated save must be byte-stable")
}

func TestSaveFormat(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(context.Background(), []task.Task{
		{Title: "Write report", Priority: task.PriorityHigh},
	}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	want := `[
    {
        "title": "Write report",
        "priority": "high",
        "completed": false
    }
]`
	assert.Equal(t, want, string(data))
}

func TestSaveEmptyWritesArray(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(context.Background(), nil))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(context.Background(), sampleTasks()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), sampleTasks()))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tasks.json", entries[0].Name())
}

func TestSaveWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewFileStore(filepath.Join(blocker, "tasks.json"))

	err := store.Save(context.Background(), sampleTasks())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileWriteFailed), "got %v", err)
}

func TestLoadReadFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewFileStore(filepath.Join(blocker, "tasks.json"))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileReadFailed), "got %v", err)
}

func TestLoadCorruptContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "this is not json"},
		{"truncated", `[{"title": "a", "priority": "low"`},
		{"object instead of array", `{"title": "a", "priority": "low", "completed": false}`},
		{"null document", `null`},
		{"trailing data", `[] []`},
		{"missing title", `[{"priority": "low", "completed": false}]`},
		{"missing priority", `[{"title": "a", "completed": false}]`},
		{"missing completed", `[{"title": "a", "priority": "low"}]`},
		{"null element", `[null]`},
		{"unknown field", `[{"title": "a", "priority": "low", "completed": false, "id": 1}]`},
		{"invalid priority", `[{"title": "a", "priority": "urgent", "completed": false}]`},
		{"empty title", `[{"title": "", "priority": "low", "completed": false}]`},
		{"wrong type", `[{"title": "a", "priority": "low", "completed": "no"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.content), 0o644))

			tasks, err := store.Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, tasks)
			assert.True(t, errors.HasCode(err, errors.ErrCodeStoreCorrupt), "got %v", err)
		})
	}
}

func TestLoadBlankFileIsEmpty(t *testing.T) {
	for _, content := range []string{"", "  \n\t"} {
		store := newTestStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

		tasks, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, tasks)
	}
}

func TestLoadAcceptsForeignFormatting(t *testing.T) {
	store := newTestStore(t)
	content := `[{"completed":true,"priority":"medium","title":"compact"}]`
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	tasks, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []task.Task{{Title: "compact", Priority: task.PriorityMedium, Completed: true}}, tasks)
}

func TestLoadCanceledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUpdateSavesResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Update(ctx, func(tasks []task.Task) ([]task.Task, error) {
		assert.Empty(t, tasks)
		return append(tasks, task.New("Write report", task.PriorityHigh)), nil
	})
	require.NoError(t, err)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []task.Task{task.New("Write report", task.PriorityHigh)}, got)
}

func TestUpdateErrorSkipsSave(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleTasks()))

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	sentinel := stderrors.New("abort")
	err = store.Update(ctx, func(tasks []task.Task) ([]task.Task, error) {
		tasks[0].Completed = true
		return tasks, sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateErrorOnMissingFileCreatesNothing(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), func(tasks []task.Task) ([]task.Task, error) {
		return nil, stderrors.New("abort")
	})
	require.Error(t, err)

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateCorruptFileIsNotOverwritten(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{broken"), 0o644))

	called := false
	err := store.Update(context.Background(), func(tasks []task.Task) ([]task.Task, error) {
		called = true
		return tasks, nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStoreCorrupt))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(data))
}

func TestUpdateLockContention(t *testing.T) {
	store := newTestStore(t, WithLockTimeout(100*time.Millisecond))

	holder := flock.New(store.LockPath())
	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = holder.Unlock() }()

	called := false
	err = store.Update(context.Background(), func(tasks []task.Task) ([]task.Task, error) {
		called = true
		return tasks, nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStoreLocked), "got %v", err)
}

func TestUpdateReleasesLock(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tasks []task.Task) ([]task.Task, error) {
		return tasks, nil
	}))
	require.Error(t, store.Update(ctx, func(tasks []task.Task) ([]task.Task, error) {
		return nil, stderrors.New("abort")
	}))

	other := flock.New(store.LockPath())
	locked, err := other.TryLock()
	require.NoError(t, err)
	assert.True(t, locked, "lock must be released after success and failure")
	_ = other.Unlock()
}

func TestSaveRejectsInvalidUTF8Title(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), []task.Task{
		{Title: "a\xffb", Priority: task.PriorityLow},
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileWriteFailed))

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "a lossy title must never reach the file")
}

func TestWithLockTimeoutIgnoresNonPositive(t *testing.T) {
	store := NewFileStore("tasks.json", WithLockTimeout(0))
	assert.Equal(t, DefaultLockTimeout, store.lockTimeout)
}

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(sampleTasks())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Plan <sprint> & retro"`, "HTML characters are kept literal")

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, sampleTasks(), got)
}
