package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"tasktree/internal/models"
)

// lockRetryInterval paces lock acquisition attempts when another process
// holds the cache file.
const lockRetryInterval = 50 * time.Millisecond

// LocalStore persists the task list as a single JSON array in one file,
// fully overwritten on every save. It is the client's fallback when the
// server cannot be reached. A flock guards against concurrent invocations
// clobbering each other.
type LocalStore struct {
	path string
	lock *flock.Flock
}

// NewLocalStore creates a local store backed by the given file path.
func NewLocalStore(path string) *LocalStore {
	return &LocalStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the backing file path.
func (ls *LocalStore) Path() string {
	return ls.path
}

// Save overwrites the cached task list.
func (ls *LocalStore) Save(ctx context.Context, tasks []models.Task) error {
	if err := os.MkdirAll(filepath.Dir(ls.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	locked, err := ls.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	if !locked {
		return fmt.Errorf("cache file %s is locked", ls.path)
	}
	defer func() { _ = ls.lock.Unlock() }()

	if tasks == nil {
		tasks = []models.Task{}
	}
	payload, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	// Write to a temp file then rename so readers never see a torn cache.
	tmp := ls.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, ls.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

// Load reads the cached task list. A missing file is an empty cache, not an
// error.
func (ls *LocalStore) Load(ctx context.Context) ([]models.Task, error) {
	locked, err := ls.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("lock cache: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("cache file %s is locked", ls.path)
	}
	defer func() { _ = ls.lock.Unlock() }()

	payload, err := os.ReadFile(ls.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	var tasks []models.Task
	if err := json.Unmarshal(payload, &tasks); err != nil {
		return nil, fmt.Errorf("decode cache: %w", err)
	}
	return tasks, nil
}
