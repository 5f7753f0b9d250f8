package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tasktree/internal/models"
	"tasktree/internal/taskview"
)

// ErrDegraded signals that the server could not be reached and the cache is
// serving previously persisted data. Callers treat it as a warning, not a
// failure.
var ErrDegraded = errors.New("failed to sync with server, using cached data")

// Cache is the client's in-memory task list. Reads fall back to the local
// store when the server is unreachable; every mutation is write-through and
// touches memory only after the server confirms.
type Cache struct {
	api   *APIClient
	local *LocalStore

	mu       sync.Mutex
	tasks    []models.Task
	degraded bool
}

// NewCache wires the cache to an API client and a local fallback store.
func NewCache(api *APIClient, local *LocalStore) *Cache {
	return &Cache{api: api, local: local}
}

// Load fetches the task list from the server and persists it locally. When
// the fetch fails, the previously persisted list is loaded instead and an
// error wrapping ErrDegraded is returned alongside the stale data being kept
// available.
func (c *Cache) Load(ctx context.Context) error {
	tasks, err := c.api.ListTasks(ctx)
	if err != nil {
		cached, loadErr := c.local.Load(ctx)
		if loadErr != nil {
			return fmt.Errorf("%w: %w", ErrDegraded, loadErr)
		}
		c.mu.Lock()
		c.tasks = cached
		c.degraded = true
		c.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrDegraded, err)
	}

	c.mu.Lock()
	c.tasks = tasks
	c.degraded = false
	c.mu.Unlock()

	// Persisting the fresh copy is best-effort; a read-only cache dir must
	// not fail the load.
	if err := c.local.Save(ctx, tasks); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// Degraded reports whether the cache is serving fallback data.
func (c *Cache) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// Tasks returns a copy of the full cached list.
func (c *Cache) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Visible recomputes the rendered view: filter, then sort.
func (c *Cache) Visible(criteria taskview.Criteria, sortOption string) []models.Task {
	return taskview.Sort(taskview.Filter(c.Tasks(), criteria, time.Now()), sortOption)
}

// AddTask validates locally, creates the task on the server, and merges the
// confirmed record.
func (c *Cache) AddTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	if verr := models.ValidateCreate(in); verr != nil {
		return models.Task{}, verr
	}

	created, err := c.api.CreateTask(ctx, in)
	if err != nil {
		return models.Task{}, err
	}

	c.mergeTask(created)
	c.persist(ctx)
	return created, nil
}

// AddSubTask creates a child of parentID. The parent/child edge is the only
// record of the relationship; no parent field needs a follow-up write.
func (c *Cache) AddSubTask(ctx context.Context, parentID string, in models.CreateTaskInput) (models.Task, error) {
	in.ParentTaskID = &parentID
	return c.AddTask(ctx, in)
}

// UpdateTask applies a partial update on the server and merges the result.
func (c *Cache) UpdateTask(ctx context.Context, id string, in models.UpdateTaskInput) (models.Task, error) {
	if in.Empty() {
		return models.Task{}, models.NewValidation(models.CodeNoUpdatesProvided,
			"At least one field must be updated")
	}
	if verr := models.ValidateUpdate(in); verr != nil {
		return models.Task{}, verr
	}

	updated, err := c.api.UpdateTask(ctx, id, in)
	if err != nil {
		return models.Task{}, err
	}

	c.mergeTask(updated)
	c.persist(ctx)
	return updated, nil
}

// DeleteTask deletes on the server, then drops the task and its descendants
// from memory, mirroring the server-side cascade.
func (c *Cache) DeleteTask(ctx context.Context, id string) error {
	if err := c.api.DeleteTask(ctx, id); err != nil {
		return err
	}

	doomed := map[string]struct{}{id: {}}
	c.mu.Lock()
	for grew := true; grew; {
		grew = false
		for _, t := range c.tasks {
			if t.ParentTaskID == nil {
				continue
			}
			if _, gone := doomed[*t.ParentTaskID]; gone {
				if _, seen := doomed[t.ID]; !seen {
					doomed[t.ID] = struct{}{}
					grew = true
				}
			}
		}
	}
	kept := c.tasks[:0]
	for _, t := range c.tasks {
		if _, gone := doomed[t.ID]; !gone {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	c.mu.Unlock()

	c.persist(ctx)
	return nil
}

// GetTask fetches a single task from the server and merges it, falling back
// to the in-memory copy when the server is unreachable.
func (c *Cache) GetTask(ctx context.Context, id string) (models.Task, error) {
	task, err := c.api.GetTask(ctx, id)
	if err != nil {
		if models.IsNotFound(err) || models.IsValidation(err) {
			return models.Task{}, err
		}
		for _, t := range c.Tasks() {
			if t.ID == id {
				return t, fmt.Errorf("%w: %w", ErrDegraded, err)
			}
		}
		return models.Task{}, err
	}
	c.mergeTask(task)
	return task, nil
}

// SubTasks returns the direct children of a parent. The server copy wins;
// when it is unreachable the children are derived from the in-memory edge.
func (c *Cache) SubTasks(ctx context.Context, parentID string) ([]models.Task, error) {
	children, err := c.api.ListSubTasks(ctx, parentID)
	if err != nil {
		if models.IsNotFound(err) || models.IsValidation(err) {
			return nil, err
		}
		var local []models.Task
		for _, t := range c.Tasks() {
			if t.ParentTaskID != nil && *t.ParentTaskID == parentID {
				local = append(local, t)
			}
		}
		return local, fmt.Errorf("%w: %w", ErrDegraded, err)
	}

	for _, child := range children {
		c.mergeTask(child)
	}
	return children, nil
}

// ParentStatus averages the direct children's status, rounded to nearest;
// nil when there are none. Client-side twin of the repository aggregate.
func ParentStatus(children []models.Task) *int {
	if len(children) == 0 {
		return nil
	}
	sum := 0
	for _, t := range children {
		sum += t.Status
	}
	avg := (sum + len(children)/2) / len(children)
	return &avg
}

func (c *Cache) mergeTask(task models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.tasks {
		if t.ID == task.ID {
			c.tasks[i] = task
			return
		}
	}
	c.tasks = append(c.tasks, task)
}

// persist mirrors memory to the fallback file. Failures are swallowed: the
// fallback is an optimization, never a correctness requirement for writes.
func (c *Cache) persist(ctx context.Context) {
	_ = c.local.Save(ctx, c.Tasks())
}
