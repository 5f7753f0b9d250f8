// Package client implements the task client: an HTTP API client, a local
// fallback store, and the write-through in-memory cache sitting on top of
// both.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tasktree/internal/models"
)

// DefaultTimeout bounds every API call. The server never cancels requests on
// its own, so the client imposes a defensive deadline.
const DefaultTimeout = 10 * time.Second

// APIClient talks to the task server's REST endpoints.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient creates a client for a base URL such as
// "http://localhost:8080/api".
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// ListTasks fetches all top-level tasks.
func (c *APIClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches a single task.
func (c *APIClient) GetTask(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+id, nil, &t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// CreateTask creates a task or, when in.ParentTaskID is set, a sub-task.
func (c *APIClient) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	var t models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// UpdateTask applies a partial update.
func (c *APIClient) UpdateTask(ctx context.Context, id string, in models.UpdateTaskInput) (models.Task, error) {
	var t models.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+id, in, &t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// DeleteTask removes a task and its sub-tree.
func (c *APIClient) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
}

// ListSubTasks fetches the direct children of a parent.
func (c *APIClient) ListSubTasks(ctx context.Context, parentID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+parentID+"/subtasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// errorBody is the wire shape of every server error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError rebuilds a structured domain error from an error response so
// callers route on the kind exactly as server-side code does.
func decodeError(resp *http.Response) error {
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil || eb.Error == "" {
		eb.Error = resp.Status
	}
	if eb.Code == "" {
		eb.Code = models.CodeInternalServerError
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.NewNotFound(eb.Code, eb.Error)
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		return models.NewValidation(eb.Code, eb.Error)
	default:
		return &models.Error{Kind: models.KindInternal, Code: eb.Code, Message: eb.Error}
	}
}
