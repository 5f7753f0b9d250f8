package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"tasktree/internal/models"
	"tasktree/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "tasks.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return New(store, nil, "")
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) models.Task {
	t.Helper()
	var task models.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode task: %v (body %s)", err, rec.Body.String())
	}
	return task
}

func decodeTasks(t *testing.T, rec *httptest.ResponseRecorder) []models.Task {
	t.Helper()
	var tasks []models.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode tasks: %v (body %s)", err, rec.Body.String())
	}
	return tasks
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (body %s)", err, rec.Body.String())
	}
	return body.Error, body.Code
}

func createTask(t *testing.T, srv *Server, body map[string]any) models.Task {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/tasks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	return decodeTask(t, rec)
}

func TestCreateTaskEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("created with defaults", func(t *testing.T) {
		task := createTask(t, srv, map[string]any{"title": "Write report", "dueDate": "2025-11-15"})
		if task.Status != 0 || task.Category != "Other" || task.IsCompleted {
			t.Errorf("defaults wrong: status=%d category=%s completed=%v", task.Status, task.Category, task.IsCompleted)
		}
	})

	t.Run("missing body", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/tasks", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("validation errors carry codes", func(t *testing.T) {
		cases := []struct {
			name     string
			body     map[string]any
			wantCode string
		}{
			{"blank title", map[string]any{"title": "   "}, models.CodeInvalidTitle},
			{"fractional status", map[string]any{"title": "t", "status": 100.5}, models.CodeInvalidStatus},
			{"bad category", map[string]any{"title": "t", "category": "Chores"}, models.CodeInvalidCategory},
			{"bad due date", map[string]any{"title": "t", "dueDate": "later"}, models.CodeInvalidDueDateFormat},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rec := doRequest(t, srv, http.MethodPost, "/api/tasks", tc.body)
				if rec.Code != http.StatusBadRequest {
					t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
				}
				if _, code := decodeErrorBody(t, rec); code != tc.wantCode {
					t.Errorf("code = %s, want %s", code, tc.wantCode)
				}
			})
		}
	})

	t.Run("missing parent is a 404, not a 400", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/tasks", map[string]any{
			"title":        "Sub",
			"parentTaskId": "no-such-task",
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404 (%s)", rec.Code, rec.Body.String())
		}
		if _, code := decodeErrorBody(t, rec); code != models.CodeParentTaskNotFound {
			t.Errorf("code = %s, want %s", code, models.CodeParentTaskNotFound)
		}
	})
}

func TestGetTaskEndpoint(t *testing.T) {
	srv := newTestServer(t)
	task := createTask(t, srv, map[string]any{"title": "Find me"})

	t.Run("found", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/tasks/"+task.ID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := decodeTask(t, rec); got.Title != "Find me" {
			t.Errorf("title = %q", got.Title)
		}
	})

	t.Run("missing", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/tasks/nope", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if _, code := decodeErrorBody(t, rec); code != models.CodeTaskNotFound {
			t.Errorf("code = %s, want %s", code, models.CodeTaskNotFound)
		}
	})
}

func TestListTasksEndpoint(t *testing.T) {
	srv := newTestServer(t)

	parent := createTask(t, srv, map[string]any{"title": "Parent"})
	createTask(t, srv, map[string]any{"title": "Child", "parentTaskId": parent.ID})

	rec := doRequest(t, srv, http.MethodGet, "/api/tasks", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	tasks := decodeTasks(t, rec)
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1 (sub-tasks must not appear)", len(tasks))
	}
	if tasks[0].ID != parent.ID {
		t.Errorf("listed %s, want parent", tasks[0].ID)
	}
}

func TestUpdateTaskEndpoint(t *testing.T) {
	srv := newTestServer(t)
	task := createTask(t, srv, map[string]any{"title": "Before"})

	t.Run("empty body rejected and record unchanged", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPut, "/api/tasks/"+task.ID, map[string]any{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if _, code := decodeErrorBody(t, rec); code != models.CodeNoUpdatesProvided {
			t.Errorf("code = %s, want %s", code, models.CodeNoUpdatesProvided)
		}

		rec = doRequest(t, srv, http.MethodGet, "/api/tasks/"+task.ID, nil)
		if got := decodeTask(t, rec); got.Title != "Before" || !got.UpdatedAt.Equal(task.UpdatedAt) {
			t.Error("record changed after rejected update")
		}
	})

	t.Run("partial update applied", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"status": 100})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
		}
		got := decodeTask(t, rec)
		if got.Status != 100 || !got.IsCompleted || got.Title != "Before" {
			t.Errorf("update wrong: %+v", got)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPut, "/api/tasks/nope", map[string]any{"title": "x"})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("invalid field", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"status": 150})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestDeleteTaskEndpoint(t *testing.T) {
	srv := newTestServer(t)

	parent := createTask(t, srv, map[string]any{"title": "Parent"})
	child := createTask(t, srv, map[string]any{"title": "Child", "parentTaskId": parent.ID})
	grandchild := createTask(t, srv, map[string]any{"title": "Grandchild", "parentTaskId": child.ID})

	rec := doRequest(t, srv, http.MethodDelete, "/api/tasks/"+parent.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var confirmation struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &confirmation); err != nil {
		t.Fatalf("decode confirmation: %v", err)
	}
	if confirmation.ID != parent.ID || confirmation.Message == "" {
		t.Errorf("confirmation = %+v", confirmation)
	}

	for _, id := range []string{parent.ID, child.ID, grandchild.ID} {
		rec := doRequest(t, srv, http.MethodGet, "/api/tasks/"+id, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s after cascade = %d, want 404", id, rec.Code)
		}
	}

	t.Run("missing id", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodDelete, "/api/tasks/"+parent.ID, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestSubTasksEndpoint(t *testing.T) {
	srv := newTestServer(t)

	parent := createTask(t, srv, map[string]any{"title": "Parent"})
	child := createTask(t, srv, map[string]any{"title": "Child", "parentTaskId": parent.ID})
	createTask(t, srv, map[string]any{"title": "Grandchild", "parentTaskId": child.ID})

	t.Run("direct children only", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/tasks/%s/subtasks", parent.ID), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		subTasks := decodeTasks(t, rec)
		if len(subTasks) != 1 || subTasks[0].ID != child.ID {
			t.Fatalf("got %d sub-tasks, want exactly the direct child", len(subTasks))
		}
	})

	t.Run("unknown parent", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/tasks/nope/subtasks", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if _, code := decodeErrorBody(t, rec); code != models.CodeTaskNotFound {
			t.Errorf("code = %s, want %s", code, models.CodeTaskNotFound)
		}
	})

	t.Run("childless parent returns empty array", func(t *testing.T) {
		leaf := createTask(t, srv, map[string]any{"title": "Leaf"})
		rec := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/tasks/%s/subtasks", leaf.ID), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if subTasks := decodeTasks(t, rec); len(subTasks) != 0 {
			t.Errorf("got %d sub-tasks, want 0", len(subTasks))
		}
	})
}
