package models

import (
	"strconv"
	"time"
)

// Task is a unit of work, optionally nested under a parent task.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Status       int       `json:"status"`
	DueDate      *string   `json:"dueDate"`
	ParentTaskID *string   `json:"parentTaskId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// IsCompleted is derived from Status and never stored.
	IsCompleted bool `json:"isCompleted"`
}

// DefaultCategory is assigned when a task is created without one.
const DefaultCategory = "Other"

// Categories enumerates the fixed set of task categories.
var Categories = []string{"Work", "Personal", "Shopping", "Health", "Finance", "Education", "Home", "Other"}

// ValidCategories indexes Categories for membership checks.
var ValidCategories = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		m[c] = struct{}{}
	}
	return m
}()

// Completed reports whether a status percentage means done.
func Completed(status int) bool {
	return status == 100
}

// CreateTaskInput carries the fields accepted when creating a task.
// Status is a float at the boundary so fractional JSON numbers can be
// rejected instead of silently truncated.
type CreateTaskInput struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Status       *float64 `json:"status"`
	DueDate      *string  `json:"dueDate"`
	ParentTaskID *string  `json:"parentTaskId"`
}

// UpdateTaskInput carries the fields accepted when updating a task.
// ParentTaskID is deliberately absent: the parent edge is immutable
// after creation.
type UpdateTaskInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Status      *float64 `json:"status"`
	DueDate     *string  `json:"dueDate"`
}

// Empty reports whether the update supplies no updatable fields.
func (u UpdateTaskInput) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil && u.Status == nil && u.DueDate == nil
}

// StatusLabel returns a human-readable label for the predefined status
// checkpoints; other values render as a bare percentage.
func StatusLabel(status int) string {
	switch status {
	case 0:
		return "Not Started"
	case 25:
		return "In Progress"
	case 50:
		return "Half Done"
	case 75:
		return "Almost Done"
	case 100:
		return "Complete"
	default:
		return strconv.Itoa(status) + "%"
	}
}
