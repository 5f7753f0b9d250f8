// Package taskview holds the pure filter, sort, and date-label logic shared
// by every consumer that renders a task list. Functions here never mutate
// their inputs and never touch storage.
package taskview

import (
	"strings"
	"time"

	"tasktree/internal/models"
)

// Status filter classes.
const (
	StatusAll        = "all"
	StatusCompleted  = "completed"
	StatusIncomplete = "incomplete"
	StatusInProgress = "in-progress"
)

// Date range filter values.
const (
	RangeOverdue   = "overdue"
	RangeToday     = "today"
	RangeTomorrow  = "tomorrow"
	RangeWeek      = "week"
	RangeMonth     = "month"
	RangeNoDueDate = "no-due-date"
)

// Criteria defines which tasks to include. Zero values mean "no filter".
// All supplied criteria are ANDed together.
type Criteria struct {
	Category    string // exact category match
	Status      string // all | completed | incomplete | in-progress
	DateRange   string // overdue | today | tomorrow | week | month | no-due-date
	SearchQuery string // case-insensitive substring over title or description
}

// Filter returns the tasks matching all criteria. Sub-tasks never appear in
// the filtered view regardless of criteria. now anchors the calendar math
// for date-range checks.
func Filter(tasks []models.Task, c Criteria, now time.Time) []models.Task {
	var result []models.Task
	for _, t := range tasks {
		if matches(t, c, now) {
			result = append(result, t)
		}
	}
	return result
}

func matches(t models.Task, c Criteria, now time.Time) bool {
	if t.ParentTaskID != nil {
		return false
	}
	if c.Category != "" && t.Category != c.Category {
		return false
	}
	if !matchesStatus(t.Status, c.Status) {
		return false
	}
	if c.DateRange != "" && !MatchesDateRange(t.DueDate, c.DateRange, now) {
		return false
	}
	if c.SearchQuery != "" && !matchesSearch(t, c.SearchQuery) {
		return false
	}
	return true
}

func matchesStatus(status int, class string) bool {
	switch class {
	case StatusCompleted:
		return status == 100
	case StatusIncomplete:
		return status != 100
	case StatusInProgress:
		return status > 0 && status < 100
	default:
		// "all", empty, and unrecognized classes are permissive.
		return true
	}
}

func matchesSearch(t models.Task, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}
