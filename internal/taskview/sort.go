package taskview

import (
	"sort"
	"strings"

	"tasktree/internal/models"
)

// Sort fields and directions accepted by Sort.
const (
	FieldDueDate   = "dueDate"
	FieldCreatedAt = "createdAt"
	FieldTitle     = "title"
	FieldCategory  = "category"
	FieldStatus    = "status"

	DirAsc  = "asc"
	DirDesc = "desc"
)

// DefaultSort is the view's initial ordering.
const DefaultSort = "dueDate-asc"

// Sort returns a stably sorted copy of tasks ordered by a "field-direction"
// option such as "dueDate-asc". The input slice is never mutated.
//
// A nil due date compares as infinitely far in the future: those tasks sort
// last under ascending and first under descending. An unknown field leaves
// the original order intact.
func Sort(tasks []models.Task, option string) []models.Task {
	field, direction, _ := strings.Cut(option, "-")
	asc := direction != DirDesc

	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := compareTasks(sorted[i], sorted[j], field)
		if asc {
			return cmp < 0
		}
		return cmp > 0
	})
	return sorted
}

func compareTasks(a, b models.Task, field string) int {
	switch field {
	case FieldDueDate:
		return compareDue(a.DueDate, b.DueDate)
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case FieldTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case FieldCategory:
		return strings.Compare(a.Category, b.Category)
	case FieldStatus:
		switch {
		case a.Status < b.Status:
			return -1
		case a.Status > b.Status:
			return 1
		}
		return 0
	default:
		return 0
	}
}

func compareDue(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1 // nil is +infinity
	case b == nil:
		return -1
	}
	return strings.Compare(*a, *b) // YYYY-MM-DD compares lexicographically
}
