package taskview

import (
	"testing"
	"time"

	"tasktree/internal/models"
)

func withCreated(at time.Time) func(*models.Task) {
	return func(t *models.Task) { t.CreatedAt = at }
}

func assertOrder(t *testing.T, got []models.Task, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", titles(got), want)
	}
	for i := range want {
		if got[i].Title != want[i] {
			t.Fatalf("got %v, want %v", titles(got), want)
		}
	}
}

func TestSortByDueDate(t *testing.T) {
	tasks := []models.Task{
		task("no due"),
		task("late", withDue("2025-12-01")),
		task("early", withDue("2025-11-01")),
	}

	t.Run("ascending puts undated last", func(t *testing.T) {
		assertOrder(t, Sort(tasks, "dueDate-asc"), "early", "late", "no due")
	})
	t.Run("descending puts undated first", func(t *testing.T) {
		assertOrder(t, Sort(tasks, "dueDate-desc"), "no due", "late", "early")
	})
}

func TestSortByTitleIsCaseInsensitive(t *testing.T) {
	tasks := []models.Task{
		task("banana"),
		task("Apple"),
		task("CHERRY"),
	}
	assertOrder(t, Sort(tasks, "title-asc"), "Apple", "banana", "CHERRY")
	assertOrder(t, Sort(tasks, "title-desc"), "CHERRY", "banana", "Apple")
}

func TestSortByCreatedAt(t *testing.T) {
	base := time.Date(2025, time.November, 1, 9, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		task("second", withCreated(base.Add(time.Hour))),
		task("first", withCreated(base)),
		task("third", withCreated(base.Add(2*time.Hour))),
	}
	assertOrder(t, Sort(tasks, "createdAt-asc"), "first", "second", "third")
	assertOrder(t, Sort(tasks, "createdAt-desc"), "third", "second", "first")
}

func TestSortByStatus(t *testing.T) {
	tasks := []models.Task{
		task("done", withStatus(100)),
		task("fresh", withStatus(0)),
		task("half", withStatus(50)),
	}
	assertOrder(t, Sort(tasks, "status-asc"), "fresh", "half", "done")
	assertOrder(t, Sort(tasks, "status-desc"), "done", "half", "fresh")
}

func TestSortIsStable(t *testing.T) {
	// Equal keys keep their input order in both directions.
	tasks := []models.Task{
		task("a", withDue("2025-11-15")),
		task("b", withDue("2025-11-15")),
		task("c", withDue("2025-11-15")),
	}
	assertOrder(t, Sort(tasks, "dueDate-asc"), "a", "b", "c")
	assertOrder(t, Sort(tasks, "dueDate-desc"), "a", "b", "c")
}

func TestSortDoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{
		task("z", withDue("2025-12-01")),
		task("a", withDue("2025-11-01")),
	}

	_ = Sort(tasks, "dueDate-asc")

	if tasks[0].Title != "z" || tasks[1].Title != "a" {
		t.Fatalf("input order changed: %v", titles(tasks))
	}
}

func TestSortUnknownFieldKeepsOrder(t *testing.T) {
	tasks := []models.Task{task("b"), task("a"), task("c")}
	assertOrder(t, Sort(tasks, "priority-asc"), "b", "a", "c")
}
