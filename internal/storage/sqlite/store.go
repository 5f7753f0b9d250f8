package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tasktree/internal/models"
)

// Store wraps access to the SQLite database and implements the task
// repository: validation, derived fields, and cascade semantics live here.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	// The CHECK constraints mirror the repository validation as defense in
	// depth; descriptive errors still come from the validation layer.
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT 'Other',
            status INTEGER NOT NULL DEFAULT 0,
            dueDate TEXT,
            parentTaskId TEXT,
            createdAt TEXT NOT NULL,
            updatedAt TEXT NOT NULL,
            FOREIGN KEY(parentTaskId) REFERENCES tasks(id) ON DELETE CASCADE,
            CHECK (status >= 0 AND status <= 100),
            CHECK (category IN ('Work', 'Personal', 'Shopping', 'Health', 'Finance', 'Education', 'Home', 'Other'))
        );`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parentTaskId);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(dueDate);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(createdAt);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

const taskColumns = `id, title, description, category, status, dueDate, parentTaskId, createdAt, updatedAt`

// timeFormat keeps a fixed-width fractional second so the TEXT column sorts
// lexicographically in chronological order. RFC3339Nano would trim trailing
// zeros and break that.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// CreateTask validates the input, assigns an id and timestamps, persists the
// record, and returns the canonical task.
func (s *Store) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	if verr := models.ValidateCreate(in); verr != nil {
		return models.Task{}, verr
	}

	if in.ParentTaskID != nil {
		if _, err := s.GetTask(ctx, *in.ParentTaskID); err != nil {
			if models.IsNotFound(err) {
				return models.Task{}, models.NewNotFound(models.CodeParentTaskNotFound,
					fmt.Sprintf("Parent task with ID %s not found", *in.ParentTaskID))
			}
			return models.Task{}, err
		}
	}

	t := models.Task{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		Category:     models.DefaultCategory,
		DueDate:      in.DueDate,
		ParentTaskID: in.ParentTaskID,
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.Status != nil {
		t.Status = int(math.Trunc(*in.Status))
	}

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks(`+taskColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Category, t.Status,
		nullableString(t.DueDate), nullableString(t.ParentTaskID),
		t.CreatedAt.Format(timeFormat), t.UpdatedAt.Format(timeFormat))
	if err != nil {
		s.logger.Error("insert task failed", slog.String("error", err.Error()))
		return models.Task{}, models.NewInternal("failed to create task")
	}

	return s.GetTask(ctx, t.ID)
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.NewNotFound(models.CodeTaskNotFound,
			fmt.Sprintf("Task with ID %s not found", id))
	}
	if err != nil {
		s.logger.Error("get task failed", slog.String("error", err.Error()))
		return models.Task{}, models.NewInternal("failed to fetch task")
	}
	return t, nil
}

// ListTasks returns top-level tasks only, newest first.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks
        WHERE parentTaskId IS NULL ORDER BY createdAt DESC, id`)
}

// ListSubTasks returns the direct children of a parent, newest first.
// Grandchildren never appear here; cascade accounting walks the edges
// separately via DescendantIDs.
func (s *Store) ListSubTasks(ctx context.Context, parentID string) ([]models.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks
        WHERE parentTaskId = ? ORDER BY createdAt DESC, id`, parentID)
}

// UpdateTask applies a partial update to the supplied fields only and
// refreshes updatedAt. The parent edge is never rewritten.
func (s *Store) UpdateTask(ctx context.Context, id string, in models.UpdateTaskInput) (models.Task, error) {
	if _, err := s.GetTask(ctx, id); err != nil {
		return models.Task{}, err
	}

	if verr := models.ValidateUpdate(in); verr != nil {
		return models.Task{}, verr
	}

	var (
		setClauses []string
		args       []any
	)
	if in.Title != nil {
		setClauses = append(setClauses, "title = ?")
		args = append(args, strings.TrimSpace(*in.Title))
	}
	if in.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *in.Description)
	}
	if in.Category != nil {
		setClauses = append(setClauses, "category = ?")
		args = append(args, *in.Category)
	}
	if in.Status != nil {
		setClauses = append(setClauses, "status = ?")
		args = append(args, int(math.Trunc(*in.Status)))
	}
	if in.DueDate != nil {
		setClauses = append(setClauses, "dueDate = ?")
		args = append(args, *in.DueDate)
	}
	if len(setClauses) == 0 {
		return s.GetTask(ctx, id)
	}

	setClauses = append(setClauses, "updatedAt = ?")
	args = append(args, time.Now().UTC().Format(timeFormat), id)

	_, err := s.db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(setClauses, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		s.logger.Error("update task failed", slog.String("error", err.Error()))
		return models.Task{}, models.NewInternal("failed to update task")
	}

	return s.GetTask(ctx, id)
}

// DeleteTask removes a task and all of its descendants in one transaction.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.GetTask(ctx, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("begin delete tx failed", slog.String("error", err.Error()))
		return models.NewInternal("failed to delete task")
	}
	defer func() { _ = tx.Rollback() }()

	// Foreign keys are ON for this connection, so the single DELETE cascades
	// through the parentTaskId edges.
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		s.logger.Error("delete task failed", slog.String("error", err.Error()))
		return models.NewInternal("failed to delete task")
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("commit delete tx failed", slog.String("error", err.Error()))
		return models.NewInternal("failed to delete task")
	}
	return nil
}

// ParentStatus returns the average status of a parent's direct children,
// rounded to the nearest integer, or nil when the parent has no children.
// The aggregate is never written back to the parent record.
func (s *Store) ParentStatus(ctx context.Context, parentID string) (*int, error) {
	children, err := s.ListSubTasks(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}

	sum := 0
	for _, c := range children {
		sum += c.Status
	}
	avg := int(math.Round(float64(sum) / float64(len(children))))
	return &avg, nil
}

// DescendantIDs walks the parent/child edges transitively and returns every
// descendant id of the given task.
func (s *Store) DescendantIDs(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM tasks WHERE parentTaskId = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var direct []string
	for rows.Next() {
		var childID string
		if err := rows.Scan(&childID); err != nil {
			return nil, fmt.Errorf("scan child id: %w", err)
		}
		direct = append(direct, childID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	all := append([]string(nil), direct...)
	for _, childID := range direct {
		nested, err := s.DescendantIDs(ctx, childID)
		if err != nil {
			return nil, err
		}
		all = append(all, nested...)
	}
	return all, nil
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("list tasks failed", slog.String("error", err.Error()))
		return nil, models.NewInternal("failed to fetch tasks")
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			s.logger.Error("scan task failed", slog.String("error", err.Error()))
			return nil, models.NewInternal("failed to fetch tasks")
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("iterate tasks failed", slog.String("error", err.Error()))
		return nil, models.NewInternal("failed to fetch tasks")
	}
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t       models.Task
		due     sql.NullString
		parent  sql.NullString
		created string
		updated string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Status,
		&due, &parent, &created, &updated); err != nil {
		return models.Task{}, err
	}
	if due.Valid {
		t.DueDate = &due.String
	}
	if parent.Valid {
		t.ParentTaskID = &parent.String
	}

	var err error
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return models.Task{}, fmt.Errorf("parse createdAt: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return models.Task{}, fmt.Errorf("parse updatedAt: %w", err)
	}

	t.IsCompleted = models.Completed(t.Status)
	return t, nil
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
