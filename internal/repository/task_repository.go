package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/troopops/task-tracker/internal/models"
)

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task and its assignee rows in one transaction. A missing
// ID is generated. Returns the stored task with assignees loaded.
func (r *TaskRepository) Create(task *models.Task, assigneeIDs []string) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO tasks (id, title, description, status, priority, due_date, created_by,
		                   reminder_3d_sent, reminder_1d_sent, reminder_due_sent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?)`,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		nullTime(task.DueDate), task.CreatedBy, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	for _, userID := range assigneeIDs {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO task_assignees (task_id, user_id) VALUES (?, ?)",
			task.ID, userID,
		); err != nil {
			return fmt.Errorf("assign task to %s: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit task: %w", err)
	}

	assignees, err := r.AssigneesForTasks([]string{task.ID})
	if err != nil {
		return err
	}
	task.Assignees = assignees[task.ID]
	return nil
}

func (r *TaskRepository) GetTask(id string) (models.Task, error) {
	var task models.Task
	err := r.db.Get(&task, `
		SELECT id, title, description, status, priority, due_date, created_by,
		       reminder_3d_sent, reminder_1d_sent, reminder_due_sent, created_at, updated_at
		FROM tasks WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}

	assignees, err := r.AssigneesForTasks([]string{id})
	if err != nil {
		return models.Task{}, err
	}
	task.Assignees = assignees[id]
	return task, nil
}

// ListTasks returns tasks visible to the viewer. Admins see everything;
// everyone else sees tasks they created or are assigned to.
func (r *TaskRepository) ListTasks(viewerID string, admin bool) ([]models.Task, error) {
	query := `
		SELECT id, title, description, status, priority, due_date, created_by,
		       reminder_3d_sent, reminder_1d_sent, reminder_due_sent, created_at, updated_at
		FROM tasks`
	args := []any{}
	if !admin {
		query += ` WHERE created_by = ? OR id IN (SELECT task_id FROM task_assignees WHERE user_id = ?)`
		args = append(args, viewerID, viewerID)
	}
	query += ` ORDER BY created_at DESC`

	tasks := []models.Task{}
	if err := r.db.Select(&tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if err := r.attachAssignees(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update rewrites the task's user-editable fields and replaces its assignees.
// Reminder flags are untouched; only MarkReminderSent mutates those.
func (r *TaskRepository) Update(task *models.Task, assigneeIDs []string) error {
	task.UpdatedAt = time.Now().UTC()

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
		WHERE id = ?`,
		task.Title, task.Description, task.Status, task.Priority,
		nullTime(task.DueDate), task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec("DELETE FROM task_assignees WHERE task_id = ?", task.ID); err != nil {
		return fmt.Errorf("clear assignees: %w", err)
	}
	for _, userID := range assigneeIDs {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO task_assignees (task_id, user_id) VALUES (?, ?)",
			task.ID, userID,
		); err != nil {
			return fmt.Errorf("assign task to %s: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit task update: %w", err)
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(id string, status models.TaskStatus) error {
	res, err := r.db.Exec(
		"UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DueWithin returns tasks whose due date falls in [start, end] inclusive and
// whose status is not completed. Tasks without a due date are never returned.
func (r *TaskRepository) DueWithin(start, end time.Time) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.Select(&tasks, `
		SELECT id, title, description, status, priority, due_date, created_by,
		       reminder_3d_sent, reminder_1d_sent, reminder_due_sent, created_at, updated_at
		FROM tasks
		WHERE due_date IS NOT NULL
		  AND due_date >= ? AND due_date <= ?
		  AND status != ?
		ORDER BY due_date ASC`,
		start.UTC(), end.UTC(), models.StatusCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("list due tasks: %w", err)
	}
	return tasks, nil
}

// AssigneesForTasks returns the assignees (with user name and email) for each
// of the given task ids, keyed by task id.
func (r *TaskRepository) AssigneesForTasks(taskIDs []string) (map[string][]models.TaskAssignee, error) {
	byTask := make(map[string][]models.TaskAssignee)
	if len(taskIDs) == 0 {
		return byTask, nil
	}

	query, args, err := sqlx.In(`
		SELECT ta.task_id, u.id, u.full_name, COALESCE(u.email, '') AS email
		FROM task_assignees ta
		JOIN users u ON u.id = ta.user_id
		WHERE ta.task_id IN (?)`, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("build assignee query: %w", err)
	}

	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list assignees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID string
		var a models.TaskAssignee
		if err := rows.Scan(&taskID, &a.ID, &a.Name, &a.Email); err != nil {
			return nil, fmt.Errorf("scan assignee: %w", err)
		}
		byTask[taskID] = append(byTask[taskID], a)
	}
	return byTask, rows.Err()
}

// MarkReminderSent flips the sent flag for the given reminder kind. Flags only
// ever move false to true; there is no way to reset one.
func (r *TaskRepository) MarkReminderSent(id string, kind models.ReminderKind) error {
	var column string
	switch kind {
	case models.Reminder3Days:
		column = "reminder_3d_sent"
	case models.Reminder1Day:
		column = "reminder_1d_sent"
	case models.ReminderDue:
		column = "reminder_due_sent"
	default:
		return fmt.Errorf("unknown reminder kind: %q", kind)
	}

	res, err := r.db.Exec(
		"UPDATE tasks SET "+column+" = 1, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) attachAssignees(tasks []models.Task) error {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	byTask, err := r.AssigneesForTasks(ids)
	if err != nil {
		return err
	}
	for i := range tasks {
		tasks[i].Assignees = byTask[tasks[i].ID]
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
