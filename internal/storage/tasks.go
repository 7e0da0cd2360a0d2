package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"timeplan/internal/task"
)

// TaskInput carries the user-supplied fields of a one-off task. DueDate is
// the raw form value and is validated here.
type TaskInput struct {
	Title       string
	Description string
	Priority    task.Priority
	DueDate     string
}

func (in *TaskInput) validate() (*time.Time, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "title", Msg: "must not be empty"}
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return nil, err
	}
	return due, nil
}

// CreateTask inserts a new one-off task. The starting category is decided
// by the lifecycle rule: a due date already in the past means Missed,
// otherwise On-going.
func (s *Store) CreateTask(userID int, in TaskInput, today time.Time) (task.Task, error) {
	due, err := in.validate()
	if err != nil {
		return task.Task{}, err
	}
	cat := task.CategoryForNewTask(due, today)
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := s.db.Exec(`
		INSERT INTO tasks (task_title, description, priority_id, due_date, user_id, category_id, created_at, updated_at)
		VALUES (?, ?, (SELECT priority_id FROM priority WHERE priority_name = ?), ?, ?, ?, ?, ?);`,
		strings.TrimSpace(in.Title), in.Description, in.Priority.String(), formatDate(due), userID, s.catID[cat], now, now)
	if err != nil {
		return task.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return task.Task{}, err
	}
	return s.GetTask(int(id))
}

const taskColumns = `
	t.task_id, t.task_title, t.description, p.priority_name, t.due_date, t.category_id, t.user_id, t.created_at, t.updated_at
	FROM tasks t
	JOIN task_category tc ON t.category_id = tc.category_id
	LEFT JOIN priority p ON t.priority_id = p.priority_id`

// GetTask fetches a single task by id.
func (s *Store) GetTask(id int) (task.Task, error) {
	row := s.db.QueryRow(`SELECT`+taskColumns+` WHERE t.task_id = ?;`, id)
	t, err := s.scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, ErrNotFound
	}
	return t, err
}

// UpdateTask replaces every user-editable field of a task.
func (s *Store) UpdateTask(id int, in TaskInput, category task.Category) error {
	due, err := in.validate()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`
		UPDATE tasks
		SET task_title = ?,
		    description = ?,
		    priority_id = (SELECT priority_id FROM priority WHERE priority_name = ?),
		    due_date = ?,
		    category_id = ?,
		    updated_at = ?
		WHERE task_id = ?;`,
		strings.TrimSpace(in.Title), in.Description, in.Priority.String(), formatDate(due),
		s.catID[category], time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return oneRow(res)
}

// SetCategory moves a task between lifecycle categories. This is the
// completion toggle: On-going/Missed to Completed on check, Completed back
// to On-going on uncheck.
func (s *Store) SetCategory(id int, category task.Category) error {
	res, err := s.db.Exec(`UPDATE tasks SET category_id = ?, updated_at = ? WHERE task_id = ?;`,
		s.catID[category], time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("set category: %w", err)
	}
	return oneRow(res)
}

func (s *Store) DeleteTask(id int) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE task_id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return oneRow(res)
}

// FetchTasks lists a user's tasks under a named filter. Filtering and
// ordering happen in SQL; date columns hold ISO strings so lexical
// comparison is date comparison.
//
// On-going-flavored filters sort by due date ascending with null dates
// last, then priority level, then insertion order. Completed and Missed
// sort by due date descending.
func (s *Store) FetchTasks(userID int, f task.Filter, today time.Time) ([]task.Task, error) {
	query := `SELECT` + taskColumns + ` WHERE t.user_id = ? `
	args := []any{userID}
	todayStr := today.Format(dateLayout)

	switch f {
	case task.FilterToday:
		query += `AND t.due_date = ? AND t.category_id = ? `
		args = append(args, todayStr, s.catID[task.OnGoing])
	case task.FilterNext7Days:
		horizon := today.AddDate(0, 0, 7).Format(dateLayout)
		query += `AND t.due_date BETWEEN ? AND ? AND t.category_id = ? `
		args = append(args, todayStr, horizon, s.catID[task.OnGoing])
	case task.FilterOnGoing:
		query += `AND t.category_id = ? AND (t.due_date IS NULL OR t.due_date >= ?) `
		args = append(args, s.catID[task.OnGoing], todayStr)
	case task.FilterCompleted:
		query += `AND t.category_id = ? `
		args = append(args, s.catID[task.Completed])
	case task.FilterMissed:
		query += `AND t.category_id = ? `
		args = append(args, s.catID[task.Missed])
	}

	switch f {
	case task.FilterCompleted, task.FilterMissed:
		query += `ORDER BY t.due_date DESC, t.task_id ASC;`
	default:
		query += `ORDER BY CASE WHEN t.due_date IS NULL THEN 1 ELSE 0 END, t.due_date ASC, p.priority_level ASC, t.task_id ASC;`
	}

	return s.queryTasks(query, args...)
}

// SearchTasks matches the term against title and description,
// case-insensitively.
func (s *Store) SearchTasks(userID int, term string) ([]task.Task, error) {
	pattern := "%" + strings.TrimSpace(term) + "%"
	return s.queryTasks(`SELECT`+taskColumns+`
		WHERE t.user_id = ?
		AND (LOWER(t.task_title) LIKE LOWER(?) OR LOWER(t.description) LIKE LOWER(?))
		ORDER BY t.due_date ASC, t.task_title ASC;`,
		userID, pattern, pattern)
}

// SweepPastDue permanently reclassifies every persisted On-going task whose
// due date has passed into Missed, returning the number of rows moved.
// Running it again with no newly overdue tasks moves zero rows. Tasks
// without a due date and tasks already Completed or Missed are never
// touched.
func (s *Store) SweepPastDue(today time.Time) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE tasks
		SET category_id = ?, updated_at = ?
		WHERE category_id = ?
		AND due_date IS NOT NULL
		AND due_date != ''
		AND due_date < ?;`,
		s.catID[task.Missed], time.Now().UTC().Format(time.RFC3339),
		s.catID[task.OnGoing], today.Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("sweep past due: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) queryTasks(query string, args ...any) ([]task.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanTask(row rowScanner) (task.Task, error) {
	var t task.Task
	var desc, priority, due sql.NullString
	var categoryID int
	var createdStr, updatedStr string
	if err := row.Scan(&t.ID, &t.Title, &desc, &priority, &due, &categoryID, &t.UserID, &createdStr, &updatedStr); err != nil {
		return task.Task{}, err
	}
	t.Description = desc.String
	t.Priority = task.ParsePriority(priority.String)
	t.DueDate = scanDate(due)
	t.Category = s.catName[categoryID]
	t.CreatedAt = scanTimestamp(createdStr)
	t.UpdatedAt = scanTimestamp(updatedStr)
	return t, nil
}

func oneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
