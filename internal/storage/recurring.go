package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"timeplan/internal/recur"
	"timeplan/internal/task"
)

// RecurringInput carries the user-supplied fields of a habit.
type RecurringInput struct {
	Title       string
	Description string
	StartDate   string
	Pattern     string
}

// validate checks the fields and returns the parsed start date plus the
// canonical pattern name. Unknown patterns are rejected here even though
// reads tolerate them in legacy rows.
func (in *RecurringInput) validate() (time.Time, string, error) {
	if strings.TrimSpace(in.Title) == "" {
		return time.Time{}, "", &ValidationError{Field: "title", Msg: "must not be empty"}
	}
	p, ok := recur.ParsePattern(in.Pattern)
	if !ok {
		return time.Time{}, "", &ValidationError{Field: "pattern", Msg: "must be Daily, Weekly, Monthly or Annual"}
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return time.Time{}, "", err
	}
	if start == nil {
		return time.Time{}, "", &ValidationError{Field: "start date", Msg: "must not be empty"}
	}
	return *start, p.String(), nil
}

// CreateRecurring inserts a habit in the Pending state.
func (s *Store) CreateRecurring(userID int, in RecurringInput) (task.RecurringTask, error) {
	start, pattern, err := in.validate()
	if err != nil {
		return task.RecurringTask{}, err
	}
	res, err := s.db.Exec(`
		INSERT INTO recurring_tasks (rtask_title, description, start_date, recurrence_pattern, status, user_id)
		VALUES (?, ?, ?, ?, ?, ?);`,
		strings.TrimSpace(in.Title), in.Description, start.Format(dateLayout),
		pattern, string(recur.StatusPending), userID)
	if err != nil {
		return task.RecurringTask{}, fmt.Errorf("insert recurring task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return task.RecurringTask{}, err
	}
	return s.GetRecurring(int(id))
}

const recurringColumns = `rtask_id, rtask_title, description, start_date, recurrence_pattern, last_completed_date, status, user_id`

// GetRecurring fetches a single habit by id, without reconciliation.
func (s *Store) GetRecurring(id int) (task.RecurringTask, error) {
	row := s.db.QueryRow(`SELECT `+recurringColumns+` FROM recurring_tasks WHERE rtask_id = ?;`, id)
	h, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.RecurringTask{}, ErrNotFound
	}
	return h, err
}

// FetchRecurring lists a user's habits in start-date order with each status
// recomputed against today. The persisted status column is only a cache:
// whenever it disagrees with the recomputed value it is overwritten before
// the row is returned. No background job exists; this lazy reconciliation
// on read is the only mechanism that flips habits back to Pending when a
// period rolls over.
func (s *Store) FetchRecurring(userID int, today time.Time) ([]task.RecurringTask, error) {
	rows, err := s.db.Query(`SELECT `+recurringColumns+`
		FROM recurring_tasks WHERE user_id = ? ORDER BY start_date, rtask_id;`, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch recurring tasks: %w", err)
	}
	defer rows.Close()

	var habits []task.RecurringTask
	for rows.Next() {
		h, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range habits {
		want := recur.StatusFor(habits[i].Pattern, habits[i].LastCompleted, today)
		if want != habits[i].Status {
			if _, err := s.db.Exec(`UPDATE recurring_tasks SET status = ? WHERE rtask_id = ?;`,
				string(want), habits[i].ID); err != nil {
				return nil, fmt.Errorf("reconcile status: %w", err)
			}
			habits[i].Status = want
		}
	}
	return habits, nil
}

// UpdateRecurring replaces the user-editable fields of a habit.
func (s *Store) UpdateRecurring(id int, in RecurringInput) error {
	start, pattern, err := in.validate()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`
		UPDATE recurring_tasks
		SET rtask_title = ?, description = ?, start_date = ?, recurrence_pattern = ?
		WHERE rtask_id = ?;`,
		strings.TrimSpace(in.Title), in.Description, start.Format(dateLayout),
		pattern, id)
	if err != nil {
		return fmt.Errorf("update recurring task: %w", err)
	}
	return oneRow(res)
}

func (s *Store) DeleteRecurring(id int) error {
	res, err := s.db.Exec(`DELETE FROM recurring_tasks WHERE rtask_id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete recurring task: %w", err)
	}
	return oneRow(res)
}

// MarkCompleted records a completion for the given date and caches the
// Completed status.
func (s *Store) MarkCompleted(id int, date time.Time) error {
	res, err := s.db.Exec(`
		UPDATE recurring_tasks SET last_completed_date = ?, status = ? WHERE rtask_id = ?;`,
		date.Format(dateLayout), string(recur.StatusCompleted), id)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return oneRow(res)
}

// ClearCompletion removes a completion only when the caller's date matches
// the recorded one, so un-checking a habit can never erase a different
// period's completion. It reports whether a row was cleared.
func (s *Store) ClearCompletion(id int, date time.Time) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE recurring_tasks
		SET last_completed_date = NULL, status = ?
		WHERE rtask_id = ? AND last_completed_date = ?;`,
		string(recur.StatusPending), id, date.Format(dateLayout))
	if err != nil {
		return false, fmt.Errorf("clear completion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanRecurring(row rowScanner) (task.RecurringTask, error) {
	var h task.RecurringTask
	var desc, start, last sql.NullString
	var status string
	if err := row.Scan(&h.ID, &h.Title, &desc, &start, &h.Pattern, &last, &status, &h.UserID); err != nil {
		return task.RecurringTask{}, err
	}
	h.Description = desc.String
	if d := scanDate(start); d != nil {
		h.StartDate = *d
	}
	h.LastCompleted = scanDate(last)
	h.Status = recur.Status(status)
	return h, nil
}
