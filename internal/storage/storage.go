// Package storage is the SQLite task store. It owns the schema, resolves
// category and priority names to row ids at this boundary, and validates
// date strings before they reach the recurrence engine.
package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"timeplan/internal/task"
)

type Store struct {
	db *sql.DB

	// Category ids are stable after seeding, resolved once at open so
	// engine logic never handles raw ids.
	catID   map[task.Category]int
	catName map[int]task.Category
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if dir := filepath.Dir(dbPath); dir != "." && !strings.HasPrefix(dbPath, "file:") && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
	user_id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS task_category (
	category_id INTEGER PRIMARY KEY AUTOINCREMENT,
	category_name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS priority (
	priority_id INTEGER PRIMARY KEY AUTOINCREMENT,
	priority_name TEXT NOT NULL UNIQUE,
	priority_level INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	task_id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_title TEXT NOT NULL,
	description TEXT,
	priority_id INTEGER NOT NULL REFERENCES priority (priority_id),
	due_date TEXT DEFAULT NULL,
	user_id INTEGER NOT NULL REFERENCES users (user_id),
	category_id INTEGER NOT NULL REFERENCES task_category (category_id),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS recurring_tasks (
	rtask_id INTEGER PRIMARY KEY AUTOINCREMENT,
	rtask_title TEXT NOT NULL,
	description TEXT,
	start_date TEXT NOT NULL,
	recurrence_pattern TEXT NOT NULL,
	last_completed_date TEXT DEFAULT NULL,
	status TEXT NOT NULL DEFAULT 'Pending',
	user_id INTEGER NOT NULL REFERENCES users (user_id)
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	if err := s.ensureTaskColumns(); err != nil {
		return err
	}
	if err := s.seed(); err != nil {
		return err
	}
	return s.loadCategories()
}

// ensureTaskColumns patches databases created by earlier versions that
// predate the timestamp columns.
func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"created_at": "ALTER TABLE tasks ADD COLUMN created_at TEXT NOT NULL DEFAULT '';",
		"updated_at": "ALTER TABLE tasks ADD COLUMN updated_at TEXT NOT NULL DEFAULT '';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) seed() error {
	for _, c := range task.Categories() {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO task_category (category_name) VALUES (?);`, c.String()); err != nil {
			return err
		}
	}
	for _, p := range []task.Priority{task.Urgent, task.NotUrgent} {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO priority (priority_name, priority_level) VALUES (?, ?);`, p.String(), p.Level()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loadCategories() error {
	rows, err := s.db.Query(`SELECT category_id, category_name FROM task_category;`)
	if err != nil {
		return err
	}
	defer rows.Close()

	s.catID = make(map[task.Category]int, 3)
	s.catName = make(map[int]task.Category, 3)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		c, ok := task.ParseCategory(name)
		if !ok {
			continue
		}
		s.catID[c] = id
		s.catName[id] = c
	}
	return rows.Err()
}

const dateLayout = "2006-01-02"

// parseDate validates a calendar-date string at the store boundary. Empty
// means no date.
func parseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, &ValidationError{Field: "date", Msg: "expected YYYY-MM-DD, got " + v}
	}
	return &t, nil
}

func formatDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

// scanDate is lenient: a malformed stored date reads back as no date
// rather than failing the whole fetch.
func scanDate(v sql.NullString) *time.Time {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, v.String)
	if err != nil {
		return nil
	}
	return &t
}

func scanTimestamp(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") || path == ":memory:" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
