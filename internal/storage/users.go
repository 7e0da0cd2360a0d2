package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"timeplan/internal/task"
)

// CreateUser registers an account. The credential is a bare SHA-256 digest,
// matching the historical database format; hardening it is out of scope.
func (s *Store) CreateUser(username, password string) (task.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return task.User{}, &ValidationError{Field: "username", Msg: "must not be empty"}
	}
	if password == "" {
		return task.User{}, &ValidationError{Field: "password", Msg: "must not be empty"}
	}
	res, err := s.db.Exec(`INSERT INTO users (username, password_hash) VALUES (?, ?);`,
		username, hashPassword(password))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return task.User{}, &ValidationError{Field: "username", Msg: "already taken"}
		}
		return task.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return task.User{}, err
	}
	return task.User{ID: int(id), Username: username}, nil
}

// Authenticate resolves a login attempt. Unknown users and wrong passwords
// are indistinguishable to the caller.
func (s *Store) Authenticate(username, password string) (task.User, error) {
	var u task.User
	var hash string
	err := s.db.QueryRow(`SELECT user_id, username, password_hash FROM users WHERE username = ?;`,
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return task.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return task.User{}, err
	}
	if hash != hashPassword(password) {
		return task.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
