package storage

import (
	"database/sql"
	"fmt"
	"time"
)

const userColumns = `user_id, username, email, password_hash, created_at, last_login_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*UserRecord, error) {
	var user UserRecord
	var lastLogin sql.NullTime
	err := row.Scan(&user.UserID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}
	return &user, nil
}

// CreateUser inserts the account, checking uniqueness inside the same transaction
func (s *Store) CreateUser(record UserRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE`
	args := []any{record.Username}
	if record.Email != "" {
		query += ` OR email = ? COLLATE NOCASE`
		args = append(args, record.Email)
	}
	var count int
	if err := tx.QueryRow(query, args...).Scan(&count); err != nil {
		return fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if count > 0 {
		return ErrUserExists
	}

	_, err = tx.Exec(`INSERT INTO users (user_id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.UserID, record.Username, record.Email, record.PasswordHash, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return tx.Commit()
}

// DeleteUserByID removes the user; the session cascades
func (s *Store) DeleteUserByID(userID string) error {
	result, err := s.db.Exec(`DELETE FROM users WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateUserPassword(userID, passwordHash string) error {
	return s.updateUser(userID, "password_hash", passwordHash)
}

func (s *Store) UpdateUserEmail(userID, email string) error {
	return s.updateUser(userID, "email", email)
}

func (s *Store) UpdateUserUsername(userID, username string) error {
	return s.updateUser(userID, "username", username)
}

func (s *Store) UpdateUserLastLogin(userID string, loginTime time.Time) error {
	return s.updateUser(userID, "last_login_at", loginTime)
}

// updateUser sets one column; column is never user input
func (s *Store) updateUser(userID, column string, value any) error {
	result, err := s.db.Exec(`UPDATE users SET `+column+` = ? WHERE user_id = ?`, value, userID)
	if err != nil {
		return fmt.Errorf("failed to update %s for user %s: %w", column, userID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetAllUsers() ([]UserRecord, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserRecord
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// GetUserByUsername matches case-insensitively
func (s *Store) GetUserByUsername(username string) (*UserRecord, error) {
	user, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ? COLLATE NOCASE`, username))
	return user, notFound(err)
}

func (s *Store) GetUserByID(userID string) (*UserRecord, error) {
	user, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID))
	return user, notFound(err)
}

// CountUsers backs the registration cap
func (s *Store) CountUsers() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
