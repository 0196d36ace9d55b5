package service

import (
	"errors"
	"fmt"
	"time"

	"checkers/internal/server/storage"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
	"github.com/rs/zerolog/log"
)

type User struct {
	UserID      string
	Username    string
	Email       string
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

func userFromRecord(r *storage.UserRecord) *User {
	return &User{
		UserID:      r.UserID,
		Username:    r.Username,
		Email:       r.Email,
		CreatedAt:   r.CreatedAt,
		LastLoginAt: r.LastLoginAt,
	}
}

// SessionTTL is the lifetime of issued tokens and sessions
func (s *Service) SessionTTL() time.Duration {
	return s.limits.SessionTTL
}

// CreateUser hashes the password and stores a new account
func (s *Service) CreateUser(username, email, password string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	if s.limits.MaxUsers > 0 {
		n, err := s.store.CountUsers()
		if err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		if n >= s.limits.MaxUsers {
			return nil, ErrUserLimit
		}
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := storage.UserRecord{
		UserID:       uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(record); err != nil {
		return nil, err
	}

	log.Info().Str("user", record.UserID).Str("username", username).Msg("user registered")
	return userFromRecord(&record), nil
}

// AuthenticateUser checks a username and password
func (s *Service) AuthenticateUser(username, password string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	record, err := s.store.GetUserByUsername(username)
	if err != nil {
		// Hash anyway so unknown users take as long as wrong passwords
		auth.HashPassword(password)
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(password, record.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	return userFromRecord(record), nil
}

func (s *Service) UpdateLastLogin(userID string) error {
	if s.store == nil {
		return ErrStorageDisabled
	}
	return s.store.UpdateUserLastLogin(userID, time.Now().UTC())
}

func (s *Service) GetUserByID(userID string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	record, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	return userFromRecord(record), nil
}

// GenerateUserToken opens a new session for the user, replacing any previous
// one, and returns a JWT carrying the session ID in its "sid" claim
func (s *Service) GenerateUserToken(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	sessionID := uuid.New().String()
	now := time.Now().UTC()
	err = s.store.CreateSession(storage.SessionRecord{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.limits.SessionTTL),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	claims := map[string]any{
		"username": user.Username,
		"sid":      sessionID,
	}
	return auth.GenerateHS256Token(s.jwtSecret, userID, claims, s.limits.SessionTTL)
}

// ValidateToken verifies the signature and, with storage enabled, that the
// session named by the token is still live
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	userID, claims, err := auth.ValidateHS256Token(s.jwtSecret, token)
	if err != nil {
		return "", nil, err
	}
	if s.store == nil {
		return userID, claims, nil
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", nil, ErrSessionInvalid
	}
	valid, err := s.store.IsSessionValid(sid)
	if err != nil {
		return "", nil, fmt.Errorf("session lookup: %w", err)
	}
	if !valid {
		return "", nil, ErrSessionInvalid
	}
	return userID, claims, nil
}

// Logout revokes the session carried in the token claims
func (s *Service) Logout(claims map[string]any) error {
	if s.store == nil {
		return ErrStorageDisabled
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return ErrSessionInvalid
	}
	if err := s.store.DeleteSession(sid); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}
