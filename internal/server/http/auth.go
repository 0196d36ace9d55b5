package http

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"checkers/internal/server/core"
	"checkers/internal/server/service"
	"checkers/internal/server/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,40}$`)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=40"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=40"`
	Password string `json:"password" validate:"required,max=128"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	UserID      string     `json:"userId"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func (h *HTTPHandler) RegisterHandler(c *fiber.Ctx) error {
	var req RegisterRequest
	if errResp := parseAndValidate(c, &req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}
	if !usernamePattern.MatchString(req.Username) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid username format",
			Code:    core.ErrInvalidRequest,
			Details: "username must be 1-40 characters, alphanumeric and underscore only",
		})
	}
	if err := validatePassword(req.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "weak password",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	user, err := h.svc.CreateUser(strings.ToLower(req.Username), strings.ToLower(req.Email), req.Password)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrUserExists):
		return c.Status(fiber.StatusConflict).JSON(core.ErrorResponse{
			Error:   "user already exists",
			Code:    core.ErrInvalidRequest,
			Details: "username or email already taken",
		})
	case errors.Is(err, service.ErrUserLimit):
		return c.Status(fiber.StatusServiceUnavailable).JSON(core.ErrorResponse{
			Error: "registration closed",
			Code:  core.ErrResourceLimit,
		})
	case errors.Is(err, service.ErrStorageDisabled):
		return accountsUnavailable(c)
	default:
		log.Error().Err(err).Msg("register failed")
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to create user",
			Code:  core.ErrInternalError,
		})
	}

	return h.issueToken(c, user, fiber.StatusCreated)
}

func (h *HTTPHandler) LoginHandler(c *fiber.Ctx) error {
	var req LoginRequest
	if errResp := parseAndValidate(c, &req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	user, err := h.svc.AuthenticateUser(strings.ToLower(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrStorageDisabled) {
			return accountsUnavailable(c)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
			Error: "invalid credentials",
			Code:  core.ErrUnauthorized,
		})
	}

	if err := h.svc.UpdateLastLogin(user.UserID); err != nil {
		log.Warn().Err(err).Str("user", user.UserID).Msg("failed to record login time")
	}
	return h.issueToken(c, user, fiber.StatusOK)
}

// LogoutHandler revokes the session behind the presented token
func (h *HTTPHandler) LogoutHandler(c *fiber.Ctx) error {
	claims, _ := c.Locals(localClaims).(map[string]any)
	if err := h.svc.Logout(claims); err != nil {
		if errors.Is(err, service.ErrStorageDisabled) {
			return accountsUnavailable(c)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
			Error: "no active session",
			Code:  core.ErrUnauthorized,
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HTTPHandler) GetCurrentUserHandler(c *fiber.Ctx) error {
	user, err := h.svc.GetUserByID(userID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "user not found",
			Code:  core.ErrInvalidRequest,
		})
	}
	return c.JSON(UserResponse{
		UserID:      user.UserID,
		Username:    user.Username,
		Email:       user.Email,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	})
}

func (h *HTTPHandler) issueToken(c *fiber.Ctx, user *service.User, status int) error {
	token, err := h.svc.GenerateUserToken(user.UserID)
	if err != nil {
		log.Error().Err(err).Str("user", user.UserID).Msg("token generation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to generate token",
			Code:  core.ErrInternalError,
		})
	}
	return c.Status(status).JSON(AuthResponse{
		Token:     token,
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(h.svc.SessionTTL()),
	})
}

func accountsUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(core.ErrorResponse{
		Error:   "accounts unavailable",
		Code:    core.ErrInternalError,
		Details: "server is running without storage",
	})
}

// validatePassword requires at least one letter and one digit
func validatePassword(password string) error {
	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsNumber(r):
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return fmt.Errorf("password must contain at least one letter and one number")
	}
	return nil
}
