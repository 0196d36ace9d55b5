package http

import (
	"fmt"
	"reflect"
	"strings"

	"checkers/internal/server/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

const (
	localBody   = "validatedBody"
	localUserID = "userID"
	localClaims = "claims"
)

// validationMiddleware parses and validates JSON bodies of game routes and
// stores the result for the handler
func validationMiddleware(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Next()
	}

	path := c.Path()
	var req any
	switch {
	case strings.HasSuffix(path, "/games"):
		req = &core.CreateGameRequest{}
	case strings.HasSuffix(path, "/join"):
		req = &core.JoinGameRequest{}
	case strings.HasSuffix(path, "/moves"):
		req = &core.MoveRequest{}
	case strings.HasSuffix(path, "/undo"):
		req = &core.UndoRequest{}
	default:
		return c.Next()
	}

	if errResp := parseAndValidate(c, req); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}
	c.Locals(localBody, req)
	return c.Next()
}

// parseAndValidate fills dst from the request body and runs struct validation.
// An empty body on create is allowed and yields defaults.
func parseAndValidate(c *fiber.Ctx, dst any) *core.ErrorResponse {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return &core.ErrorResponse{
				Error:   "invalid request body",
				Code:    core.ErrInvalidRequest,
				Details: err.Error(),
			}
		}
	}

	if err := validate.Struct(dst); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return &core.ErrorResponse{Error: "validation failed", Code: core.ErrInvalidRequest, Details: err.Error()}
		}
		return &core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describe(verrs),
		}
	}
	return nil
}

func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		unit := ""
		if err.Type().Kind() == reflect.String {
			unit = " characters"
		}
		switch err.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", err.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param()))
		case "len":
			parts = append(parts, fmt.Sprintf("%s must be exactly %s%s", err.Field(), err.Param(), unit))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s%s", err.Field(), err.Param(), unit))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s%s", err.Field(), err.Param(), unit))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// body returns the request parsed by validationMiddleware
func body[T any](c *fiber.Ctx) (T, bool) {
	var zero T
	v, ok := c.Locals(localBody).(*T)
	if !ok || v == nil {
		return zero, false
	}
	return *v, true
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
