// Package http exposes the processor over a JSON REST API built on fiber.
package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"checkers/internal/server/core"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Options tune the HTTP surface
type Options struct {
	DevMode   bool
	RateLimit int // game requests per second per client
	AccessLog bool
}

type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, opts Options) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          service.WaitTimeout + 10*time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/health", h.Health)

	api := app.Group("/api/v1")
	validateToken := TokenValidator(svc.ValidateToken)

	auth := api.Group("/auth")
	auth.Post("/register", perMinuteLimiter(5, "registrations"), contentTypeValidator, h.RegisterHandler)
	auth.Post("/login", perMinuteLimiter(10, "login attempts"), contentTypeValidator, h.LoginHandler)
	auth.Post("/logout", AuthRequired(validateToken), h.LogoutHandler)
	auth.Get("/me", AuthRequired(validateToken), h.GetCurrentUserHandler)

	maxReq := opts.RateLimit
	if maxReq <= 0 {
		maxReq = 10
	}
	if opts.DevMode {
		maxReq *= 2
	}
	games := api.Group("/games",
		limiter.New(limiter.Config{
			Max:          maxReq,
			Expiration:   time.Second,
			KeyGenerator: clientKey,
			LimitReached: limitReached(fmt.Sprintf("%d requests per second allowed", maxReq)),
		}),
		contentTypeValidator,
		validationMiddleware,
		OptionalAuth(validateToken),
	)
	games.Post("", h.CreateGame)
	games.Get("/:gameId", h.GetGame)
	games.Delete("/:gameId", h.DeleteGame)
	games.Post("/:gameId/join", h.JoinGame)
	games.Post("/:gameId/moves", h.MakeMove)
	games.Get("/:gameId/moves", h.GetMoves)
	games.Post("/:gameId/undo", h.UndoMove)
	games.Get("/:gameId/board", h.GetBoard)
	games.Get("/:gameId/pieces", h.GetPieces)

	return app
}

func perMinuteLimiter(max int, what string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: limitReached(fmt.Sprintf("%d %s per minute allowed", max, what)),
	})
}

func limitReached(details string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
			Error:   "rate limit exceeded",
			Code:    core.ErrRateLimitExceeded,
			Details: details,
		})
	}
}

// clientKey prefers the first X-Forwarded-For hop when behind a proxy
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	return c.IP()
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message
		switch code {
		case fiber.StatusNotFound, fiber.StatusBadRequest, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes to HTTP status codes
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrUnauthorized:
		return fiber.StatusForbidden
	case core.ErrSlotTaken:
		return fiber.StatusConflict
	case core.ErrResourceLimit:
		return fiber.StatusServiceUnavailable
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// reply writes a processor response with the given success status
func reply(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// gameID reads and checks the :gameId route parameter
func gameID(c *fiber.Ctx) (string, bool) {
	id := c.Params("gameId")
	return id, isValidUUID(id)
}

func badGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

func missingBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: "validated body missing",
		Code:  core.ErrInternalError,
	})
}

// Health reports liveness and the storage state
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
	})
}

func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := body[core.CreateGameRequest](c)
	if !ok {
		return missingBody(c)
	}
	return reply(c, h.proc.Execute(processor.NewCreateGameCommand(userID(c), req)), fiber.StatusCreated)
}

// GetGame returns the game. With wait=true and a moveCount equal to the
// current count it blocks until the game changes or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}

	if c.Query("wait") != "true" {
		return reply(c, h.proc.Execute(processor.NewGetGameCommand(id)), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	current, err := h.svc.MoveCount(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	if moveCount == current {
		ctx := c.Context()
		notify := h.svc.RegisterWait(ctx, id, moveCount)
		select {
		case <-notify:
		case <-ctx.Done():
			return nil
		}
	}

	return reply(c, h.proc.Execute(processor.NewGetGameCommand(id)), fiber.StatusOK)
}

func (h *HTTPHandler) JoinGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	req, ok := body[core.JoinGameRequest](c)
	if !ok {
		return missingBody(c)
	}
	return reply(c, h.proc.Execute(processor.NewJoinGameCommand(id, userID(c), req)), fiber.StatusOK)
}

func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	req, ok := body[core.MoveRequest](c)
	if !ok {
		return missingBody(c)
	}
	return reply(c, h.proc.Execute(processor.NewMakeMoveCommand(id, userID(c), req)), fiber.StatusOK)
}

func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	req, ok := body[core.UndoRequest](c)
	if !ok {
		return missingBody(c)
	}
	return reply(c, h.proc.Execute(processor.NewUndoMoveCommand(id, userID(c), req)), fiber.StatusOK)
}

func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	return reply(c, h.proc.Execute(processor.NewDeleteGameCommand(id, userID(c))), fiber.StatusNoContent)
}

func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	return reply(c, h.proc.Execute(processor.NewGetBoardCommand(id)), fiber.StatusOK)
}

// GetMoves lists the destinations of the piece named by ?square=
func (h *HTTPHandler) GetMoves(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	return reply(c, h.proc.Execute(processor.NewGetMovesCommand(id, c.Query("square"))), fiber.StatusOK)
}

func (h *HTTPHandler) GetPieces(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	return reply(c, h.proc.Execute(processor.NewGetPiecesCommand(id)), fiber.StatusOK)
}
