package server

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"corkboard/internal/middleware"
	"corkboard/internal/models"
	"corkboard/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultBoardPageSize = 10
	defaultPostPageSize  = 20
	maxPaginationLimit   = 100
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parsePostCursor reads the cursor and cursor_id query parameters.
// No cursor means the first page. A cursor without an id pages strictly by time.
// An unescaped '+' offset arrives decoded as a space and is restored.
func parsePostCursor(c *fiber.Ctx) (*repository.PostCursor, error) {
	raw := strings.TrimSpace(c.Query("cursor"))
	if raw == "" {
		return nil, nil
	}
	raw = strings.Replace(raw, " ", "+", 1)
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("cursor must be an RFC 3339 timestamp"))
		return nil, errResponseWritten
	}

	cursor := &repository.PostCursor{CreatedAt: at.UTC()}
	if c.Query("cursor_id") != "" {
		id := c.QueryInt("cursor_id", 0)
		if id <= 0 {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("cursor_id must be a positive integer"))
			return nil, errResponseWritten
		}
		cursor.ID = uint(id)
	}
	return cursor, nil
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam turns "boardId" into "board ID".
func humanizeParam(param string) string {
	if base, ok := strings.CutSuffix(param, "Id"); ok && base != "" {
		return base + " ID"
	}
	return param
}

var statusByCode = map[string]int{
	models.CodeUnauthenticated:    fiber.StatusUnauthorized,
	models.CodeSessionInvalid:     fiber.StatusForbidden,
	models.CodeUserNotFound:       fiber.StatusNotFound,
	models.CodeNotFound:           fiber.StatusNotFound,
	models.CodeForbidden:          fiber.StatusForbidden,
	models.CodeLoginRequired:      fiber.StatusForbidden,
	models.CodeNameConflict:       fiber.StatusConflict,
	models.CodeEmailConflict:      fiber.StatusConflict,
	models.CodeEmptyUpdate:        fiber.StatusUnprocessableEntity,
	models.CodeValidation:         fiber.StatusBadRequest,
	models.CodeRelationMismatch:   fiber.StatusNotFound,
	models.CodeNoAccessibleBoards: fiber.StatusNotFound,
	models.CodeNoPostsInBoard:     fiber.StatusNotFound,
	models.CodeEndOfPage:          fiber.StatusNotFound,
	models.CodeInvalidCredentials: fiber.StatusBadRequest,
}

// statusFor maps a service error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	if status, ok := statusByCode[models.CodeOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// respondError writes err with the status its code maps to.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed", slog.String("error", err.Error()))
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// parseBody decodes the request body into dst, writing a 400 on failure.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}
