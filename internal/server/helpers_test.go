package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"corkboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"boardId", "board ID"},
		{"postId", "post ID"},
		{"Id", "Id"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{models.NewUnauthenticatedError(), fiber.StatusUnauthorized},
		{models.NewSessionInvalidError(), fiber.StatusForbidden},
		{models.NewUserNotFoundError(), fiber.StatusNotFound},
		{models.NewNotFoundError("Board", 1), fiber.StatusNotFound},
		{models.NewForbiddenError("board", "x"), fiber.StatusForbidden},
		{models.NewLoginRequiredError("x"), fiber.StatusForbidden},
		{models.NewNameConflictError("x"), fiber.StatusConflict},
		{models.NewEmailConflictError(), fiber.StatusConflict},
		{models.NewEmptyUpdateError(), fiber.StatusUnprocessableEntity},
		{models.NewValidationError("bad"), fiber.StatusBadRequest},
		{models.NewRelationMismatchError("x"), fiber.StatusNotFound},
		{models.NewNoAccessibleBoardsError(), fiber.StatusNotFound},
		{models.NewNoPostsInBoardError("x"), fiber.StatusNotFound},
		{models.NewEndOfPageError(), fiber.StatusNotFound},
		{models.NewInvalidCredentialsError(), fiber.StatusBadRequest},
		{models.NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{errors.New("plain"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(models.CodeOf(tt.err), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return respondError(c, errors.New("pq: connection refused"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, models.CodeInternal, body.Code)
	assert.NotContains(t, body.Error, "connection refused")
}

func paginationApp(defaultLimit int) *fiber.App {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePagination(c, defaultLimit)
		return c.JSON(fiber.Map{"limit": p.Limit, "offset": p.Offset})
	})
	return app
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		limit  float64
		offset float64
	}{
		{"defaults", "", 10, 0},
		{"custom", "?limit=5&offset=30", 5, 30},
		{"limit clamped", "?limit=1000", 100, 0},
		{"zero limit uses default", "?limit=0", 10, 0},
		{"negative offset", "?offset=-4", 10, 0},
		{"garbage", "?limit=abc&offset=xyz", 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := paginationApp(defaultBoardPageSize).Test(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body map[string]float64
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.limit, body["limit"])
			assert.Equal(t, tt.offset, body["offset"])
		})
	}
}

func cursorApp() *fiber.App {
	app := fiber.New()
	app.Get("/posts", func(c *fiber.Ctx) error {
		cursor, err := parsePostCursor(c)
		if err != nil {
			return nil
		}
		if cursor == nil {
			return c.JSON(fiber.Map{"first": true})
		}
		return c.JSON(fiber.Map{"at": cursor.CreatedAt.Format(time.RFC3339Nano), "id": cursor.ID})
	})
	return app
}

func TestParsePostCursor(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		resp, err := cursorApp().Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["first"])
	})

	t.Run("timestamp and id", func(t *testing.T) {
		resp, err := cursorApp().Test(httptest.NewRequest(http.MethodGet, "/posts?cursor=2024-05-01T10:00:00.123456Z&cursor_id=7", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "2024-05-01T10:00:00.123456Z", body["at"])
		assert.Equal(t, float64(7), body["id"])
	})

	for name, query := range map[string]string{
		"encoded offset":   "?cursor=2024-05-01T19:00:00%2B09:00&cursor_id=3",
		"unescaped offset": "?cursor=2024-05-01T19:00:00+09:00&cursor_id=3",
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := cursorApp().Test(httptest.NewRequest(http.MethodGet, "/posts"+query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "2024-05-01T10:00:00Z", body["at"])
			assert.Equal(t, float64(3), body["id"])
		})
	}

	t.Run("timestamp only", func(t *testing.T) {
		resp, err := cursorApp().Test(httptest.NewRequest(http.MethodGet, "/posts?cursor=2024-05-01T10:00:00Z", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, float64(0), body["id"])
	})

	for _, query := range []string{"?cursor=yesterday", "?cursor=2024-05-01T10:00:00Z&cursor_id=-1", "?cursor=2024-05-01T10:00:00Z&cursor_id=x"} {
		t.Run("rejects "+query, func(t *testing.T) {
			resp, err := cursorApp().Test(httptest.NewRequest(http.MethodGet, "/posts"+query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/boards/:boardId", func(c *fiber.Ctx) error {
		id, err := parseID(c, "boardId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	for path, status := range map[string]int{
		"/boards/12":  fiber.StatusOK,
		"/boards/0":   fiber.StatusBadRequest,
		"/boards/-3":  fiber.StatusBadRequest,
		"/boards/abc": fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode, path)
	}
}
