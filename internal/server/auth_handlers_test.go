package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"corkboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	ts := newTestServer(t)

	r := ts.do(t, http.MethodPost, "/api/users/signup", "", fiber.Map{
		"email": "ada@example.com", "password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, r.status, string(r.body))

	var user models.User
	r.decode(t, &user)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, models.DefaultFullName, user.FullName)
	assert.NotContains(t, string(r.body), "password")

	t.Run("duplicate email", func(t *testing.T) {
		r := ts.do(t, http.MethodPost, "/api/users/signup", "", fiber.Map{
			"email": "ada@example.com", "password": "password456",
		})
		assert.Equal(t, fiber.StatusConflict, r.status)
		assert.Equal(t, models.CodeEmailConflict, r.errorCode(t))
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, body := range []fiber.Map{
			{"email": "not-an-email", "password": "password123"},
			{"email": "bob@example.com", "password": "short"},
			{"email": "bob@example.com", "password": "password123", "full_name": strings.Repeat("x", 31)},
		} {
			r := ts.do(t, http.MethodPost, "/api/users/signup", "", body)
			assert.Equal(t, fiber.StatusBadRequest, r.status, string(r.body))
			assert.Equal(t, models.CodeValidation, r.errorCode(t))
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/users/signup", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		r := ts.send(t, req)
		assert.Equal(t, fiber.StatusBadRequest, r.status)
	})
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	r := ts.do(t, http.MethodPost, "/api/users/signup", "", fiber.Map{
		"email": "grace@example.com", "password": "password123", "full_name": "Grace",
	})
	require.Equal(t, fiber.StatusCreated, r.status)

	t.Run("json sets http-only cookie", func(t *testing.T) {
		r := ts.do(t, http.MethodPost, "/api/login", "", fiber.Map{
			"email": "grace@example.com", "password": "password123",
		})
		require.Equal(t, fiber.StatusOK, r.status, string(r.body))

		var cookie *http.Cookie
		for _, c := range r.cookies {
			if c.Name == testCookie {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, 86400, cookie.MaxAge)
		assert.True(t, ts.mr.Exists("session:"+cookie.Value))
	})

	t.Run("form with username", func(t *testing.T) {
		form := url.Values{"username": {"grace@example.com"}, "password": {"password123"}}
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r := ts.send(t, req)
		require.Equal(t, fiber.StatusOK, r.status, string(r.body))
		assert.NotEmpty(t, sessionFrom(t, r))
	})

	t.Run("bad credentials", func(t *testing.T) {
		for _, body := range []fiber.Map{
			{"email": "grace@example.com", "password": "wrong-password"},
			{"email": "nobody@example.com", "password": "password123"},
		} {
			r := ts.do(t, http.MethodPost, "/api/login", "", body)
			assert.Equal(t, fiber.StatusBadRequest, r.status)
			assert.Equal(t, models.CodeInvalidCredentials, r.errorCode(t))
			assert.Empty(t, r.cookies)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		r := ts.do(t, http.MethodPost, "/api/login", "", fiber.Map{"email": "grace@example.com"})
		assert.Equal(t, fiber.StatusBadRequest, r.status)
		assert.Equal(t, models.CodeValidation, r.errorCode(t))
	})
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token, user := ts.account(t)

	r := ts.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	var me models.User
	r.decode(t, &me)
	assert.Equal(t, user.ID, me.ID)

	r = ts.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, fiber.StatusOK, r.status)
	for _, c := range r.cookies {
		if c.Name == testCookie {
			assert.Empty(t, c.Value)
		}
	}
	assert.False(t, ts.mr.Exists("session:"+token))

	r = ts.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, fiber.StatusForbidden, r.status)
	assert.Equal(t, models.CodeSessionInvalid, r.errorCode(t))
}

func TestSessionRequired(t *testing.T) {
	ts := newTestServer(t)

	r := ts.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.status)
	assert.Equal(t, models.CodeUnauthenticated, r.errorCode(t))

	r = ts.do(t, http.MethodPost, "/api/logout", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.status)

	r = ts.do(t, http.MethodGet, "/api/users/me", "not-a-session", nil)
	assert.Equal(t, fiber.StatusForbidden, r.status)
	assert.Equal(t, models.CodeSessionInvalid, r.errorCode(t))
}

func TestSessionExpires(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.account(t)

	ts.mr.FastForward(25 * time.Hour)

	r := ts.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, fiber.StatusForbidden, r.status)
	assert.Equal(t, models.CodeSessionInvalid, r.errorCode(t))
}
