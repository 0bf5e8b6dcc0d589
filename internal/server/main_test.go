package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"corkboard/internal/config"
	"corkboard/internal/models"
	"corkboard/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testCookie = "session_id"

type testServer struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	mr     *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewTestDB(t)
	client, mr := testutil.NewTestRedis(t)

	cfg := &config.Config{
		Port:              "0",
		Env:               "test",
		AllowedOrigins:    "http://localhost:8080",
		SessionCookieName: testCookie,
		BcryptCost:        bcrypt.MinCost,
	}
	s, err := NewServerWithDeps(cfg, db, client)
	require.NoError(t, err)

	return &testServer{server: s, app: s.App(), db: db, mr: mr}
}

type response struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (r response) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst), string(r.body))
}

func (r response) errorCode(t *testing.T) string {
	t.Helper()
	var body models.ErrorResponse
	r.decode(t, &body)
	return body.Code
}

// do sends a JSON request, attaching the session token when non-empty.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	return ts.send(t, req)
}

func (ts *testServer) send(t *testing.T, req *http.Request) response {
	t.Helper()
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: raw, cookies: resp.Cookies()}
}

func sessionFrom(t *testing.T, r response) string {
	t.Helper()
	for _, c := range r.cookies {
		if c.Name == testCookie {
			return c.Value
		}
	}
	t.Fatalf("no %s cookie in response", testCookie)
	return ""
}

var accountSeq int

// account signs up a fresh user and logs them in, returning the session token.
func (ts *testServer) account(t *testing.T) (string, *models.User) {
	t.Helper()
	accountSeq++
	email := fmt.Sprintf("member%d@example.com", accountSeq)

	r := ts.do(t, http.MethodPost, "/api/users/signup", "", fiber.Map{
		"email": email, "password": "password123", "full_name": fmt.Sprintf("Member %d", accountSeq),
	})
	require.Equal(t, fiber.StatusCreated, r.status, string(r.body))

	r = ts.do(t, http.MethodPost, "/api/login", "", fiber.Map{"email": email, "password": "password123"})
	require.Equal(t, fiber.StatusOK, r.status, string(r.body))

	var user models.User
	r.decode(t, &user)
	return sessionFrom(t, r), &user
}

func (ts *testServer) createBoard(t *testing.T, token, name string, public bool) *models.Board {
	t.Helper()
	r := ts.do(t, http.MethodPost, "/api/boards", token, fiber.Map{"name": name, "public": public})
	require.Equal(t, fiber.StatusCreated, r.status, string(r.body))
	var board models.Board
	r.decode(t, &board)
	return &board
}

func (ts *testServer) createPost(t *testing.T, token string, boardID uint, title string) *models.Post {
	t.Helper()
	r := ts.do(t, http.MethodPost, fmt.Sprintf("/api/boards/%d/posts", boardID), token,
		fiber.Map{"title": title, "content": "about " + strings.ToLower(title)})
	require.Equal(t, fiber.StatusCreated, r.status, string(r.body))
	var post models.Post
	r.decode(t, &post)
	return &post
}
