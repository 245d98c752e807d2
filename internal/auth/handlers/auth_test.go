package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-planner/internal/auth/models"
	"room-planner/internal/auth/repository"
	"room-planner/internal/auth/service"
	"room-planner/internal/common/middleware"
	"room-planner/internal/storage"
)

type testEnv struct {
	app  *fiber.App
	kv   *storage.KV
	repo *repository.Repository
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	db, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background(), "admin", "secret"))

	kv := storage.NewKV(db)
	auth := service.NewAuthenticator(service.NewSessionManager(0), "", "")
	h := NewAuthHandler(repo, auth, kv, false)

	app := fiber.New()
	app.Post("/login", h.Login)
	app.Post("/register", h.Register)
	app.Post("/logout", h.Logout)
	app.Get("/me", middleware.RequireAuth(auth), h.Me)
	app.Get("/state", middleware.RequireAuth(auth), h.State)
	return testEnv{app: app, kv: kv, repo: repo}
}

func (e testEnv) do(t *testing.T, method, path, body, token string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func login(t *testing.T, e testEnv, login, password string) loginResponse {
	t.Helper()
	resp, body := e.do(t, "POST", "/login", `{"login":"`+login+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out loginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestLoginRejectsBadInput(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.do(t, "POST", "/login", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = e.do(t, "POST", "/login", `{"login":"admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = e.do(t, "POST", "/login", `{"login":"admin","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = e.do(t, "POST", "/login", `{"login":"ghost","password":"secret"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginIssuesSessionAndState(t *testing.T) {
	e := newTestEnv(t)
	out := login(t, e, "admin", "secret")
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "admin", out.User.Login)

	resp, body := e.do(t, "GET", "/me", "", out.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"login":"admin"`)
	assert.NotContains(t, string(body), "password")

	resp, body = e.do(t, "GET", "/state", "", out.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st models.State
	require.NoError(t, json.Unmarshal(body, &st))
	assert.True(t, st.IsAuthenticated)
	require.NotNil(t, st.Session)
	assert.Equal(t, out.Token, st.Session.Token)
}

func TestLogoutRevokesAndClearsState(t *testing.T) {
	e := newTestEnv(t)
	out := login(t, e, "admin", "secret")

	resp, _ := e.do(t, "POST", "/logout", "", out.Token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = e.do(t, "GET", "/me", "", out.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	data, err := e.kv.Get(context.Background(), out.User.ID, models.StorageKey)
	require.NoError(t, err)
	var st models.State
	require.NoError(t, json.Unmarshal(data, &st))
	assert.False(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, "POST", "/register", `{"login":"ana","password":"pw","name":"Ana"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = e.do(t, "POST", "/register", `{"login":"ana","password":"other"}`, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	out := login(t, e, "ana", "pw")
	assert.Equal(t, "Ana", out.User.Name)
}

func TestInitIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.repo.Init(context.Background(), "admin", "changed"))
	login(t, e, "admin", "secret")
}
