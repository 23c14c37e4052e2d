package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

// newTestServer wires a full stack (file repository in a temp dir, real
// service, real handlers) behind an httptest server.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	repo := users.NewFileRepository(filepath.Join(t.TempDir(), "database.json"))
	cfg := &config.Config{SecretKey: testSecret, TokenValidityDuration: time.Hour}
	svc := services.NewUserService(repo, cfg)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv, err := NewRestServer(":0", logger, svc, testSecret)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body map[string]any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func register(t *testing.T, ts *httptest.Server, name, email, password string) (*http.Response, map[string]any) {
	t.Helper()
	return doJSON(t, ts, http.MethodPost, "/api/auth/register",
		map[string]any{"name": name, "email": email, "password": password}, nil)
}

func login(t *testing.T, ts *httptest.Server, email, password string) (*http.Response, map[string]any) {
	t.Helper()
	return doJSON(t, ts, http.MethodPost, "/api/auth/login",
		map[string]any{"email": email, "password": password}, nil)
}

func dataField(t *testing.T, body map[string]any, keys ...string) map[string]any {
	t.Helper()
	cur, ok := body["data"].(map[string]any)
	require.True(t, ok, "missing data object in %v", body)
	for _, k := range keys {
		cur, ok = cur[k].(map[string]any)
		require.True(t, ok, "missing %q in data", k)
	}
	return cur
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "🚀 Simple Auth API is running!", body["message"])

	ts1, ok := body["timestamp"].(string)
	require.True(t, ok, "timestamp missing")
	_, err := time.Parse(time.RFC3339, ts1)
	assert.NoError(t, err)
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t)

		resp, body := register(t, ts, "John", "john@example.com", "password123")
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "User registered successfully!", body["message"])

		data := body["data"].(map[string]any)
		assert.NotEmpty(t, data["token"])

		user := dataField(t, body, "user")
		assert.NotEmpty(t, user["id"])
		assert.Equal(t, "John", user["name"])
		assert.Equal(t, "john@example.com", user["email"])
		assert.NotEmpty(t, user["createdAt"])
		assert.NotContains(t, user, "password")
		assert.NotContains(t, user, "loginCount")
	})

	t.Run("missing fields", func(t *testing.T) {
		ts := newTestServer(t)

		resp, body := register(t, ts, "John", "", "password123")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Name, email, and password are required", body["message"])
	})

	t.Run("short password", func(t *testing.T) {
		ts := newTestServer(t)

		resp, body := register(t, ts, "John", "john@example.com", "12345")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Password must be at least 6 characters", body["message"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		ts := newTestServer(t)

		resp, _ := register(t, ts, "John", "john@example.com", "password123")
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, body := register(t, ts, "Johnny", "john@example.com", "otherpass99")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "User already exists with this email", body["message"])
	})

	t.Run("malformed body", func(t *testing.T) {
		ts := newTestServer(t)

		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/auth/register",
			bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success updates login stats", func(t *testing.T) {
		ts := newTestServer(t)
		register(t, ts, "John", "john@example.com", "password123")

		resp, body := login(t, ts, "john@example.com", "password123")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Login successful!", body["message"])

		data := body["data"].(map[string]any)
		assert.NotEmpty(t, data["token"])

		user := dataField(t, body, "user")
		assert.Equal(t, float64(1), user["loginCount"])
		assert.NotEmpty(t, user["lastLogin"])
		assert.NotContains(t, user, "password")

		_, body = login(t, ts, "john@example.com", "password123")
		user = dataField(t, body, "user")
		assert.Equal(t, float64(2), user["loginCount"])
	})

	t.Run("missing fields", func(t *testing.T) {
		ts := newTestServer(t)

		resp, body := login(t, ts, "", "password123")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Email and password are required", body["message"])
	})

	t.Run("unknown email and wrong password answer alike", func(t *testing.T) {
		ts := newTestServer(t)
		register(t, ts, "John", "john@example.com", "password123")

		respUnknown, bodyUnknown := login(t, ts, "nobody@example.com", "password123")
		respWrong, bodyWrong := login(t, ts, "john@example.com", "wrongpass99")

		assert.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, respWrong.StatusCode)
		assert.Equal(t, "Invalid email or password", bodyUnknown["message"])
		assert.Equal(t, bodyUnknown["message"], bodyWrong["message"])
	})
}

func TestMe(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t)
		_, regBody := register(t, ts, "John", "john@example.com", "password123")
		token := regBody["data"].(map[string]any)["token"].(string)

		resp, body := doJSON(t, ts, http.MethodGet, "/api/auth/me", nil,
			map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.NotContains(t, body, "message")

		user := dataField(t, body, "user")
		assert.Equal(t, "john@example.com", user["email"])
		assert.Equal(t, float64(0), user["loginCount"])
		assert.Nil(t, user["lastLogin"])
		assert.NotEmpty(t, user["createdAt"])
		assert.NotContains(t, user, "password")
	})

	t.Run("reflects logins", func(t *testing.T) {
		ts := newTestServer(t)
		register(t, ts, "John", "john@example.com", "password123")
		_, loginBody := login(t, ts, "john@example.com", "password123")
		token := loginBody["data"].(map[string]any)["token"].(string)

		_, body := doJSON(t, ts, http.MethodGet, "/api/auth/me", nil,
			map[string]string{"Authorization": "Bearer " + token})
		user := dataField(t, body, "user")
		assert.Equal(t, float64(1), user["loginCount"])
		assert.NotEmpty(t, user["lastLogin"])
	})

	t.Run("no token", func(t *testing.T) {
		ts := newTestServer(t)

		resp, body := doJSON(t, ts, http.MethodGet, "/api/auth/me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Access denied. No token provided.", body["message"])
	})

	t.Run("invalid token", func(t *testing.T) {
		ts := newTestServer(t)

		resp, body := doJSON(t, ts, http.MethodGet, "/api/auth/me", nil,
			map[string]string{"Authorization": "Bearer not-a-token"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid token", body["message"])
	})

	t.Run("expired token", func(t *testing.T) {
		ts := newTestServer(t)
		register(t, ts, "John", "john@example.com", "password123")

		expired, err := auth.GenerateToken("whatever", "john@example.com", []byte(testSecret), -time.Hour)
		require.NoError(t, err)

		resp, body := doJSON(t, ts, http.MethodGet, "/api/auth/me", nil,
			map[string]string{"Authorization": "Bearer " + expired})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid token", body["message"])
	})

	t.Run("valid token, account gone", func(t *testing.T) {
		ts := newTestServer(t)

		token, err := auth.GenerateToken("no-such-id", "ghost@example.com", []byte(testSecret), time.Hour)
		require.NoError(t, err)

		resp, body := doJSON(t, ts, http.MethodGet, "/api/auth/me", nil,
			map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "User not found", body["message"])
	})
}

func TestListUsers(t *testing.T) {
	ts := newTestServer(t)

	t.Run("empty", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodGet, "/api/users", nil, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])

		list := body["data"].(map[string]any)["users"].([]any)
		assert.Empty(t, list)
	})

	t.Run("registration order, no secrets", func(t *testing.T) {
		register(t, ts, "John", "john@example.com", "password123")
		register(t, ts, "Jane", "jane@example.com", "password456")

		_, body := doJSON(t, ts, http.MethodGet, "/api/users", nil, nil)
		list := body["data"].(map[string]any)["users"].([]any)
		require.Len(t, list, 2)

		first := list[0].(map[string]any)
		second := list[1].(map[string]any)
		assert.Equal(t, "john@example.com", first["email"])
		assert.Equal(t, "jane@example.com", second["email"])
		for _, u := range []map[string]any{first, second} {
			assert.NotContains(t, u, "password")
			assert.NotContains(t, u, "loginCount")
			assert.NotContains(t, u, "lastLogin")
		}
	})
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/auth/register")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
