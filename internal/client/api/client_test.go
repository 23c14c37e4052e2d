package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestPing(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "ok"})
		})
		assert.NoError(t, c.Ping(context.Background()))
	})

	t.Run("server down", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", time.Second)
		assert.Error(t, c.Ping(context.Background()))
	})
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/auth/register", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "John", body["name"])
			assert.Equal(t, "john@example.com", body["email"])

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"message": "User registered successfully!",
				"data": map[string]any{
					"user":  map[string]any{"id": "u1", "name": "John", "email": "john@example.com"},
					"token": "tok123",
				},
			})
		})

		res, err := c.Register(context.Background(), "John", "john@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "u1", res.User.ID)
		assert.Equal(t, "tok123", res.Token)
	})

	t.Run("conflict surfaces the server message", func(t *testing.T) {
		c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "User already exists with this email",
			})
		})

		_, err := c.Register(context.Background(), "John", "john@example.com", "password123")
		require.Error(t, err)
		assert.EqualError(t, err, "User already exists with this email")
	})
}

func TestLogin(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Login successful!",
			"data": map[string]any{
				"user":  map[string]any{"id": "u1", "email": "john@example.com", "loginCount": 3},
				"token": "tok456",
			},
		})
	})

	res, err := c.Login(context.Background(), "john@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "tok456", res.Token)
	assert.Equal(t, int64(3), res.User.LoginCount)
}

func TestMe(t *testing.T) {
	t.Run("sends bearer token", func(t *testing.T) {
		c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer tok789", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"user": map[string]any{"id": "u1", "name": "John", "loginCount": 1},
				},
			})
		})

		u, err := c.Me(context.Background(), "tok789")
		require.NoError(t, err)
		assert.Equal(t, "John", u.Name)
	})

	t.Run("rejected token", func(t *testing.T) {
		c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid token"})
		})

		_, err := c.Me(context.Background(), "bad")
		assert.EqualError(t, err, "Invalid token")
	})
}

func TestListUsers(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"users": []map[string]any{
					{"id": "u1", "email": "a@example.com"},
					{"id": "u2", "email": "b@example.com"},
				},
			},
		})
	})

	list, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b@example.com", list[1].Email)
}

func TestDo_NonJSONResponse(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
