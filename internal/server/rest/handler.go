package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
)

// handleHealth reports service liveness with the current time.
func (s *RestServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{
		Success:   true,
		Message:   "🚀 Simple Auth API is running!",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleRegister creates an account and answers with the new record and a
// session token.
func (s *RestServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	res, err := s.users.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorMissingFields):
			writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		case errors.Is(err, common.ErrorPasswordTooShort):
			writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, common.ErrorAlreadyExists):
			writeError(w, http.StatusConflict, "User already exists with this email")
		default:
			s.logger.Error(ctx, "registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, apiResponse{
		Success: true,
		Message: "User registered successfully!",
		Data:    authData{User: toRegisteredUser(res.User), Token: res.Token},
	})
}

// handleLogin verifies credentials and answers with updated login stats and
// a fresh session token.
func (s *RestServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorMissingFields):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			s.logger.Error(ctx, "login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Login successful!",
		Data:    authData{User: toSessionUser(res.User), Token: res.Token},
	})
}

// handleMe returns the profile of the account the bearer token was issued
// for. The token is re-verified on every call; a valid token whose account
// has since been removed yields 404.
func (s *RestServer) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error(ctx, "profile lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Data:    userData{User: toProfileUser(user)},
	})
}

// handleListUsers returns every account in registration order, without
// credentials or login stats.
func (s *RestServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "user listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]registeredUser, 0, len(list))
	for _, u := range list {
		out = append(out, toRegisteredUser(u))
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Data:    usersData{Users: out},
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns "" when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
