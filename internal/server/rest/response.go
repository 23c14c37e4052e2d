package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// apiResponse is the envelope every endpoint answers with. Message, Data,
// and Timestamp are omitted when empty so each endpoint keeps its exact
// field set.
type apiResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{Success: false, Message: msg})
}

// --- request bodies ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- response DTOs ---
//
// Each endpoint exposes its own projection of the account record. None of
// them ever includes the password digest.

type registeredUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionUser struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	LastLogin  *time.Time `json:"lastLogin"`
	LoginCount int64      `json:"loginCount"`
}

type profileUser struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	LastLogin  *time.Time `json:"lastLogin"`
	LoginCount int64      `json:"loginCount"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type authData struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

type userData struct {
	User any `json:"user"`
}

type usersData struct {
	Users []registeredUser `json:"users"`
}

func toRegisteredUser(u *models.User) registeredUser {
	return registeredUser{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toSessionUser(u *models.User) sessionUser {
	return sessionUser{ID: u.ID, Name: u.Name, Email: u.Email, LastLogin: u.LastLogin, LoginCount: u.LoginCount}
}

func toProfileUser(u *models.User) profileUser {
	return profileUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		LastLogin:  u.LastLogin,
		LoginCount: u.LoginCount,
		CreatedAt:  u.CreatedAt,
	}
}
