// Package models defines persistence-level data structures shared by
// repositories and services on the server side.
package models

import "time"

// User is a single account record as held by the record store.
//
// The JSON tags describe the persisted layout (the file and S3 backends
// store records verbatim): PasswordHash lands in the legacy "password"
// field and always holds the bcrypt digest, never the plaintext.
// LastLogin stays null until the first successful login.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin"`
	LoginCount   int64      `json:"loginCount"`
}
