// Package model defines domain entities for the application.
package model

import "time"

// Account represents a registered identity.
//
// Email is the natural key for login and federation linking. Emails are
// normalized (lowercased, trimmed) by the auth service before any store
// call, so lookups are effectively case-insensitive.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
