package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNoSession = errors.New("no active session")
var ErrSessionExpired = errors.New("session expired")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrProfileNotFound = errors.New("profile not found")

// Session is the authenticated identity for one loaded client instance.
// Absence of a Session is itself a valid state (logged out) and gates every
// role- and tenant-scoped component.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
