// Package models defines the core data structures for users, scan results,
// and scan history, plus the sentinel errors shared across layers.
package models

import (
	"errors"
	"time"
)

// User represents an application account.
type User struct {
	// ID is the store-assigned unique identifier for the user.
	ID string `json:"id"`
	// Name is the display name chosen at signup.
	Name string `json:"name"`
	// Email is the normalized (trimmed, lowercased) unique email address.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the user's password. Never serialized.
	PasswordHash string `json:"-"`
	// CreatedAt is the account creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// ScanStatus is the classification verdict for a scanned URL.
type ScanStatus string

const (
	// StatusSafe means the threat oracle found no matches for the URL.
	StatusSafe ScanStatus = "safe"
	// StatusTrusted is the degraded-confidence positive verdict returned
	// when the oracle cannot be consulted but there is no evidence of harm.
	StatusTrusted ScanStatus = "trusted"
	// StatusUnsafe means the oracle reported one or more threat matches.
	StatusUnsafe ScanStatus = "unsafe"
	// StatusError means no verdict was reached. Never persisted to history.
	StatusError ScanStatus = "error"
)

// ScanResult is the outcome of classifying a single URL.
type ScanResult struct {
	// Status is the classification verdict.
	Status ScanStatus `json:"status"`
	// Threats lists the oracle's threat-type labels. Non-empty only for unsafe.
	Threats []string `json:"threats,omitempty"`
	// Message carries a diagnostic for error results and an explanation
	// for trusted results.
	Message string `json:"message,omitempty"`
}

// HistoryRecord is a single scan recorded for an authenticated user.
type HistoryRecord struct {
	// ID is the store-assigned unique identifier for the record.
	ID string `json:"id"`
	// UserID references the owning account.
	UserID string `json:"-"`
	// URL is the scanned URL as submitted.
	URL string `json:"url"`
	// Result is the persisted verdict (safe, trusted, or unsafe).
	Result ScanStatus `json:"result"`
	// CreatedAt is the time the scan was recorded.
	CreatedAt time.Time `json:"timestamp"`
}

var (
	// ErrDuplicateEmail indicates that an account with the same normalized
	// email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates missing or malformed caller input. Wrapped
	// with a field-level reason at the point of validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials indicates a failed login. The same error is
	// returned for an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken indicates a missing, malformed, expired, or otherwise
	// unverifiable bearer token. All token failures collapse to this error.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNoQRCode indicates that no QR code could be decoded from an image.
	ErrNoQRCode = errors.New("no QR code found in image")
)
