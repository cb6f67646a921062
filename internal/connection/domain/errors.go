package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the connection (or provider credential) does not exist.
	ErrNotFound = errors.New("connection not found")
	// ErrConflict means the (user, provider, external account) tuple is already linked.
	ErrConflict = errors.New("connection already exists for this account")
	// ErrSyncInProgress means a sync is already running; callers should poll
	// status instead of treating this as a failure.
	ErrSyncInProgress = errors.New("sync already in progress")
	// ErrNoStoredCredentials means reconnect is impossible and a full
	// interactive connect is required.
	ErrNoStoredCredentials = errors.New("no stored credentials for provider")
	// ErrInternalStore wraps registry persistence failures.
	ErrInternalStore = errors.New("connection store failure")
)

// AuthErrorReason classifies why a provider handshake failed.
type AuthErrorReason string

const (
	AuthReasonExpired             AuthErrorReason = "expired"
	AuthReasonRevoked             AuthErrorReason = "revoked"
	AuthReasonProviderUnavailable AuthErrorReason = "provider_unavailable"
)

// AuthError is a failed provider handshake. It is surfaced to the caller and
// never retried automatically.
type AuthError struct {
	Provider string
	Reason   AuthErrorReason
	Err      error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication with %s failed (%s): %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication with %s failed (%s)", e.Provider, e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
