package repository

import (
	"time"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"
)

// ConnectionRepository is the connection registry. Status transitions are
// expressed as conditional updates so concurrent callers serialize per
// connection without a registry-wide lock.
type ConnectionRepository interface {
	// ListByUser returns the user's connections in creation order.
	ListByUser(userID string) ([]conndomain.Connection, error)
	// FindByID returns (nil, nil) when the connection does not exist.
	FindByID(id string) (*conndomain.Connection, error)
	// FindByAccount looks up the (user, provider, external account) tuple.
	FindByAccount(userID, provider, externalID string) (*conndomain.Connection, error)
	// Create assigns the id and timestamps. Returns domain.ErrConflict when
	// the uniqueness tuple already exists.
	Create(conn *conndomain.Connection) error
	// BeginSync atomically moves connected|error -> syncing. Returns
	// domain.ErrSyncInProgress when a sync is already running and
	// domain.ErrNotFound when the connection is gone.
	BeginSync(id string) error
	// CompleteSync conditionally moves syncing -> connected|error, recording
	// last_sync_at, last_sync_error and account_count. Returns
	// domain.ErrNotFound when the connection was deleted or is no longer
	// syncing; the caller discards the outcome.
	CompleteSync(id string, outcome conndomain.SyncOutcome, at time.Time) error
	// UpdateMeta applies user-editable fields (name, sync frequency).
	UpdateMeta(id string, name *string, frequency *conndomain.SyncFrequency) (*conndomain.Connection, error)
	// Delete removes the connection record only; ingested financial data is
	// never cascaded.
	Delete(id string) error
	// ListDueForSync returns non-manual connections whose last sync is older
	// than their frequency allows, skipping any currently syncing.
	ListDueForSync(now time.Time) ([]conndomain.Connection, error)
}

// CredentialRepository persists reusable provider credentials. It is consumed
// only by the credential adapter.
type CredentialRepository interface {
	// Find returns (nil, nil) when no credential is stored.
	Find(userID, provider string) (*conndomain.CredentialRecord, error)
	// Upsert creates or replaces the credential for (user, provider).
	Upsert(record *conndomain.CredentialRecord) error
	Delete(userID, provider string) error
}
