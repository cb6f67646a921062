package usecase

import (
	"context"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"
)

// CredentialAdapter owns all contact with provider credentials. The rest of
// the core only ever sees non-secret handles and account counts.
type CredentialAdapter interface {
	// HasStoredCredentials reports whether a quick reconnect is possible,
	// along with a masked display email. Non-blocking.
	HasStoredCredentials(userID, provider string) (bool, string, error)
	// Authenticate performs the interactive handshake and stores the
	// resulting credential.
	Authenticate(ctx context.Context, userID, provider, code string) (*conndomain.Handle, error)
	// Reauthenticate performs the handshake with the stored credential,
	// rotating it on success. Returns domain.ErrNoStoredCredentials when
	// nothing is stored and *domain.AuthError when the credential no longer
	// authenticates.
	Reauthenticate(ctx context.Context, userID, provider string) (*conndomain.Handle, error)
	// SyncAccounts pulls fresh data from the provider using the stored
	// credential and returns the downstream account count.
	SyncAccounts(ctx context.Context, userID, provider string) (int, error)
}

// SyncDispatcher runs at most one sync job per connection at a time.
type SyncDispatcher interface {
	// TriggerSync admits a job for the connection. Returns
	// domain.ErrSyncInProgress when one is already running and
	// domain.ErrNotFound for unknown connections.
	TriggerSync(connectionID string) error
	// Cancel marks the connection's in-flight job discardable so its outcome
	// can never land after the connection is gone.
	Cancel(connectionID string)
	// Active reports whether a job is currently in flight.
	Active(connectionID string) bool
	// Stop cancels all in-flight jobs, for shutdown.
	Stop()
}

// ConnectionUsecase is the connection lifecycle manager, the only surface the
// delivery layer talks to.
type ConnectionUsecase interface {
	Connect(ctx context.Context, userID, provider, code, name string) (*conndomain.Connection, error)
	Reconnect(ctx context.Context, userID, provider string) (*conndomain.Connection, error)
	SyncNow(userID, connectionID string) error
	Disconnect(userID, connectionID string) error
	ListForUser(userID string) ([]conndomain.Connection, error)
	GetByID(userID, connectionID string) (*conndomain.Connection, error)
	UpdateConnection(userID, connectionID string, name *string, frequency *conndomain.SyncFrequency) (*conndomain.Connection, error)
	CheckCredentials(userID, provider string) (bool, string, error)
}
