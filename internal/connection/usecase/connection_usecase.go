package usecase

import (
	"context"
	"log"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"
	"github.com/saswatds/moneyy/internal/connection/repository"
)

// connectionUsecase implements ConnectionUsecase by composing the registry,
// the sync dispatcher and the credential adapter.
type connectionUsecase struct {
	connRepo   repository.ConnectionRepository
	dispatcher SyncDispatcher
	creds      CredentialAdapter
}

// NewConnectionUsecase creates a new instance of connectionUsecase
func NewConnectionUsecase(connRepo repository.ConnectionRepository, dispatcher SyncDispatcher, creds CredentialAdapter) ConnectionUsecase {
	return &connectionUsecase{
		connRepo:   connRepo,
		dispatcher: dispatcher,
		creds:      creds,
	}
}

func (u *connectionUsecase) Connect(ctx context.Context, userID, provider, code, name string) (*conndomain.Connection, error) {
	handle, err := u.creds.Authenticate(ctx, userID, provider, code)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = handle.DisplayName
	}
	if name == "" {
		name = provider
	}

	conn := &conndomain.Connection{
		UserID:        userID,
		Provider:      provider,
		ExternalID:    handle.ExternalID,
		Name:          name,
		Status:        conndomain.StatusConnected,
		SyncFrequency: conndomain.FrequencyDaily,
	}
	// Duplicate links are rejected, never silently merged; the user decides
	// what to do with the existing connection.
	if err := u.connRepo.Create(conn); err != nil {
		return nil, err
	}

	log.Printf("[Connection] user %s linked provider %s (connection %s)", userID, provider, conn.ID)
	return conn, nil
}

func (u *connectionUsecase) Reconnect(ctx context.Context, userID, provider string) (*conndomain.Connection, error) {
	handle, err := u.creds.Reauthenticate(ctx, userID, provider)
	if err != nil {
		return nil, err
	}

	existing, err := u.connRepo.FindByAccount(userID, provider, handle.ExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// Stored credentials can outlive a disconnected link; reauthentication
	// against an unregistered account re-creates the connection.
	conn := &conndomain.Connection{
		UserID:        userID,
		Provider:      provider,
		ExternalID:    handle.ExternalID,
		Name:          handle.DisplayName,
		Status:        conndomain.StatusConnected,
		SyncFrequency: conndomain.FrequencyDaily,
	}
	if conn.Name == "" {
		conn.Name = provider
	}
	if err := u.connRepo.Create(conn); err != nil {
		return nil, err
	}

	log.Printf("[Connection] user %s reconnected provider %s (connection %s)", userID, provider, conn.ID)
	return conn, nil
}

func (u *connectionUsecase) SyncNow(userID, connectionID string) error {
	if _, err := u.owned(userID, connectionID); err != nil {
		return err
	}
	return u.dispatcher.TriggerSync(connectionID)
}

func (u *connectionUsecase) Disconnect(userID, connectionID string) error {
	if _, err := u.owned(userID, connectionID); err != nil {
		return err
	}

	// An in-flight job is marked discardable before the record goes away, so
	// no orphaned status update can land afterwards. Financial data the
	// connection produced is left untouched.
	u.dispatcher.Cancel(connectionID)
	if err := u.connRepo.Delete(connectionID); err != nil {
		return err
	}

	log.Printf("[Connection] user %s disconnected connection %s", userID, connectionID)
	return nil
}

func (u *connectionUsecase) ListForUser(userID string) ([]conndomain.Connection, error) {
	return u.connRepo.ListByUser(userID)
}

func (u *connectionUsecase) GetByID(userID, connectionID string) (*conndomain.Connection, error) {
	return u.owned(userID, connectionID)
}

func (u *connectionUsecase) UpdateConnection(userID, connectionID string, name *string, frequency *conndomain.SyncFrequency) (*conndomain.Connection, error) {
	if _, err := u.owned(userID, connectionID); err != nil {
		return nil, err
	}
	return u.connRepo.UpdateMeta(connectionID, name, frequency)
}

func (u *connectionUsecase) CheckCredentials(userID, provider string) (bool, string, error) {
	return u.creds.HasStoredCredentials(userID, provider)
}

// owned resolves a connection and hides other users' connections behind
// ErrNotFound.
func (u *connectionUsecase) owned(userID, connectionID string) (*conndomain.Connection, error) {
	conn, err := u.connRepo.FindByID(connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil || conn.UserID != userID {
		return nil, conndomain.ErrNotFound
	}
	return conn, nil
}
