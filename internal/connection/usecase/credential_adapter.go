package usecase

import (
	"context"
	"strings"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"
	"github.com/saswatds/moneyy/internal/connection/repository"
	"github.com/saswatds/moneyy/pkg/provider"
)

// credentialAdapter implements CredentialAdapter over the credential
// repository and the provider client. Secret material stays in this file.
type credentialAdapter struct {
	credRepo repository.CredentialRepository
	client   provider.Client
}

// NewCredentialAdapter creates a new instance of credentialAdapter
func NewCredentialAdapter(credRepo repository.CredentialRepository, client provider.Client) CredentialAdapter {
	return &credentialAdapter{
		credRepo: credRepo,
		client:   client,
	}
}

func (a *credentialAdapter) HasStoredCredentials(userID, provider string) (bool, string, error) {
	record, err := a.credRepo.Find(userID, provider)
	if err != nil {
		return false, "", err
	}
	if record == nil || record.RefreshToken == "" {
		return false, "", nil
	}
	return true, maskEmail(record.Email), nil
}

func (a *credentialAdapter) Authenticate(ctx context.Context, userID, providerName, code string) (*conndomain.Handle, error) {
	handshake, err := a.client.Exchange(ctx, providerName, code)
	if err != nil {
		return nil, err
	}
	if err := a.store(userID, providerName, handshake); err != nil {
		return nil, err
	}
	return handleFrom(handshake), nil
}

func (a *credentialAdapter) Reauthenticate(ctx context.Context, userID, providerName string) (*conndomain.Handle, error) {
	record, err := a.credRepo.Find(userID, providerName)
	if err != nil {
		return nil, err
	}
	if record == nil || record.RefreshToken == "" {
		return nil, conndomain.ErrNoStoredCredentials
	}

	handshake, err := a.client.Refresh(ctx, providerName, record.RefreshToken)
	if err != nil {
		return nil, err
	}
	// Providers rotate refresh tokens; persist the new one.
	if err := a.store(userID, providerName, handshake); err != nil {
		return nil, err
	}
	return handleFrom(handshake), nil
}

func (a *credentialAdapter) SyncAccounts(ctx context.Context, userID, providerName string) (int, error) {
	record, err := a.credRepo.Find(userID, providerName)
	if err != nil {
		return 0, err
	}
	if record == nil || record.RefreshToken == "" {
		return 0, conndomain.ErrNoStoredCredentials
	}

	handshake, err := a.client.Refresh(ctx, providerName, record.RefreshToken)
	if err != nil {
		return 0, err
	}
	if err := a.store(userID, providerName, handshake); err != nil {
		return 0, err
	}

	return a.client.FetchAccounts(ctx, providerName, handshake.AccessToken)
}

func (a *credentialAdapter) store(userID, providerName string, handshake *provider.Handshake) error {
	return a.credRepo.Upsert(&conndomain.CredentialRecord{
		UserID:       userID,
		Provider:     providerName,
		Email:        handshake.Email,
		RefreshToken: handshake.RefreshToken,
	})
}

func handleFrom(handshake *provider.Handshake) *conndomain.Handle {
	return &conndomain.Handle{
		ExternalID:  handshake.ExternalID,
		DisplayName: handshake.DisplayName,
		Email:       handshake.Email,
	}
}

// maskEmail hides the local part of the stored email, e.g. "jane@bank.com"
// becomes "j***e@bank.com".
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	local := email[:at]
	if len(local) <= 2 {
		return local[:1] + "***" + email[at:]
	}
	return local[:1] + "***" + local[len(local)-1:] + email[at:]
}
