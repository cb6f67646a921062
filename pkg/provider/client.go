package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"

	"golang.org/x/oauth2"
)

// Handshake is the result of a successful provider authentication. Token
// material never leaves the credential adapter that requested it.
type Handshake struct {
	ExternalID   string
	DisplayName  string
	Email        string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Client talks to external financial-data providers over their OAuth2 + REST
// surface.
type Client interface {
	// Exchange performs the interactive handshake with an authorization code.
	Exchange(ctx context.Context, provider, code string) (*Handshake, error)
	// Refresh reauthenticates with a stored refresh token. Providers rotate
	// the token on success, so the returned handshake carries the new one.
	Refresh(ctx context.Context, provider, refreshToken string) (*Handshake, error)
	// FetchAccounts pulls the current downstream account list and returns its
	// size.
	FetchAccounts(ctx context.Context, provider, accessToken string) (int, error)
}

type httpClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	hc           *http.Client
}

// NewClient creates a provider client rooted at baseURL. The base URL is
// injected configuration, never a package-level constant.
func NewClient(baseURL, clientID, clientSecret string) Client {
	return &httpClient{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		hc:           &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *httpClient) oauthConfig(provider string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/%s/oauth/authorize", c.baseURL, provider),
			TokenURL: fmt.Sprintf("%s/%s/oauth/token", c.baseURL, provider),
		},
	}
}

func (c *httpClient) Exchange(ctx context.Context, provider, code string) (*Handshake, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.hc)
	token, err := c.oauthConfig(provider).Exchange(ctx, code)
	if err != nil {
		return nil, authError(provider, err)
	}
	return c.handshakeFromToken(ctx, provider, token)
}

func (c *httpClient) Refresh(ctx context.Context, provider, refreshToken string) (*Handshake, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.hc)
	src := c.oauthConfig(provider).TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, authError(provider, err)
	}
	if token.RefreshToken == "" {
		// Provider did not rotate; keep using the stored token.
		token.RefreshToken = refreshToken
	}
	return c.handshakeFromToken(ctx, provider, token)
}

// identityResponse is the provider's "who is this token" payload
type identityResponse struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

func (c *httpClient) handshakeFromToken(ctx context.Context, provider string, token *oauth2.Token) (*Handshake, error) {
	var identity identityResponse
	if err := c.getJSON(ctx, provider, token.AccessToken, "/v1/identity", &identity); err != nil {
		return nil, err
	}

	return &Handshake{
		ExternalID:   identity.AccountID,
		DisplayName:  identity.Name,
		Email:        identity.Email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}, nil
}

type accountsResponse struct {
	Accounts []struct {
		ID string `json:"id"`
	} `json:"accounts"`
}

func (c *httpClient) FetchAccounts(ctx context.Context, provider, accessToken string) (int, error) {
	var accounts accountsResponse
	if err := c.getJSON(ctx, provider, accessToken, "/v1/accounts", &accounts); err != nil {
		return 0, err
	}
	return len(accounts.Accounts), nil
}

func (c *httpClient) getJSON(ctx context.Context, provider, accessToken, path string, out interface{}) error {
	url := fmt.Sprintf("%s/%s%s", c.baseURL, provider, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.hc.Do(req)
	if err != nil {
		// Distinguish caller-driven cancellation from provider trouble so
		// sync timeouts surface as timeouts, not auth failures.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &conndomain.AuthError{Provider: provider, Reason: conndomain.AuthReasonProviderUnavailable, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &conndomain.AuthError{Provider: provider, Reason: conndomain.AuthReasonExpired}
	case resp.StatusCode >= 500:
		return &conndomain.AuthError{Provider: provider, Reason: conndomain.AuthReasonProviderUnavailable}
	default:
		return fmt.Errorf("provider %s returned status %d for %s", provider, resp.StatusCode, path)
	}
}

// authError maps oauth2 token-endpoint failures onto the auth taxonomy.
func authError(provider string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return &conndomain.AuthError{Provider: provider, Reason: conndomain.AuthReasonProviderUnavailable, Err: err}
	}

	switch retrieveErr.ErrorCode {
	case "invalid_grant":
		return &conndomain.AuthError{Provider: provider, Reason: conndomain.AuthReasonExpired, Err: err}
	case "access_denied", "unauthorized_client":
		return &conndomain.AuthError{Provider: provider, Reason: conndomain.AuthReasonRevoked, Err: err}
	}
	if retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= 500 {
		return &conndomain.AuthError{Provider: provider, Reason: conndomain.AuthReasonProviderUnavailable, Err: err}
	}
	return &conndomain.AuthError{Provider: provider, Reason: conndomain.AuthReasonRevoked, Err: err}
}
