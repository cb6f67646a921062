package dto

import conndomain "github.com/saswatds/moneyy/internal/connection/domain"

type ConnectRequest struct {
	Provider string `json:"provider" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name"`
}

type UpdateConnectionRequest struct {
	Name          *string `json:"name"`
	SyncFrequency *string `json:"sync_frequency"`
}

type ConnectionsResponse struct {
	Connections []conndomain.Connection `json:"connections"`
}

type CheckCredentialsResponse struct {
	HasCredentials bool   `json:"has_credentials"`
	Email          string `json:"email,omitempty"`
}

type ReconnectResponse struct {
	ConnectionID string `json:"connection_id"`
}
