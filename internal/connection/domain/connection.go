package domain

import "time"

// Status is the lifecycle state of a Connection.
type Status string

const (
	StatusConnected Status = "connected"
	// StatusDisconnected is reserved for a future "paused without deleting"
	// flow; no current operation produces it.
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
	StatusSyncing      Status = "syncing"
)

// CanStartSync reports whether a sync may be dispatched from this status.
func (s Status) CanStartSync() bool {
	return s == StatusConnected || s == StatusError
}

// SyncFrequency is a scheduling hint. The core never enforces it; the
// scheduler collaborator does.
type SyncFrequency string

const (
	FrequencyManual SyncFrequency = "manual"
	FrequencyHourly SyncFrequency = "hourly"
	FrequencyDaily  SyncFrequency = "daily"
)

func (f SyncFrequency) IsValid() bool {
	switch f {
	case FrequencyManual, FrequencyHourly, FrequencyDaily:
		return true
	}
	return false
}

// Connection is a user's link to an external financial-data provider.
// ExternalID is the provider-side account identity; together with UserID and
// Provider it forms the uniqueness tuple, so the same external account can
// never be linked twice for one user.
type Connection struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	UserID        string        `json:"user_id" gorm:"not null;uniqueIndex:idx_user_provider_external;index"`
	Provider      string        `json:"provider" gorm:"not null;uniqueIndex:idx_user_provider_external"`
	ExternalID    string        `json:"-" gorm:"not null;uniqueIndex:idx_user_provider_external"`
	Name          string        `json:"name"`
	Status        Status        `json:"status" gorm:"not null"`
	LastSyncAt    *time.Time    `json:"last_sync_at,omitempty"`
	LastSyncError string        `json:"last_sync_error,omitempty"`
	SyncFrequency SyncFrequency `json:"sync_frequency"`
	AccountCount  int           `json:"account_count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Handle is the non-secret identity a provider handshake yields. Token
// material stays inside the credential adapter.
type Handle struct {
	ExternalID  string
	DisplayName string
	Email       string
}

// SyncOutcome is the terminal result of one sync attempt.
type SyncOutcome struct {
	Success      bool
	AccountCount int
	Reason       string
}

// CredentialRecord holds reusable provider authentication material for quick
// reconnect. Only the credential repository and adapter ever touch it.
type CredentialRecord struct {
	ID           string    `json:"-" gorm:"primaryKey"`
	UserID       string    `json:"-" gorm:"not null;uniqueIndex:idx_cred_user_provider"`
	Provider     string    `json:"-" gorm:"not null;uniqueIndex:idx_cred_user_provider"`
	Email        string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
