package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"

	"github.com/google/uuid"
)

// fakeConnRepo is an in-memory registry with the same conditional-update
// semantics as the gorm implementation.
type fakeConnRepo struct {
	mu            sync.Mutex
	conns         map[string]*conndomain.Connection
	order         []string
	completeCalls int
}

func newFakeConnRepo() *fakeConnRepo {
	return &fakeConnRepo{conns: make(map[string]*conndomain.Connection)}
}

func (r *fakeConnRepo) ListByUser(userID string) ([]conndomain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []conndomain.Connection
	for _, id := range r.order {
		if conn, ok := r.conns[id]; ok && conn.UserID == userID {
			out = append(out, *conn)
		}
	}
	return out, nil
}

func (r *fakeConnRepo) FindByID(id string) (*conndomain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[id]
	if !ok {
		return nil, nil
	}
	copied := *conn
	return &copied, nil
}

func (r *fakeConnRepo) FindByAccount(userID, provider, externalID string) (*conndomain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conn := range r.conns {
		if conn.UserID == userID && conn.Provider == provider && conn.ExternalID == externalID {
			copied := *conn
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeConnRepo) Create(conn *conndomain.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.conns {
		if existing.UserID == conn.UserID && existing.Provider == conn.Provider && existing.ExternalID == conn.ExternalID {
			return conndomain.ErrConflict
		}
	}
	conn.ID = uuid.New().String()
	now := time.Now()
	conn.CreatedAt = now
	conn.UpdatedAt = now
	copied := *conn
	r.conns[conn.ID] = &copied
	r.order = append(r.order, conn.ID)
	return nil
}

func (r *fakeConnRepo) BeginSync(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[id]
	if !ok {
		return conndomain.ErrNotFound
	}
	if conn.Status == conndomain.StatusSyncing {
		return conndomain.ErrSyncInProgress
	}
	if !conn.Status.CanStartSync() {
		return fmt.Errorf("cannot sync connection in status %q", conn.Status)
	}
	conn.Status = conndomain.StatusSyncing
	conn.UpdatedAt = time.Now()
	return nil
}

func (r *fakeConnRepo) CompleteSync(id string, outcome conndomain.SyncOutcome, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completeCalls++
	conn, ok := r.conns[id]
	if !ok || conn.Status != conndomain.StatusSyncing {
		return conndomain.ErrNotFound
	}
	syncedAt := at
	conn.LastSyncAt = &syncedAt
	conn.UpdatedAt = at
	if outcome.Success {
		conn.Status = conndomain.StatusConnected
		conn.LastSyncError = ""
		conn.AccountCount = outcome.AccountCount
	} else {
		conn.Status = conndomain.StatusError
		conn.LastSyncError = outcome.Reason
	}
	return nil
}

func (r *fakeConnRepo) UpdateMeta(id string, name *string, frequency *conndomain.SyncFrequency) (*conndomain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[id]
	if !ok {
		return nil, conndomain.ErrNotFound
	}
	if name != nil {
		conn.Name = *name
	}
	if frequency != nil {
		conn.SyncFrequency = *frequency
	}
	conn.UpdatedAt = time.Now()
	copied := *conn
	return &copied, nil
}

func (r *fakeConnRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return conndomain.ErrNotFound
	}
	delete(r.conns, id)
	return nil
}

func (r *fakeConnRepo) ListDueForSync(now time.Time) ([]conndomain.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []conndomain.Connection
	for _, id := range r.order {
		conn, ok := r.conns[id]
		if !ok || !conn.Status.CanStartSync() {
			continue
		}
		var window time.Duration
		switch conn.SyncFrequency {
		case conndomain.FrequencyHourly:
			window = time.Hour
		case conndomain.FrequencyDaily:
			window = 24 * time.Hour
		default:
			continue
		}
		if conn.LastSyncAt == nil || conn.LastSyncAt.Before(now.Add(-window)) {
			out = append(out, *conn)
		}
	}
	return out, nil
}

func (r *fakeConnRepo) statusOf(id string) conndomain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conn, ok := r.conns[id]; ok {
		return conn.Status
	}
	return ""
}

func (r *fakeConnRepo) completeSyncCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completeCalls
}

func (r *fakeConnRepo) mustGet(t interface{ Fatalf(string, ...interface{}) }, id string) conndomain.Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[id]
	if !ok {
		t.Fatalf("connection %s not found", id)
	}
	return *conn
}

// fakeAdapter is a scriptable CredentialAdapter.
type fakeAdapter struct {
	mu        sync.Mutex
	hasCreds  bool
	email     string
	handle    *conndomain.Handle
	authErr   error
	syncFn    func(ctx context.Context) (int, error)
	authCalls int
}

func (a *fakeAdapter) HasStoredCredentials(userID, provider string) (bool, string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasCreds, a.email, nil
}

func (a *fakeAdapter) Authenticate(ctx context.Context, userID, provider, code string) (*conndomain.Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authCalls++
	if a.authErr != nil {
		return nil, a.authErr
	}
	return a.handle, nil
}

func (a *fakeAdapter) Reauthenticate(ctx context.Context, userID, provider string) (*conndomain.Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authCalls++
	if !a.hasCreds {
		return nil, conndomain.ErrNoStoredCredentials
	}
	if a.authErr != nil {
		return nil, a.authErr
	}
	return a.handle, nil
}

func (a *fakeAdapter) SyncAccounts(ctx context.Context, userID, provider string) (int, error) {
	a.mu.Lock()
	fn := a.syncFn
	a.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return 0, nil
}
