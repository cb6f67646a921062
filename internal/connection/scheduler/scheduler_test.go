package scheduler

import (
	"sync"
	"testing"
	"time"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	due []conndomain.Connection
	err error
}

func (r *fakeRepo) ListByUser(string) ([]conndomain.Connection, error)      { return nil, nil }
func (r *fakeRepo) FindByID(string) (*conndomain.Connection, error)         { return nil, nil }
func (r *fakeRepo) FindByAccount(_, _, _ string) (*conndomain.Connection, error) {
	return nil, nil
}
func (r *fakeRepo) Create(*conndomain.Connection) error { return nil }
func (r *fakeRepo) BeginSync(string) error              { return nil }
func (r *fakeRepo) CompleteSync(string, conndomain.SyncOutcome, time.Time) error {
	return nil
}
func (r *fakeRepo) UpdateMeta(string, *string, *conndomain.SyncFrequency) (*conndomain.Connection, error) {
	return nil, nil
}
func (r *fakeRepo) Delete(string) error { return nil }
func (r *fakeRepo) ListDueForSync(time.Time) ([]conndomain.Connection, error) {
	return r.due, r.err
}

type fakeDispatcher struct {
	mu        sync.Mutex
	triggered []string
	errs      map[string]error
}

func (d *fakeDispatcher) TriggerSync(connectionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.triggered = append(d.triggered, connectionID)
	return d.errs[connectionID]
}

func (d *fakeDispatcher) Cancel(string) {}

func (d *fakeDispatcher) Active(string) bool { return false }

func (d *fakeDispatcher) Stop() {}

func TestCheckAndSync_TriggersDueConnections(t *testing.T) {
	repo := &fakeRepo{due: []conndomain.Connection{
		{ID: "c1", SyncFrequency: conndomain.FrequencyHourly},
		{ID: "c2", SyncFrequency: conndomain.FrequencyDaily},
	}}
	dispatcher := &fakeDispatcher{}
	s := NewSyncScheduler(repo, dispatcher, time.Minute)

	s.checkAndSync()

	assert.Equal(t, []string{"c1", "c2"}, dispatcher.triggered)
}

func TestCheckAndSync_ToleratesInProgressAndGone(t *testing.T) {
	repo := &fakeRepo{due: []conndomain.Connection{
		{ID: "c1"}, {ID: "c2"}, {ID: "c3"},
	}}
	dispatcher := &fakeDispatcher{errs: map[string]error{
		"c1": conndomain.ErrSyncInProgress,
		"c2": conndomain.ErrNotFound,
	}}
	s := NewSyncScheduler(repo, dispatcher, time.Minute)

	// Must not stop at collisions or deletions; every due connection is tried.
	s.checkAndSync()

	assert.Equal(t, []string{"c1", "c2", "c3"}, dispatcher.triggered)
}

func TestStartStop(t *testing.T) {
	repo := &fakeRepo{due: []conndomain.Connection{{ID: "c1"}}}
	dispatcher := &fakeDispatcher{}
	s := NewSyncScheduler(repo, dispatcher, time.Hour)

	s.Start()
	require.Eventually(t, func() bool {
		dispatcher.mu.Lock()
		defer dispatcher.mu.Unlock()
		return len(dispatcher.triggered) >= 1
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}
