package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"
	"github.com/saswatds/moneyy/internal/connection/repository"
)

// syncJob tracks one in-flight sync attempt. seq is monotonically increasing
// per connection so a stale, late-completing job can never overwrite a newer
// job's outcome.
type syncJob struct {
	seq       uint64
	cancel    context.CancelFunc
	startedAt time.Time
}

// syncDispatcher implements SyncDispatcher. Admission is a status CAS in the
// registry; the provider round trip runs in a goroutine without holding any
// lock, and the dispatcher mutex only guards the in-flight bookkeeping.
type syncDispatcher struct {
	connRepo repository.ConnectionRepository
	creds    CredentialAdapter
	timeout  time.Duration

	mu     sync.Mutex
	seq    map[string]uint64
	active map[string]*syncJob
}

// NewSyncDispatcher creates a new instance of syncDispatcher. timeout bounds
// each sync job; on expiry the job is forced into error("timeout").
func NewSyncDispatcher(connRepo repository.ConnectionRepository, creds CredentialAdapter, timeout time.Duration) SyncDispatcher {
	return &syncDispatcher{
		connRepo: connRepo,
		creds:    creds,
		timeout:  timeout,
		seq:      make(map[string]uint64),
		active:   make(map[string]*syncJob),
	}
}

func (d *syncDispatcher) TriggerSync(connectionID string) error {
	conn, err := d.connRepo.FindByID(connectionID)
	if err != nil {
		return err
	}
	if conn == nil {
		return conndomain.ErrNotFound
	}

	// The conditional update in BeginSync decides the race: of N concurrent
	// triggers exactly one transitions to syncing, the rest get
	// ErrSyncInProgress.
	if err := d.connRepo.BeginSync(connectionID); err != nil {
		return err
	}

	// The job context is detached from the caller on purpose: cancellation is
	// timeout-driven only.
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)

	d.mu.Lock()
	d.seq[connectionID]++
	job := &syncJob{seq: d.seq[connectionID], cancel: cancel, startedAt: time.Now()}
	d.active[connectionID] = job
	d.mu.Unlock()

	go d.run(ctx, cancel, conn, job.seq)
	return nil
}

func (d *syncDispatcher) run(ctx context.Context, cancel context.CancelFunc, conn *conndomain.Connection, seq uint64) {
	defer cancel()

	type result struct {
		count int
		err   error
	}
	done := make(chan result, 1)
	go func() {
		count, err := d.creds.SyncAccounts(ctx, conn.UserID, conn.Provider)
		done <- result{count: count, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			reason := res.err.Error()
			if errors.Is(res.err, context.DeadlineExceeded) {
				reason = "timeout"
			}
			d.finish(conn.ID, seq, conndomain.SyncOutcome{Reason: reason})
			return
		}
		d.finish(conn.ID, seq, conndomain.SyncOutcome{Success: true, AccountCount: res.count})
	case <-ctx.Done():
		// Forced timeout or cancellation; a late result on done is dropped,
		// the buffered channel keeps the worker goroutine from leaking.
		d.finish(conn.ID, seq, conndomain.SyncOutcome{Reason: "timeout"})
	}
}

// finish applies a job outcome if, and only if, the job is still the latest
// in-flight one for its connection.
func (d *syncDispatcher) finish(connectionID string, seq uint64, outcome conndomain.SyncOutcome) {
	d.mu.Lock()
	job, ok := d.active[connectionID]
	if !ok || job.seq != seq {
		d.mu.Unlock()
		log.Printf("[SyncDispatcher] discarding stale outcome for connection %s (seq %d)", connectionID, seq)
		return
	}
	delete(d.active, connectionID)
	d.mu.Unlock()

	if err := d.connRepo.CompleteSync(connectionID, outcome, time.Now()); err != nil {
		if errors.Is(err, conndomain.ErrNotFound) {
			// Connection deleted mid-sync; the outcome is discarded.
			log.Printf("[SyncDispatcher] connection %s gone, outcome discarded", connectionID)
			return
		}
		log.Printf("[SyncDispatcher] failed to record sync outcome for connection %s: %v", connectionID, err)
	}
}

func (d *syncDispatcher) Cancel(connectionID string) {
	d.mu.Lock()
	job, ok := d.active[connectionID]
	if ok {
		delete(d.active, connectionID)
	}
	d.mu.Unlock()

	if ok {
		job.cancel()
		log.Printf("[SyncDispatcher] cancelled in-flight sync for connection %s", connectionID)
	}
}

func (d *syncDispatcher) Active(connectionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.active[connectionID]
	return ok
}

func (d *syncDispatcher) Stop() {
	d.mu.Lock()
	jobs := make([]*syncJob, 0, len(d.active))
	for id, job := range d.active {
		jobs = append(jobs, job)
		delete(d.active, id)
	}
	d.mu.Unlock()

	for _, job := range jobs {
		job.cancel()
	}
}
