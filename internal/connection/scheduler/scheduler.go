package scheduler

import (
	"errors"
	"log"
	"time"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"
	"github.com/saswatds/moneyy/internal/connection/repository"
	"github.com/saswatds/moneyy/internal/connection/usecase"
)

// SyncScheduler triggers syncs for connections whose frequency says they are
// due. Frequency is only a hint to the core; this collaborator enforces it.
type SyncScheduler struct {
	connRepo   repository.ConnectionRepository
	dispatcher usecase.SyncDispatcher
	interval   time.Duration
	stopChan   chan struct{}
}

// NewSyncScheduler creates a new scheduler
func NewSyncScheduler(connRepo repository.ConnectionRepository, dispatcher usecase.SyncDispatcher, interval time.Duration) *SyncScheduler {
	return &SyncScheduler{
		connRepo:   connRepo,
		dispatcher: dispatcher,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *SyncScheduler) Start() {
	log.Printf("[SyncScheduler] Starting sync scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.checkAndSync()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.checkAndSync()
			case <-s.stopChan:
				log.Println("[SyncScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop() {
	close(s.stopChan)
}

// checkAndSync finds due connections and dispatches syncs for them
func (s *SyncScheduler) checkAndSync() {
	connections, err := s.connRepo.ListDueForSync(time.Now())
	if err != nil {
		log.Printf("[SyncScheduler] Error finding due connections: %v", err)
		return
	}

	for _, conn := range connections {
		err := s.dispatcher.TriggerSync(conn.ID)
		switch {
		case err == nil:
			log.Printf("[SyncScheduler] Triggered %s sync for connection %s", conn.SyncFrequency, conn.ID)
		case errors.Is(err, conndomain.ErrSyncInProgress):
			// Already running, nothing to do.
		case errors.Is(err, conndomain.ErrNotFound):
			// Deleted between listing and dispatch.
		default:
			log.Printf("[SyncScheduler] Failed to trigger sync for connection %s: %v", conn.ID, err)
		}
	}
}
