package repository

import (
	"errors"
	"fmt"
	"time"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// connectionRepository implements ConnectionRepository on top of gorm
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new instance of connectionRepository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{
		db: db,
	}
}

func (r *connectionRepository) ListByUser(userID string) ([]conndomain.Connection, error) {
	var connections []conndomain.Connection
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&connections).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return connections, nil
}

func (r *connectionRepository) FindByID(id string) (*conndomain.Connection, error) {
	var conn conndomain.Connection
	err := r.db.Where("id = ?", id).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return &conn, nil
}

func (r *connectionRepository) FindByAccount(userID, provider, externalID string) (*conndomain.Connection, error) {
	var conn conndomain.Connection
	err := r.db.Where("user_id = ? AND provider = ? AND external_id = ?", userID, provider, externalID).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return &conn, nil
}

func (r *connectionRepository) Create(conn *conndomain.Connection) error {
	conn.ID = uuid.New().String()
	now := time.Now()
	conn.CreatedAt = now
	conn.UpdatedAt = now
	if err := r.db.Create(conn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conndomain.ErrConflict
		}
		return storeErr(err)
	}
	return nil
}

// BeginSync is the check-and-transition guard against double dispatch: a
// single conditional UPDATE filtered on the current status, so two concurrent
// triggers can never both enter syncing.
func (r *connectionRepository) BeginSync(id string) error {
	res := r.db.Model(&conndomain.Connection{}).
		Where("id = ? AND status IN ?", id, []conndomain.Status{conndomain.StatusConnected, conndomain.StatusError}).
		Updates(map[string]interface{}{
			"status":     conndomain.StatusSyncing,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		conn, err := r.FindByID(id)
		if err != nil {
			return err
		}
		if conn == nil {
			return conndomain.ErrNotFound
		}
		if conn.Status == conndomain.StatusSyncing {
			return conndomain.ErrSyncInProgress
		}
		return fmt.Errorf("cannot sync connection in status %q", conn.Status)
	}
	return nil
}

func (r *connectionRepository) CompleteSync(id string, outcome conndomain.SyncOutcome, at time.Time) error {
	fields := map[string]interface{}{
		"last_sync_at": at,
		"updated_at":   at,
	}
	if outcome.Success {
		fields["status"] = conndomain.StatusConnected
		fields["last_sync_error"] = ""
		fields["account_count"] = outcome.AccountCount
	} else {
		fields["status"] = conndomain.StatusError
		fields["last_sync_error"] = outcome.Reason
	}

	// Only a connection still in syncing may receive the outcome; anything
	// else (deleted, or already resolved by a newer job) is discarded.
	res := r.db.Model(&conndomain.Connection{}).
		Where("id = ? AND status = ?", id, conndomain.StatusSyncing).
		Updates(fields)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return conndomain.ErrNotFound
	}
	return nil
}

func (r *connectionRepository) UpdateMeta(id string, name *string, frequency *conndomain.SyncFrequency) (*conndomain.Connection, error) {
	fields := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if name != nil {
		fields["name"] = *name
	}
	if frequency != nil {
		fields["sync_frequency"] = *frequency
	}

	res := r.db.Model(&conndomain.Connection{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conndomain.ErrNotFound
	}
	return r.FindByID(id)
}

func (r *connectionRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&conndomain.Connection{})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return conndomain.ErrNotFound
	}
	return nil
}

func (r *connectionRepository) ListDueForSync(now time.Time) ([]conndomain.Connection, error) {
	var connections []conndomain.Connection
	hourlyCutoff := now.Add(-time.Hour)
	dailyCutoff := now.Add(-24 * time.Hour)
	err := r.db.
		Where("status IN ?", []conndomain.Status{conndomain.StatusConnected, conndomain.StatusError}).
		Where(
			r.db.Where("sync_frequency = ? AND (last_sync_at IS NULL OR last_sync_at <= ?)", conndomain.FrequencyHourly, hourlyCutoff).
				Or("sync_frequency = ? AND (last_sync_at IS NULL OR last_sync_at <= ?)", conndomain.FrequencyDaily, dailyCutoff),
		).
		Order("created_at ASC").
		Find(&connections).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return connections, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", conndomain.ErrInternalStore, err)
}
