package repository

import (
	"errors"
	"time"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// credentialRepository implements CredentialRepository on top of gorm
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new instance of credentialRepository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

func (r *credentialRepository) Find(userID, provider string) (*conndomain.CredentialRecord, error) {
	var record conndomain.CredentialRecord
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return &record, nil
}

func (r *credentialRepository) Upsert(record *conndomain.CredentialRecord) error {
	existing, err := r.Find(record.UserID, record.Provider)
	if err != nil {
		return err
	}

	now := time.Now()
	if existing == nil {
		record.ID = uuid.New().String()
		record.CreatedAt = now
		record.UpdatedAt = now
		if err := r.db.Create(record).Error; err != nil {
			return storeErr(err)
		}
		return nil
	}

	existing.Email = record.Email
	existing.RefreshToken = record.RefreshToken
	existing.UpdatedAt = now
	if err := r.db.Save(existing).Error; err != nil {
		return storeErr(err)
	}
	*record = *existing
	return nil
}

func (r *credentialRepository) Delete(userID, provider string) error {
	if err := r.db.Where("user_id = ? AND provider = ?", userID, provider).Delete(&conndomain.CredentialRecord{}).Error; err != nil {
		return storeErr(err)
	}
	return nil
}
