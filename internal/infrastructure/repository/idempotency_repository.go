package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
	domainRepo "github.com/DurveshChavan/Medical-sub001/internal/domain/repository"
)

// idempotencyRepository caches checkout responses keyed per operator. A key
// is only ever written for a successful submission, so replaying it hands
// the terminal back the invoice it already created.
type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

// GetByKey returns the cached response for a key scoped to one operator.
// Expired rows are treated as absent so a stale key can be reused safely.
func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	var cached entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND user_id = ? AND expires_at > ?", key, userID, time.Now().UTC()).
		First(&cached).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cached, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, cached *entity.IdempotencyKey) error {
	return r.db.WithContext(ctx).Create(cached).Error
}

// DeleteExpired removes cache rows past their TTL. The replay lookup
// already ignores them; this just keeps the table from growing forever.
func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now().UTC()).
		Delete(&entity.IdempotencyKey{}).Error
}
