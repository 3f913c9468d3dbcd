package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
	domainRepo "github.com/DurveshChavan/Medical-sub001/internal/domain/repository"
)

type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates a new credit ledger repository
func NewCreditRepository(db *gorm.DB) domainRepo.CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Append(ctx context.Context, tx *entity.CreditTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *creditRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CreditTransaction, error) {
	var transactions []entity.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("date DESC").
		Find(&transactions).Error
	return transactions, err
}
