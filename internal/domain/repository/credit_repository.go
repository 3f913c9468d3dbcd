package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
)

// CreditRepository defines the interface for the append-only credit ledger
type CreditRepository interface {
	Append(ctx context.Context, tx *entity.CreditTransaction) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CreditTransaction, error)
}
