package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
	"github.com/DurveshChavan/Medical-sub001/pkg/pagination"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)

	// IncrementCredit atomically adds amount to the customer's outstanding
	// balance. Used when a Credit-method sale posts.
	IncrementCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// DecrementCreditIfCovered atomically subtracts amount from the balance
	// only when the balance covers it. Returns false when the guard rejects
	// the update (overpayment or unknown customer).
	DecrementCreditIfCovered(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error)
}
