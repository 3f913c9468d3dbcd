package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
	"github.com/DurveshChavan/Medical-sub001/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	// Create persists the invoice together with its sale items.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	ListPending(ctx context.Context) ([]entity.Invoice, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Invoice, int64, error)

	// MarkPaid finalizes a pending invoice. Returns false when the invoice
	// does not exist or is not pending.
	MarkPaid(ctx context.Context, id uuid.UUID, method enum.PaymentMethod) (bool, error)

	CreateReturn(ctx context.Context, ret *entity.SaleReturn) error
	ListReturns(ctx context.Context, invoiceID uuid.UUID) ([]entity.SaleReturn, error)

	// ReturnedQuantity sums prior returns of one medicine on one invoice so
	// cumulative returns can never exceed the quantity sold.
	ReturnedQuantity(ctx context.Context, invoiceID, medicineID uuid.UUID) (int, error)
}
