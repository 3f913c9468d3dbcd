package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
	domainRepo "github.com/DurveshChavan/Medical-sub001/internal/domain/repository"
	"github.com/DurveshChavan/Medical-sub001/pkg/pagination"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	// GORM persists the Items association in the same transaction.
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) ListPending(ctx context.Context) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("payment_status = ?", enum.PaymentStatusPending).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("customer_id = ?", customerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("sale_date DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) CreateReturn(ctx context.Context, ret *entity.SaleReturn) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *invoiceRepository) ListReturns(ctx context.Context, invoiceID uuid.UUID) ([]entity.SaleReturn, error) {
	var returns []entity.SaleReturn
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		Find(&returns).Error
	return returns, err
}

func (r *invoiceRepository) ReturnedQuantity(ctx context.Context, invoiceID, medicineID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.SaleReturn{}).
		Where("invoice_id = ? AND medicine_id = ?", invoiceID, medicineID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

// MarkPaid finalizes a pending invoice; the status guard makes the
// transition idempotent.
func (r *invoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, method enum.PaymentMethod) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ? AND payment_status = ?", id, enum.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status": enum.PaymentStatusPaid,
			"payment_method": method,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
