package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
	"github.com/DurveshChavan/Medical-sub001/internal/domain/repository"
	"github.com/DurveshChavan/Medical-sub001/pkg/apperror"
)

// BillingService orchestrates invoice creation: stock reservation, totals,
// credit ledger updates and compensation on failure.
type BillingService struct {
	invoiceRepo  repository.InvoiceRepository
	medicineRepo repository.MedicineRepository
	customerRepo repository.CustomerRepository
	creditRepo   repository.CreditRepository
	taxRate      decimal.Decimal
}

// NewBillingService creates a new billing service
func NewBillingService(
	invoiceRepo repository.InvoiceRepository,
	medicineRepo repository.MedicineRepository,
	customerRepo repository.CustomerRepository,
	creditRepo repository.CreditRepository,
	taxRate float64,
) *BillingService {
	return &BillingService{
		invoiceRepo:  invoiceRepo,
		medicineRepo: medicineRepo,
		customerRepo: customerRepo,
		creditRepo:   creditRepo,
		taxRate:      decimal.NewFromFloat(taxRate),
	}
}

// InvoiceItemInput represents one cart line on an invoice request
type InvoiceItemInput struct {
	MedicineID uuid.UUID
	Quantity   int
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	CustomerID    *uuid.UUID
	PaymentMethod enum.PaymentMethod
	Items         []InvoiceItemInput
}

// CreateInvoice finalizes a sale. Stock is reserved atomically across all
// lines; any shortfall rejects the whole invoice and leaves stock untouched.
// A Credit sale requires an attached customer and posts both the invoice
// and a Sale entry to the customer's ledger.
func (s *BillingService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Invoice must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
	}

	var customer *entity.Customer
	if input.CustomerID != nil {
		var err error
		customer, err = s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}
	if input.PaymentMethod.IsDeferred() && customer == nil {
		return nil, apperror.NewBadRequestError("Credit sales require a customer")
	}

	// Batch fetch all medicines up front so pricing and stock checks work
	// against one consistent view.
	medicineIDs := make([]uuid.UUID, 0, len(input.Items))
	quantities := make(map[uuid.UUID]int, len(input.Items))
	for _, item := range input.Items {
		if _, dup := quantities[item.MedicineID]; dup {
			return nil, apperror.NewBadRequestError("Duplicate medicine in invoice items")
		}
		medicineIDs = append(medicineIDs, item.MedicineID)
		quantities[item.MedicineID] = item.Quantity
	}

	medicines, err := s.medicineRepo.GetByIDs(ctx, medicineIDs)
	if err != nil {
		return nil, err
	}
	medicineByID := make(map[uuid.UUID]*entity.Medicine, len(medicines))
	for i := range medicines {
		medicineByID[medicines[i].ID] = &medicines[i]
	}
	for _, id := range medicineIDs {
		if _, ok := medicineByID[id]; !ok {
			return nil, apperror.NewNotFoundError("Medicine")
		}
	}

	// Price each line from its dispensable batch, then compute totals at
	// full precision. Tax applies to the subtotal as a whole.
	subtotal := decimal.Zero
	saleItems := make([]entity.SaleItem, 0, len(input.Items))
	for _, item := range input.Items {
		batch, err := s.medicineRepo.GetStock(ctx, item.MedicineID)
		if err != nil {
			return nil, err
		}
		if batch == nil {
			return nil, apperror.NewConflictError(fmt.Sprintf("Insufficient stock for: %s", medicineByID[item.MedicineID].Name))
		}

		lineTotal := batch.SellingPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		saleItems = append(saleItems, entity.SaleItem{
			MedicineID:   item.MedicineID,
			MedicineName: medicineByID[item.MedicineID].Name,
			Quantity:     item.Quantity,
			UnitPrice:    batch.SellingPrice,
			TotalAmount:  lineTotal,
		})
	}

	tax := subtotal.Mul(s.taxRate)
	total := subtotal.Add(tax)

	failedIDs, err := s.medicineRepo.AtomicDecrementBatch(ctx, quantities)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		names := make([]string, 0, len(failedIDs))
		for _, id := range failedIDs {
			names = append(names, medicineByID[id].Name)
		}
		return nil, apperror.NewConflictError("Insufficient stock for: " + strings.Join(names, ", "))
	}

	status := enum.PaymentStatusPaid
	if input.PaymentMethod.IsDeferred() {
		status = enum.PaymentStatusPending
	}

	invoice := &entity.Invoice{
		InvoiceNo:     generateInvoiceNo(),
		SaleDate:      time.Now().UTC(),
		CustomerID:    input.CustomerID,
		TotalAmount:   total,
		TotalTax:      tax,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: status,
		Items:         saleItems,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		// Give the reserved stock back before reporting failure.
		if compErr := s.medicineRepo.AtomicIncrementBatch(ctx, quantities); compErr != nil {
			log.Printf("stock compensation failed for invoice %s: %v", invoice.InvoiceNo, compErr)
		}
		return nil, err
	}

	if input.PaymentMethod.IsDeferred() {
		if err := s.recordCreditSale(ctx, *input.CustomerID, invoice); err != nil {
			log.Printf("credit ledger update failed for invoice %s: %v", invoice.InvoiceNo, err)
			return nil, err
		}
	}

	return invoice, nil
}

func (s *BillingService) recordCreditSale(ctx context.Context, customerID uuid.UUID, invoice *entity.Invoice) error {
	if err := s.customerRepo.IncrementCredit(ctx, customerID, invoice.TotalAmount); err != nil {
		return err
	}
	return s.creditRepo.Append(ctx, &entity.CreditTransaction{
		CustomerID:    customerID,
		Type:          enum.TransactionTypeSale,
		ReferenceID:   invoice.ID,
		Date:          invoice.SaleDate,
		Amount:        invoice.TotalAmount,
		PaymentMethod: invoice.PaymentMethod,
	})
}

// GetInvoice retrieves an invoice with its items and customer
func (s *BillingService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListPendingInvoices returns all unpaid credit invoices
func (s *BillingService) ListPendingInvoices(ctx context.Context) ([]entity.Invoice, error) {
	return s.invoiceRepo.ListPending(ctx)
}

// FinalizeInvoice settles a pending credit invoice with an immediate payment
// method, clearing the matching amount from the customer's ledger.
func (s *BillingService) FinalizeInvoice(ctx context.Context, id uuid.UUID, method enum.PaymentMethod) (*entity.Invoice, error) {
	if method.IsDeferred() {
		return nil, apperror.NewBadRequestError("Credit cannot be settled with credit")
	}

	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.invoiceRepo.MarkPaid(ctx, id, method)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperror.NewConflictError("Invoice is not pending")
	}

	if invoice.CustomerID != nil {
		covered, err := s.customerRepo.DecrementCreditIfCovered(ctx, *invoice.CustomerID, invoice.TotalAmount)
		if err != nil {
			return nil, err
		}
		if covered {
			if err := s.creditRepo.Append(ctx, &entity.CreditTransaction{
				CustomerID:    *invoice.CustomerID,
				Type:          enum.TransactionTypePayment,
				ReferenceID:   invoice.ID,
				Date:          time.Now().UTC(),
				Amount:        invoice.TotalAmount,
				PaymentMethod: method,
			}); err != nil {
				return nil, err
			}
		}
	}

	return s.GetInvoice(ctx, id)
}

// CreateReturnInput represents one returned invoice line
type CreateReturnInput struct {
	InvoiceID  uuid.UUID
	MedicineID uuid.UUID
	Quantity   int
	Reason     string
}

// CreateReturn takes back sold units of one invoice line. The medicine is
// restocked and the refund computed at the price the line was sold at, tax
// included. On an unsettled credit invoice the refund clears the matching
// amount from the customer's outstanding balance and posts a Return entry
// to the ledger; a settled or cash sale is refunded out of the till and
// only the return record is kept.
func (s *BillingService) CreateReturn(ctx context.Context, input *CreateReturnInput) (*entity.SaleReturn, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewBadRequestError("Return quantity must be positive")
	}

	invoice, err := s.GetInvoice(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	var line *entity.SaleItem
	for i := range invoice.Items {
		if invoice.Items[i].MedicineID == input.MedicineID {
			line = &invoice.Items[i]
			break
		}
	}
	if line == nil {
		return nil, apperror.NewNotFoundError("Invoice line")
	}

	alreadyReturned, err := s.invoiceRepo.ReturnedQuantity(ctx, invoice.ID, input.MedicineID)
	if err != nil {
		return nil, err
	}
	if alreadyReturned+input.Quantity > line.Quantity {
		return nil, apperror.NewConflictError("Return exceeds quantity sold")
	}

	// Refund at the sold unit price plus the tax collected on it.
	refund := line.UnitPrice.
		Mul(decimal.NewFromInt(int64(input.Quantity))).
		Mul(decimal.NewFromInt(1).Add(s.taxRate))

	if err := s.medicineRepo.AtomicIncrementBatch(ctx, map[uuid.UUID]int{input.MedicineID: input.Quantity}); err != nil {
		return nil, err
	}

	ret := &entity.SaleReturn{
		InvoiceID:    invoice.ID,
		CustomerID:   invoice.CustomerID,
		MedicineID:   input.MedicineID,
		MedicineName: line.MedicineName,
		Quantity:     input.Quantity,
		Reason:       strings.TrimSpace(input.Reason),
		RefundAmount: refund,
		ReturnDate:   time.Now().UTC(),
	}
	if err := s.invoiceRepo.CreateReturn(ctx, ret); err != nil {
		return nil, err
	}

	if invoice.PaymentMethod.IsDeferred() && invoice.PaymentStatus == enum.PaymentStatusPending && invoice.CustomerID != nil {
		covered, err := s.customerRepo.DecrementCreditIfCovered(ctx, *invoice.CustomerID, refund)
		if err != nil {
			return nil, err
		}
		if covered {
			if err := s.creditRepo.Append(ctx, &entity.CreditTransaction{
				CustomerID:    *invoice.CustomerID,
				Type:          enum.TransactionTypeReturn,
				ReferenceID:   ret.ID,
				Date:          ret.ReturnDate,
				Amount:        refund,
				PaymentMethod: invoice.PaymentMethod,
			}); err != nil {
				return nil, err
			}
		}
	}

	return ret, nil
}

// ListReturns returns the processed returns for an invoice, newest first
func (s *BillingService) ListReturns(ctx context.Context, invoiceID uuid.UUID) ([]entity.SaleReturn, error) {
	if _, err := s.GetInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.ListReturns(ctx, invoiceID)
}

func generateInvoiceNo() string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("INV-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
