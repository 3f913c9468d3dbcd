package pos

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
)

// Customer is the terminal's read view of a directory record. The directory
// service owns the record; the session only holds a reference.
type Customer struct {
	ID                uuid.UUID       `json:"customer_id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	Email             string          `json:"email,omitempty"`
	Address           string          `json:"address"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
	PaymentStatus     string          `json:"payment_status"`
}

// NewCustomer carries the fields for creating a directory record mid-checkout
type NewCustomer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
}

// CatalogItem is a priced, stock-annotated search hit
type CatalogItem struct {
	MedicineID           uuid.UUID       `json:"medicine_id"`
	MedicineName         string          `json:"medicine_name"`
	GenericName          string          `json:"generic_name"`
	Brand                string          `json:"brand"`
	DosageForm           string          `json:"dosage_form"`
	Strength             string          `json:"strength"`
	PrescriptionRequired bool            `json:"prescription_required"`
	UnitPrice            decimal.Decimal `json:"selling_price_per_unit"`
	Stock                int             `json:"total_stock"`
}

// LineItemFromCatalog builds a cart line from a search hit
func LineItemFromCatalog(item CatalogItem) LineItem {
	return LineItem{
		MedicineID:   item.MedicineID,
		MedicineName: item.MedicineName,
		DosageForm:   item.DosageForm,
		Strength:     item.Strength,
		UnitPrice:    item.UnitPrice,
	}
}

// CreditSummary is the read-only projection of a customer's credit position
type CreditSummary struct {
	OutstandingCredit    decimal.Decimal `json:"outstanding_credit"`
	PaymentStatus        string          `json:"payment_status"`
	HasOutstandingCredit bool            `json:"has_outstanding_credit"`
}

// InvoiceRequest is the checkout submission payload
type InvoiceRequest struct {
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	PaymentStatus enum.PaymentStatus `json:"payment_status"`
	Items         []LineItem         `json:"items"`
	Totals        Totals             `json:"totals"`
}

// InvoiceReceipt is the created invoice as confirmed by the backend
type InvoiceReceipt struct {
	InvoiceID     uuid.UUID          `json:"invoice_id"`
	InvoiceNo     string             `json:"invoice_no"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	TotalTax      decimal.Decimal    `json:"total_tax"`
	PaymentStatus enum.PaymentStatus `json:"payment_status"`
}

// DirectoryService looks up and creates customer records
type DirectoryService interface {
	ListCustomers(ctx context.Context) ([]Customer, error)
	CreateCustomer(ctx context.Context, fields NewCustomer) (*Customer, error)
}

// CatalogService resolves free-text queries to priced catalog entries
type CatalogService interface {
	SearchMedicines(ctx context.Context, query string) ([]CatalogItem, error)
}

// LedgerService reads and settles a customer's outstanding credit
type LedgerService interface {
	GetCreditSummary(ctx context.Context, customerID uuid.UUID) (*CreditSummary, error)
	PayCredit(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, method enum.PaymentMethod) error
}

// BillingService finalizes a sale
type BillingService interface {
	CreateInvoice(ctx context.Context, req *InvoiceRequest) (*InvoiceReceipt, error)
}
