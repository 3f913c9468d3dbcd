package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
	"github.com/DurveshChavan/Medical-sub001/internal/domain/repository"
	"github.com/DurveshChavan/Medical-sub001/pkg/apperror"
	"github.com/DurveshChavan/Medical-sub001/pkg/pagination"
)

// CustomerService handles the customer directory and the credit ledger
type CustomerService struct {
	customerRepo repository.CustomerRepository
	creditRepo   repository.CreditRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	creditRepo repository.CreditRepository,
	invoiceRepo repository.InvoiceRepository,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		creditRepo:   creditRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// CustomerInput represents the create/update customer input
type CustomerInput struct {
	Name        string
	Phone       string
	Email       *string
	Address     string
	City        *string
	State       *string
	ZipCode     *string
	DateOfBirth *string
	Gender      *string
}

func (in *CustomerInput) validate() []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if strings.TrimSpace(in.Phone) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "phone", Message: "Phone is required"})
	}
	if strings.TrimSpace(in.Address) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "address", Message: "Address is required"})
	}
	return fieldErrors
}

// CreateCustomer creates a new customer with zero outstanding credit
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	if fieldErrors := input.validate(); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	customer := &entity.Customer{
		Name:              strings.TrimSpace(input.Name),
		Phone:             strings.TrimSpace(input.Phone),
		Email:             input.Email,
		Address:           strings.TrimSpace(input.Address),
		City:              input.City,
		State:             input.State,
		ZipCode:           input.ZipCode,
		DateOfBirth:       input.DateOfBirth,
		Gender:            input.Gender,
		IsActive:          true,
		OutstandingCredit: decimal.Zero,
		PaymentStatus:     "Good",
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomer updates an existing customer's directory fields
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	if fieldErrors := input.validate(); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.Email = input.Email
	customer.Address = strings.TrimSpace(input.Address)
	customer.City = input.City
	customer.State = input.State
	customer.ZipCode = input.ZipCode
	customer.DateOfBirth = input.DateOfBirth
	customer.Gender = input.Gender

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer deactivates a customer. Customers carrying outstanding
// credit cannot be removed.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	if customer.HasOutstandingCredit() {
		return apperror.NewConflictError("Cannot delete customer with outstanding credit")
	}
	return s.customerRepo.SoftDelete(ctx, id)
}

// ListCustomers lists customers with optional name/phone/email search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(customers, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// CreditSummary aggregates a customer's credit position
type CreditSummary struct {
	Customer             *entity.Customer `json:"customer"`
	OutstandingCredit    float64          `json:"outstanding_credit"`
	PaymentStatus        string           `json:"payment_status"`
	HasOutstandingCredit bool             `json:"has_outstanding_credit"`
	PendingInvoices      int              `json:"pending_invoices"`
}

// GetCreditSummary returns a customer's outstanding balance and standing
func (s *CustomerService) GetCreditSummary(ctx context.Context, id uuid.UUID) (*CreditSummary, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	pending, err := s.invoiceRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	pendingCount := 0
	for _, inv := range pending {
		if inv.CustomerID != nil && *inv.CustomerID == id {
			pendingCount++
		}
	}

	outstanding, _ := customer.OutstandingCredit.Round(2).Float64()
	return &CreditSummary{
		Customer:             customer,
		OutstandingCredit:    outstanding,
		PaymentStatus:        customer.PaymentStatus,
		HasOutstandingCredit: customer.HasOutstandingCredit(),
		PendingInvoices:      pendingCount,
	}, nil
}

// PayCreditInput represents a credit settlement
type PayCreditInput struct {
	Amount        decimal.Decimal
	PaymentMethod enum.PaymentMethod
}

// PayCredit settles part of a customer's outstanding credit. The payment
// must not exceed the current balance and cannot itself be made on credit.
func (s *CustomerService) PayCredit(ctx context.Context, customerID uuid.UUID, input *PayCreditInput) (*entity.Customer, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.NewBadRequestError("Payment amount must be positive")
	}
	if input.PaymentMethod.IsDeferred() {
		return nil, apperror.NewBadRequestError("Credit cannot be settled with credit")
	}

	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	covered, err := s.customerRepo.DecrementCreditIfCovered(ctx, customerID, input.Amount)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, apperror.NewConflictError("Payment exceeds outstanding credit")
	}

	ledgerEntry := &entity.CreditTransaction{
		CustomerID:    customerID,
		Type:          enum.TransactionTypePayment,
		ReferenceID:   uuid.New(),
		Date:          time.Now().UTC(),
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
	}
	if err := s.creditRepo.Append(ctx, ledgerEntry); err != nil {
		return nil, err
	}

	customer.OutstandingCredit = customer.OutstandingCredit.Sub(input.Amount)
	if !customer.HasOutstandingCredit() && customer.PaymentStatus != "Good" {
		customer.PaymentStatus = "Good"
		if err := s.customerRepo.Update(ctx, customer); err != nil {
			return nil, err
		}
	}
	return customer, nil
}

// GetCreditTransactions returns a customer's ledger, newest first
func (s *CustomerService) GetCreditTransactions(ctx context.Context, customerID uuid.UUID) ([]entity.CreditTransaction, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.creditRepo.ListByCustomer(ctx, customerID)
}

// GetPurchaseHistory returns a customer's invoices, newest first
func (s *CustomerService) GetPurchaseHistory(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	invoices, total, err := s.invoiceRepo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(invoices, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
