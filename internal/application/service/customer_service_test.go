package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
	"github.com/DurveshChavan/Medical-sub001/pkg/apperror"
)

func newCustomerService(customers *fakeCustomerRepo, credits *fakeCreditRepo, invoices *fakeInvoiceRepo) *CustomerService {
	return NewCustomerService(customers, credits, invoices)
}

func TestCreateCustomerRequiresFields(t *testing.T) {
	svc := newCustomerService(newFakeCustomerRepo(), &fakeCreditRepo{}, &fakeInvoiceRepo{})

	_, err := svc.CreateCustomer(context.Background(), &CustomerInput{
		Name:    "  ",
		Phone:   "9876543210",
		Address: "",
	})

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	require.Len(t, appErr.Errors, 2)
	assert.Equal(t, "name", appErr.Errors[0].Field)
	assert.Equal(t, "address", appErr.Errors[1].Field)
}

func TestCreateCustomerStartsClean(t *testing.T) {
	svc := newCustomerService(newFakeCustomerRepo(), &fakeCreditRepo{}, &fakeInvoiceRepo{})

	customer, err := svc.CreateCustomer(context.Background(), &CustomerInput{
		Name:    " Asha Verma ",
		Phone:   "9876543210",
		Address: "MG Road",
	})

	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", customer.Name)
	assert.True(t, customer.OutstandingCredit.IsZero())
	assert.Equal(t, "Good", customer.PaymentStatus)
	assert.True(t, customer.IsActive)
}

func TestDeleteCustomerWithCreditBlocked(t *testing.T) {
	customers := newFakeCustomerRepo()
	svc := newCustomerService(customers, &fakeCreditRepo{}, &fakeInvoiceRepo{})
	debtor := customers.addCustomer("Ravi", "250")

	err := svc.DeleteCustomer(context.Background(), debtor.ID)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.True(t, debtor.IsActive)

	clean := customers.addCustomer("Asha", "0")
	require.NoError(t, svc.DeleteCustomer(context.Background(), clean.ID))
	assert.False(t, clean.IsActive)
}

func TestPayCreditReducesBalance(t *testing.T) {
	customers := newFakeCustomerRepo()
	credits := &fakeCreditRepo{}
	svc := newCustomerService(customers, credits, &fakeInvoiceRepo{})
	debtor := customers.addCustomer("Ravi", "250")

	_, err := svc.PayCredit(context.Background(), debtor.ID, &PayCreditInput{
		Amount:        decimal.RequireFromString("100"),
		PaymentMethod: enum.PaymentMethodCash,
	})

	require.NoError(t, err)
	assert.True(t, debtor.OutstandingCredit.Equal(decimal.RequireFromString("150")))
	require.Len(t, credits.entries, 1)
	assert.Equal(t, enum.TransactionTypePayment, credits.entries[0].Type)
	assert.Equal(t, enum.PaymentMethodCash, credits.entries[0].PaymentMethod)
}

func TestPayCreditOverpaymentRejected(t *testing.T) {
	customers := newFakeCustomerRepo()
	credits := &fakeCreditRepo{}
	svc := newCustomerService(customers, credits, &fakeInvoiceRepo{})
	debtor := customers.addCustomer("Ravi", "50")

	_, err := svc.PayCredit(context.Background(), debtor.ID, &PayCreditInput{
		Amount:        decimal.RequireFromString("100"),
		PaymentMethod: enum.PaymentMethodCash,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	// Balance untouched, no ledger entry written
	assert.True(t, debtor.OutstandingCredit.Equal(decimal.RequireFromString("50")))
	assert.Empty(t, credits.entries)
}

func TestPayCreditRejectsNonPositiveAndCredit(t *testing.T) {
	customers := newFakeCustomerRepo()
	svc := newCustomerService(customers, &fakeCreditRepo{}, &fakeInvoiceRepo{})
	debtor := customers.addCustomer("Ravi", "50")

	_, err := svc.PayCredit(context.Background(), debtor.ID, &PayCreditInput{
		Amount:        decimal.Zero,
		PaymentMethod: enum.PaymentMethodCash,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = svc.PayCredit(context.Background(), debtor.ID, &PayCreditInput{
		Amount:        decimal.RequireFromString("10"),
		PaymentMethod: enum.PaymentMethodCredit,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestGetCreditSummary(t *testing.T) {
	customers := newFakeCustomerRepo()
	svc := newCustomerService(customers, &fakeCreditRepo{}, &fakeInvoiceRepo{})
	debtor := customers.addCustomer("Ravi", "117.995")

	summary, err := svc.GetCreditSummary(context.Background(), debtor.ID)

	require.NoError(t, err)
	// Rounded at the presentation edge
	assert.Equal(t, 118.0, summary.OutstandingCredit)
	assert.Equal(t, "Good", summary.PaymentStatus)
	assert.True(t, summary.HasOutstandingCredit)
}

func TestGetCreditSummaryCleanCustomer(t *testing.T) {
	customers := newFakeCustomerRepo()
	svc := newCustomerService(customers, &fakeCreditRepo{}, &fakeInvoiceRepo{})
	clean := customers.addCustomer("Asha", "0")

	summary, err := svc.GetCreditSummary(context.Background(), clean.ID)

	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.OutstandingCredit)
	assert.False(t, summary.HasOutstandingCredit)
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := newCustomerService(newFakeCustomerRepo(), &fakeCreditRepo{}, &fakeInvoiceRepo{})

	_, err := svc.GetCustomer(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
