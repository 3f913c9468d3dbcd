package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
	"github.com/DurveshChavan/Medical-sub001/internal/domain/repository"
	"github.com/DurveshChavan/Medical-sub001/pkg/apperror"
	"github.com/DurveshChavan/Medical-sub001/pkg/pagination"
)

type fakeInvoiceRepo struct {
	created   []*entity.Invoice
	createErr error
	invoices  map[uuid.UUID]*entity.Invoice
	returns   []*entity.SaleReturn
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if f.createErr != nil {
		return f.createErr
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	f.created = append(f.created, invoice)
	if f.invoices == nil {
		f.invoices = make(map[uuid.UUID]*entity.Invoice)
	}
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return f.invoices[id], nil
}

func (f *fakeInvoiceRepo) ListPending(ctx context.Context) ([]entity.Invoice, error) {
	var out []entity.Invoice
	for _, inv := range f.invoices {
		if inv.PaymentStatus == enum.PaymentStatusPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Invoice, int64, error) {
	var out []entity.Invoice
	for _, inv := range f.invoices {
		if inv.CustomerID != nil && *inv.CustomerID == customerID {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) CreateReturn(ctx context.Context, ret *entity.SaleReturn) error {
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	f.returns = append(f.returns, ret)
	return nil
}

func (f *fakeInvoiceRepo) ListReturns(ctx context.Context, invoiceID uuid.UUID) ([]entity.SaleReturn, error) {
	var out []entity.SaleReturn
	for _, r := range f.returns {
		if r.InvoiceID == invoiceID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ReturnedQuantity(ctx context.Context, invoiceID, medicineID uuid.UUID) (int, error) {
	total := 0
	for _, r := range f.returns {
		if r.InvoiceID == invoiceID && r.MedicineID == medicineID {
			total += r.Quantity
		}
	}
	return total, nil
}

func (f *fakeInvoiceRepo) MarkPaid(ctx context.Context, id uuid.UUID, method enum.PaymentMethod) (bool, error) {
	inv, ok := f.invoices[id]
	if !ok || inv.PaymentStatus != enum.PaymentStatusPending {
		return false, nil
	}
	inv.PaymentStatus = enum.PaymentStatusPaid
	inv.PaymentMethod = method
	return true, nil
}

type fakeMedicineRepo struct {
	medicines  map[uuid.UUID]*entity.Medicine
	stock      map[uuid.UUID]*entity.Inventory
	quantities map[uuid.UUID]int
	decrements []map[uuid.UUID]int
	increments []map[uuid.UUID]int
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{
		medicines:  make(map[uuid.UUID]*entity.Medicine),
		stock:      make(map[uuid.UUID]*entity.Inventory),
		quantities: make(map[uuid.UUID]int),
	}
}

func (f *fakeMedicineRepo) addMedicine(name, price string, quantity int) uuid.UUID {
	id := uuid.New()
	f.medicines[id] = &entity.Medicine{ID: id, Name: name}
	f.stock[id] = &entity.Inventory{
		MedicineID:      id,
		SellingPrice:    decimal.RequireFromString(price),
		QuantityInStock: quantity,
	}
	f.quantities[id] = quantity
	return id
}

func (f *fakeMedicineRepo) Create(ctx context.Context, m *entity.Medicine) error { return nil }

func (f *fakeMedicineRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	return f.medicines[id], nil
}

func (f *fakeMedicineRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Medicine, error) {
	var out []entity.Medicine
	for _, id := range ids {
		if m, ok := f.medicines[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedicineRepo) Search(ctx context.Context, query string, limit int) ([]repository.MedicineSearchResult, error) {
	return nil, nil
}

func (f *fakeMedicineRepo) GetStock(ctx context.Context, medicineID uuid.UUID) (*entity.Inventory, error) {
	inv, ok := f.stock[medicineID]
	if !ok || f.quantities[medicineID] <= 0 {
		return nil, nil
	}
	return inv, nil
}

func (f *fakeMedicineRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	f.decrements = append(f.decrements, decrements)
	var failed []uuid.UUID
	for id, amount := range decrements {
		if f.quantities[id] < amount {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, amount := range decrements {
		f.quantities[id] -= amount
	}
	return nil, nil
}

func (f *fakeMedicineRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	f.increments = append(f.increments, increments)
	for id, amount := range increments {
		f.quantities[id] += amount
	}
	return nil
}

type fakeCustomerRepo struct {
	customers  map[uuid.UUID]*entity.Customer
	increments []decimal.Decimal
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (f *fakeCustomerRepo) addCustomer(name string, outstanding string) *entity.Customer {
	c := &entity.Customer{
		ID:                uuid.New(),
		Name:              name,
		Phone:             "9876543210",
		Address:           "MG Road",
		IsActive:          true,
		OutstandingCredit: decimal.RequireFromString(outstanding),
		PaymentStatus:     "Good",
	}
	f.customers[c.ID] = c
	return c
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	// Hand out a copy like a real row scan would
	cp := *c
	return &cp, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if c, ok := f.customers[id]; ok {
		c.IsActive = false
	}
	return nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCustomerRepo) IncrementCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	c, ok := f.customers[id]
	if !ok {
		return errors.New("not found")
	}
	f.increments = append(f.increments, amount)
	c.OutstandingCredit = c.OutstandingCredit.Add(amount)
	return nil
}

func (f *fakeCustomerRepo) DecrementCreditIfCovered(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	c, ok := f.customers[id]
	if !ok || c.OutstandingCredit.LessThan(amount) {
		return false, nil
	}
	c.OutstandingCredit = c.OutstandingCredit.Sub(amount)
	return true, nil
}

type fakeCreditRepo struct {
	entries []*entity.CreditTransaction
}

func (f *fakeCreditRepo) Append(ctx context.Context, tx *entity.CreditTransaction) error {
	f.entries = append(f.entries, tx)
	return nil
}

func (f *fakeCreditRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CreditTransaction, error) {
	var out []entity.CreditTransaction
	for _, e := range f.entries {
		if e.CustomerID == customerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func newBillingService(invoices *fakeInvoiceRepo, medicines *fakeMedicineRepo, customers *fakeCustomerRepo, credits *fakeCreditRepo) *BillingService {
	return NewBillingService(invoices, medicines, customers, credits, 0.18)
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	invoices := &fakeInvoiceRepo{}
	medicines := newFakeMedicineRepo()
	customers := newFakeCustomerRepo()
	credits := &fakeCreditRepo{}
	svc := newBillingService(invoices, medicines, customers, credits)

	medID := medicines.addMedicine("Paracetamol 500mg", "50", 10)

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PaymentMethod: enum.PaymentMethodCash,
		Items:         []InvoiceItemInput{{MedicineID: medID, Quantity: 2}},
	})

	require.NoError(t, err)
	// subtotal 100, tax 18, total 118
	assert.True(t, invoice.TotalTax.Equal(decimal.RequireFromString("18")))
	assert.True(t, invoice.TotalAmount.Equal(decimal.RequireFromString("118")))
	assert.Equal(t, enum.PaymentStatusPaid, invoice.PaymentStatus)
	require.Len(t, invoice.Items, 1)
	assert.True(t, invoice.Items[0].TotalAmount.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, 8, medicines.quantities[medID])
	assert.Empty(t, credits.entries)
}

func TestCreateInvoiceEmptyCartRejected(t *testing.T) {
	svc := newBillingService(&fakeInvoiceRepo{}, newFakeMedicineRepo(), newFakeCustomerRepo(), &fakeCreditRepo{})

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PaymentMethod: enum.PaymentMethodCash,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCreateInvoiceCreditRequiresCustomer(t *testing.T) {
	medicines := newFakeMedicineRepo()
	medID := medicines.addMedicine("Paracetamol", "50", 10)
	svc := newBillingService(&fakeInvoiceRepo{}, medicines, newFakeCustomerRepo(), &fakeCreditRepo{})

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PaymentMethod: enum.PaymentMethodCredit,
		Items:         []InvoiceItemInput{{MedicineID: medID, Quantity: 1}},
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCreateInvoiceCreditPostsLedger(t *testing.T) {
	invoices := &fakeInvoiceRepo{}
	medicines := newFakeMedicineRepo()
	customers := newFakeCustomerRepo()
	credits := &fakeCreditRepo{}
	svc := newBillingService(invoices, medicines, customers, credits)

	medID := medicines.addMedicine("Amoxicillin", "100", 5)
	customer := customers.addCustomer("Asha", "0")

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CustomerID:    &customer.ID,
		PaymentMethod: enum.PaymentMethodCredit,
		Items:         []InvoiceItemInput{{MedicineID: medID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPending, invoice.PaymentStatus)

	// Outstanding balance grew by the invoice total (100 + 18 tax)
	assert.True(t, customer.OutstandingCredit.Equal(decimal.RequireFromString("118")))

	require.Len(t, credits.entries, 1)
	assert.Equal(t, enum.TransactionTypeSale, credits.entries[0].Type)
	assert.Equal(t, invoice.ID, credits.entries[0].ReferenceID)
	assert.True(t, credits.entries[0].Amount.Equal(decimal.RequireFromString("118")))
}

func TestCreateInvoiceInsufficientStockConflict(t *testing.T) {
	invoices := &fakeInvoiceRepo{}
	medicines := newFakeMedicineRepo()
	svc := newBillingService(invoices, medicines, newFakeCustomerRepo(), &fakeCreditRepo{})

	medID := medicines.addMedicine("Cetirizine", "15", 2)

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PaymentMethod: enum.PaymentMethodCash,
		Items:         []InvoiceItemInput{{MedicineID: medID, Quantity: 5}},
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Contains(t, apperror.GetAppError(err).Message, "Cetirizine")
	assert.Empty(t, invoices.created)
	assert.Equal(t, 2, medicines.quantities[medID])
}

func TestCreateInvoiceCompensatesStockOnPersistFailure(t *testing.T) {
	invoices := &fakeInvoiceRepo{createErr: errors.New("db down")}
	medicines := newFakeMedicineRepo()
	svc := newBillingService(invoices, medicines, newFakeCustomerRepo(), &fakeCreditRepo{})

	medID := medicines.addMedicine("Ibuprofen", "30", 10)

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PaymentMethod: enum.PaymentMethodCash,
		Items:         []InvoiceItemInput{{MedicineID: medID, Quantity: 3}},
	})

	require.Error(t, err)
	// Reserved stock was given back
	require.Len(t, medicines.increments, 1)
	assert.Equal(t, 10, medicines.quantities[medID])
}

func TestCreateInvoiceUnknownMedicine(t *testing.T) {
	svc := newBillingService(&fakeInvoiceRepo{}, newFakeMedicineRepo(), newFakeCustomerRepo(), &fakeCreditRepo{})

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PaymentMethod: enum.PaymentMethodCash,
		Items:         []InvoiceItemInput{{MedicineID: uuid.New(), Quantity: 1}},
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestFinalizeInvoiceSettlesCredit(t *testing.T) {
	invoices := &fakeInvoiceRepo{}
	medicines := newFakeMedicineRepo()
	customers := newFakeCustomerRepo()
	credits := &fakeCreditRepo{}
	svc := newBillingService(invoices, medicines, customers, credits)

	medID := medicines.addMedicine("Amoxicillin", "100", 5)
	customer := customers.addCustomer("Asha", "0")

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CustomerID:    &customer.ID,
		PaymentMethod: enum.PaymentMethodCredit,
		Items:         []InvoiceItemInput{{MedicineID: medID, Quantity: 1}},
	})
	require.NoError(t, err)

	finalized, err := svc.FinalizeInvoice(context.Background(), invoice.ID, enum.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, finalized.PaymentStatus)
	assert.True(t, customer.OutstandingCredit.IsZero())

	// Sale entry plus Payment entry
	require.Len(t, credits.entries, 2)
	assert.Equal(t, enum.TransactionTypePayment, credits.entries[1].Type)

	// Finalizing twice is a conflict
	_, err = svc.FinalizeInvoice(context.Background(), invoice.ID, enum.PaymentMethodCash)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestFinalizeInvoiceRejectsCreditMethod(t *testing.T) {
	svc := newBillingService(&fakeInvoiceRepo{}, newFakeMedicineRepo(), newFakeCustomerRepo(), &fakeCreditRepo{})

	_, err := svc.FinalizeInvoice(context.Background(), uuid.New(), enum.PaymentMethodCredit)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCreateReturnRestocksAndClearsCredit(t *testing.T) {
	invoices := &fakeInvoiceRepo{}
	medicines := newFakeMedicineRepo()
	customers := newFakeCustomerRepo()
	credits := &fakeCreditRepo{}
	svc := newBillingService(invoices, medicines, customers, credits)

	medID := medicines.addMedicine("Amoxicillin", "100", 5)
	customer := customers.addCustomer("Asha", "0")

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CustomerID:    &customer.ID,
		PaymentMethod: enum.PaymentMethodCredit,
		Items:         []InvoiceItemInput{{MedicineID: medID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 3, medicines.quantities[medID])

	ret, err := svc.CreateReturn(context.Background(), &CreateReturnInput{
		InvoiceID:  invoice.ID,
		MedicineID: medID,
		Quantity:   1,
		Reason:     "Damaged strip",
	})

	require.NoError(t, err)
	// Stock back on the shelf
	assert.Equal(t, 4, medicines.quantities[medID])
	// Refund is the sold price plus tax: 100 * 1.18
	assert.True(t, ret.RefundAmount.Equal(decimal.RequireFromString("118")))
	// Outstanding credit drops from 236 to 118
	assert.True(t, customer.OutstandingCredit.Equal(decimal.RequireFromString("118")))

	// Sale entry plus Return entry
	require.Len(t, credits.entries, 2)
	assert.Equal(t, enum.TransactionTypeReturn, credits.entries[1].Type)
	assert.Equal(t, ret.ID, credits.entries[1].ReferenceID)
	assert.True(t, credits.entries[1].Amount.Equal(decimal.RequireFromString("118")))
}

func TestCreateReturnCashSaleSkipsLedger(t *testing.T) {
	invoices := &fakeInvoiceRepo{}
	medicines := newFakeMedicineRepo()
	credits := &fakeCreditRepo{}
	svc := newBillingService(invoices, medicines, newFakeCustomerRepo(), credits)

	medID := medicines.addMedicine("Cetirizine", "15", 10)

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PaymentMethod: enum.PaymentMethodCash,
		Items:         []InvoiceItemInput{{MedicineID: medID, Quantity: 3}},
	})
	require.NoError(t, err)

	ret, err := svc.CreateReturn(context.Background(), &CreateReturnInput{
		InvoiceID:  invoice.ID,
		MedicineID: medID,
		Quantity:   2,
	})

	require.NoError(t, err)
	assert.Equal(t, 9, medicines.quantities[medID])
	assert.Empty(t, credits.entries)

	returns, err := svc.ListReturns(context.Background(), invoice.ID)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, ret.ID, returns[0].ID)
}

func TestCreateReturnCannotExceedQuantitySold(t *testing.T) {
	invoices := &fakeInvoiceRepo{}
	medicines := newFakeMedicineRepo()
	svc := newBillingService(invoices, medicines, newFakeCustomerRepo(), &fakeCreditRepo{})

	medID := medicines.addMedicine("Ibuprofen", "30", 10)

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PaymentMethod: enum.PaymentMethodCash,
		Items:         []InvoiceItemInput{{MedicineID: medID, Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = svc.CreateReturn(context.Background(), &CreateReturnInput{
		InvoiceID:  invoice.ID,
		MedicineID: medID,
		Quantity:   2,
	})
	require.NoError(t, err)

	// Cumulative returns are capped at the quantity sold
	_, err = svc.CreateReturn(context.Background(), &CreateReturnInput{
		InvoiceID:  invoice.ID,
		MedicineID: medID,
		Quantity:   2,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Equal(t, 9, medicines.quantities[medID])
}

func TestCreateReturnUnknownLine(t *testing.T) {
	invoices := &fakeInvoiceRepo{}
	medicines := newFakeMedicineRepo()
	svc := newBillingService(invoices, medicines, newFakeCustomerRepo(), &fakeCreditRepo{})

	medID := medicines.addMedicine("Dolo 650", "28", 10)

	invoice, err := svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		PaymentMethod: enum.PaymentMethodCash,
		Items:         []InvoiceItemInput{{MedicineID: medID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.CreateReturn(context.Background(), &CreateReturnInput{
		InvoiceID:  invoice.ID,
		MedicineID: uuid.New(),
		Quantity:   1,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
