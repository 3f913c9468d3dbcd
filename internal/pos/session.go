package pos

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
)

// CheckoutState is the orchestrator's lifecycle for one submission
type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

// String returns the string representation of the checkout state
func (s CheckoutState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the mutable state of one operator's checkout: the cart, the
// optionally attached customer, the chosen payment method and the
// submission state. It replaces ambient globals with a single struct
// created per POS session and destroyed on logout or reset. A single
// operator drives it; the mutex only protects against double-submission.
type Session struct {
	taxRate decimal.Decimal

	mu            sync.Mutex
	cart          *Cart
	customer      *Customer
	method        enum.PaymentMethod
	state         CheckoutState
	creditSummary *CreditSummary
	lastError     string
}

// NewSession creates a fresh session with an empty cart, no customer and
// Cash as the default payment method.
func NewSession(taxRate decimal.Decimal) *Session {
	return &Session{
		taxRate: taxRate,
		cart:    NewCart(),
		method:  enum.PaymentMethodCash,
		state:   StateIdle,
	}
}

// AddItem adds a catalog hit to the cart or bumps its quantity
func (s *Session) AddItem(item CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddOrIncrement(LineItemFromCatalog(item))
}

// SetQuantity rewrites a line's quantity; zero or less removes the line
func (s *Session) SetQuantity(medicineID uuid.UUID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetQuantity(medicineID, quantity)
}

// ClearCart empties the cart without touching customer or payment state
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// Lines returns the cart's line items in insertion order
func (s *Session) Lines() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// Totals prices the current cart
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotals(s.cart, s.taxRate)
}

// AttachCustomer selects a customer by reference for the current sale
func (s *Session) AttachCustomer(c *Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customer = c
	s.creditSummary = nil
}

// DetachCustomer resets the sale to walk-in
func (s *Session) DetachCustomer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customer = nil
	s.creditSummary = nil
}

// Customer returns the currently attached customer, nil for walk-in
func (s *Session) Customer() *Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer
}

// SelectPayment records the chosen payment method. Selection is always
// allowed; the Credit-without-customer rule blocks at submission, and
// PaymentWarning lets the UI disclose it up front.
func (s *Session) SelectPayment(method enum.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		// No mid-transaction switching once submission has started.
		return
	}
	s.method = method
}

// PaymentMethod returns the currently selected payment method
func (s *Session) PaymentMethod() enum.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method
}

// PaymentWarning returns a displayable warning for the current payment
// selection, or empty when the selection is clean. Credit against an
// already-outstanding balance is permitted but disclosed.
func (s *Session) PaymentWarning() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.method.IsDeferred() {
		return ""
	}
	if s.customer == nil {
		return "Credit sales require a customer. Attach a customer before checkout."
	}
	if s.creditSummary != nil && s.creditSummary.HasOutstandingCredit {
		return "Customer already has outstanding credit of " + s.creditSummary.OutstandingCredit.Round(2).String() + "."
	}
	if s.customer.OutstandingCredit.GreaterThan(decimal.Zero) {
		return "Customer already has outstanding credit of " + s.customer.OutstandingCredit.Round(2).String() + "."
	}
	return ""
}

// State returns the orchestrator state
func (s *Session) State() CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the message from the most recent failed submission
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// CreditSummary returns the cached credit snapshot for the attached
// customer, nil when none has been fetched.
func (s *Session) CreditSummary() *CreditSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creditSummary
}
