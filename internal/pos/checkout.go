package pos

import (
	"context"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
	"github.com/DurveshChavan/Medical-sub001/pkg/apperror"
)

// ErrSubmissionInFlight is returned when checkout is triggered while a
// submission is already outstanding. The trigger is ignored; exactly one
// invoice-creation call reaches the backend per submission.
var ErrSubmissionInFlight = apperror.NewConflictError("A checkout is already in progress")

// Checkout drives one submission through the state machine:
// Idle -> Validating -> Submitting -> Succeeded | Failed.
//
// Preconditions are checked before any network call: the cart must be
// non-empty, and a Credit sale must have a customer attached. On success
// the cart is cleared, the customer detached, and for a Credit sale the
// customer's credit summary is refetched exactly once; the client never
// increments the balance locally. On failure the cart and customer
// selection are preserved so the operator can retry. Succeeded and Failed
// are both restartable; only an in-flight submission blocks a new one.
func (s *Session) Checkout(ctx context.Context, billing BillingService, ledger LedgerService) (*InvoiceReceipt, error) {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.state = StateValidating

	if s.cart.IsEmpty() {
		s.state = StateIdle
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("Cart is empty")
	}
	if s.method.IsDeferred() && s.customer == nil {
		s.state = StateIdle
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("Credit sales require a customer")
	}

	// Snapshot everything under the lock, then submit without holding it
	// so the UI can keep reading session state.
	req := &InvoiceRequest{
		PaymentMethod: s.method,
		PaymentStatus: enum.PaymentStatusPaid,
		Items:         s.cart.Lines(),
		Totals:        ComputeTotals(s.cart, s.taxRate),
	}
	if s.method.IsDeferred() {
		req.PaymentStatus = enum.PaymentStatusPending
	}
	var customer *Customer
	if s.customer != nil {
		id := s.customer.ID
		req.CustomerID = &id
		customer = s.customer
	}
	wasDeferred := s.method.IsDeferred()
	s.state = StateSubmitting
	s.mu.Unlock()

	receipt, err := billing.CreateInvoice(ctx, req)

	s.mu.Lock()
	if err != nil {
		// Cart and customer stay intact so the operator can retry.
		s.state = StateFailed
		s.lastError = apperror.GetAppError(err).Message
		s.mu.Unlock()
		return nil, err
	}

	s.state = StateSucceeded
	s.lastError = ""
	s.cart.Clear()
	s.customer = nil
	s.creditSummary = nil
	s.mu.Unlock()

	if wasDeferred && customer != nil {
		// Refresh once from the server-authoritative ledger. A failed
		// refresh does not fail the completed sale.
		if summary, refreshErr := ledger.GetCreditSummary(ctx, customer.ID); refreshErr == nil {
			customer.OutstandingCredit = summary.OutstandingCredit
			customer.PaymentStatus = summary.PaymentStatus
		}
	}

	return receipt, nil
}

// RefreshCredit fetches the attached customer's credit summary and caches
// it on the session for the payment warning.
func (s *Session) RefreshCredit(ctx context.Context, ledger LedgerService) (*CreditSummary, error) {
	s.mu.Lock()
	customer := s.customer
	s.mu.Unlock()

	if customer == nil {
		return nil, apperror.NewBadRequestError("No customer attached")
	}

	summary, err := ledger.GetCreditSummary(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.customer == customer {
		s.creditSummary = summary
	}
	s.mu.Unlock()
	return summary, nil
}
