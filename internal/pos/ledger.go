package pos

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
	"github.com/DurveshChavan/Medical-sub001/pkg/apperror"
)

// PayCredit records a payment against the attached customer's outstanding
// balance, then refreshes the cached summary from the server. The client
// never adjusts the balance locally; the server's guarded update is the
// authority, so an overpayment comes back as a Conflict the UI can show.
func (s *Session) PayCredit(ctx context.Context, ledger LedgerService, amount decimal.Decimal, method enum.PaymentMethod) (*CreditSummary, error) {
	s.mu.Lock()
	customer := s.customer
	s.mu.Unlock()

	if customer == nil {
		return nil, apperror.NewBadRequestError("No customer attached")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.NewBadRequestError("Payment amount must be positive")
	}
	if method.IsDeferred() {
		return nil, apperror.NewBadRequestError("Credit cannot be settled with credit")
	}

	if err := ledger.PayCredit(ctx, customer.ID, amount, method); err != nil {
		return nil, err
	}

	return s.RefreshCredit(ctx, ledger)
}
