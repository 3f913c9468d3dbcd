package pos

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

type recordingLedger struct {
	fakeLedger
	payCalls int
	payErr   error
}

func (r *recordingLedger) PayCredit(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, method enum.PaymentMethod) error {
	r.payCalls++
	return r.payErr
}

func TestPayCreditRefreshesSummary(t *testing.T) {
	s := NewSession(DefaultTaxRate)
	s.AttachCustomer(&Customer{ID: uuid.New(), Name: "Ravi"})
	ledger := &recordingLedger{}
	ledger.summary = CreditSummary{OutstandingCredit: decimal.RequireFromString("150"), HasOutstandingCredit: true}

	summary, err := s.PayCredit(context.Background(), ledger, decimal.RequireFromString("100"), enum.PaymentMethodCash)

	require.NoError(t, err)
	assert.Equal(t, 1, ledger.payCalls)
	// Balance comes from the post-payment server refetch
	assert.Equal(t, 1, ledger.summaryCalls)
	assert.True(t, summary.OutstandingCredit.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, summary, s.CreditSummary())
}

func TestPayCreditValidation(t *testing.T) {
	s := NewSession(DefaultTaxRate)
	ledger := &recordingLedger{}

	// No customer attached
	_, err := s.PayCredit(context.Background(), ledger, decimal.RequireFromString("10"), enum.PaymentMethodCash)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	s.AttachCustomer(&Customer{ID: uuid.New()})

	// Non-positive amount
	_, err = s.PayCredit(context.Background(), ledger, decimal.Zero, enum.PaymentMethodCash)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	// Credit cannot settle credit
	_, err = s.PayCredit(context.Background(), ledger, decimal.RequireFromString("10"), enum.PaymentMethodCredit)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	assert.Equal(t, 0, ledger.payCalls)
}

func TestPayCreditOverpaymentConflictSurfaces(t *testing.T) {
	s := NewSession(DefaultTaxRate)
	s.AttachCustomer(&Customer{ID: uuid.New()})
	ledger := &recordingLedger{payErr: apperror.NewConflictError("Payment exceeds outstanding credit")}

	_, err := s.PayCredit(context.Background(), ledger, decimal.RequireFromString("500"), enum.PaymentMethodCash)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	// No refresh after a rejected payment
	assert.Equal(t, 0, ledger.summaryCalls)
}
