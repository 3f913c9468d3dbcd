package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
)

// CreditTransaction is one entry in a customer's credit ledger. Entries are
// appended server-side when a Credit sale posts or a payment is recorded;
// clients never compute ledger totals themselves.
type CreditTransaction struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key" json:"transaction_id"`
	CustomerID    uuid.UUID            `gorm:"type:uuid;not null;index" json:"customer_id"`
	Type          enum.TransactionType `gorm:"not null" json:"type"`
	ReferenceID   uuid.UUID            `gorm:"type:uuid;not null" json:"reference_id"`
	Date          time.Time            `gorm:"not null" json:"date"`
	Amount        decimal.Decimal      `gorm:"type:numeric(12,4);not null" json:"-"`
	PaymentMethod enum.PaymentMethod   `gorm:"not null" json:"payment_method"`
	CreatedAt     time.Time            `json:"created_at"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON rounds the amount at the presentation edge
func (t CreditTransaction) MarshalJSON() ([]byte, error) {
	type Alias CreditTransaction
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(t),
		Amount: t.Amount.Round(2).InexactFloat64(),
	})
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *CreditTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CreditTransaction model
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
