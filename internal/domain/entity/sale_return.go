package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleReturn records one returned invoice line: the medicine goes back into
// stock and the refund is either paid out or, for an unsettled credit sale,
// cleared from the customer's outstanding balance.
type SaleReturn struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"return_id"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	MedicineID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"medicine_id"`
	MedicineName string          `gorm:"size:255;not null" json:"medicine_name"`
	Quantity     int             `gorm:"not null" json:"quantity_returned"`
	Reason       string          `gorm:"type:text" json:"reason"`
	RefundAmount decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"-"`
	ReturnDate   time.Time       `gorm:"not null" json:"return_date"`
	CreatedAt    time.Time       `json:"created_at"`

	// Relationships
	Invoice  Invoice  `gorm:"foreignKey:InvoiceID" json:"-"`
	Medicine Medicine `gorm:"foreignKey:MedicineID" json:"-"`
}

// MarshalJSON rounds the refund at the presentation edge
func (r SaleReturn) MarshalJSON() ([]byte, error) {
	type Alias SaleReturn
	return json.Marshal(&struct {
		Alias
		RefundAmount float64 `json:"refund_amount"`
	}{
		Alias:        Alias(r),
		RefundAmount: r.RefundAmount.Round(2).InexactFloat64(),
	})
}

// BeforeCreate generates a UUID before creating a new return
func (r *SaleReturn) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleReturn model
func (SaleReturn) TableName() string {
	return "sale_returns"
}
