package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/enum"
)

// Invoice represents a finalized sale. It is created exactly once per
// successful checkout and is immutable afterwards except for the
// Pending-to-Paid finalization of a Credit sale.
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"invoice_id"`
	InvoiceNo     string             `gorm:"size:100;unique;not null" json:"invoice_no"`
	SaleDate      time.Time          `gorm:"type:date;not null" json:"sale_date"`
	CustomerID    *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	TotalAmount   decimal.Decimal    `gorm:"type:numeric(12,4);not null" json:"-"`
	TotalTax      decimal.Decimal    `gorm:"type:numeric(12,4);not null" json:"-"`
	PaymentMethod enum.PaymentMethod `gorm:"not null" json:"payment_method"`
	PaymentStatus enum.PaymentStatus `gorm:"default:0" json:"payment_status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// MarshalJSON rounds monetary amounts to 2 decimal places for API responses
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"total_amount"`
		TotalTax    float64 `json:"total_tax"`
	}{
		Alias:       Alias(i),
		TotalAmount: i.TotalAmount.Round(2).InexactFloat64(),
		TotalTax:    i.TotalTax.Round(2).InexactFloat64(),
	})
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// SaleItem represents a line item on an invoice. TotalAmount always equals
// Quantity times UnitPrice.
type SaleItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"sale_id"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	MedicineID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"medicine_id"`
	MedicineName string          `gorm:"size:255;not null" json:"medicine_name"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"-"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"-"`
	CreatedAt    time.Time       `json:"created_at"`

	// Relationships
	Invoice  Invoice  `gorm:"foreignKey:InvoiceID" json:"-"`
	Medicine Medicine `gorm:"foreignKey:MedicineID" json:"-"`
}

// MarshalJSON rounds monetary amounts to 2 decimal places for API responses
func (s SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice   float64 `json:"unit_price"`
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(s),
		UnitPrice:   s.UnitPrice.Round(2).InexactFloat64(),
		TotalAmount: s.TotalAmount.Round(2).InexactFloat64(),
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (s *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
