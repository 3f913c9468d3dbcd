package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a pharmacy customer. OutstandingCredit is the
// authoritative unpaid balance across all Credit-method sales minus recorded
// payments; it is only ever mutated through guarded atomic updates.
type Customer struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"customer_id"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	Phone             string          `gorm:"size:50;not null;index" json:"phone"`
	Email             *string         `gorm:"size:255" json:"email,omitempty"`
	Address           string          `gorm:"type:text;not null" json:"address"`
	City              *string         `gorm:"size:100" json:"city,omitempty"`
	State             *string         `gorm:"size:100" json:"state,omitempty"`
	ZipCode           *string         `gorm:"size:20" json:"zip_code,omitempty"`
	DateOfBirth       *string         `gorm:"size:20" json:"date_of_birth,omitempty"`
	Gender            *string         `gorm:"size:20" json:"gender,omitempty"`
	IsActive          bool            `gorm:"default:true" json:"is_active_customer"`
	OutstandingCredit decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"-"`
	PaymentStatus     string          `gorm:"size:20;default:'Good'" json:"payment_status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Invoices     []Invoice           `gorm:"foreignKey:CustomerID" json:"-"`
	Transactions []CreditTransaction `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON rounds the outstanding balance to 2 decimal places at the
// presentation edge; internal arithmetic keeps full precision.
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		OutstandingCredit float64 `json:"outstanding_credit"`
	}{
		Alias:             Alias(c),
		OutstandingCredit: c.OutstandingCredit.Round(2).InexactFloat64(),
	})
}

// HasOutstandingCredit reports whether the customer owes anything
func (c *Customer) HasOutstandingCredit() bool {
	return c.OutstandingCredit.IsPositive()
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
