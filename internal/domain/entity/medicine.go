package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Medicine represents a catalog entry
type Medicine struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primary_key" json:"medicine_id"`
	Name                 string         `gorm:"size:255;not null;index" json:"medicine_name"`
	GenericName          string         `gorm:"size:255" json:"generic_name"`
	Brand                string         `gorm:"size:255" json:"brand"`
	DosageForm           string         `gorm:"size:100" json:"dosage_form"`
	Strength             string         `gorm:"size:100" json:"strength"`
	Category             string         `gorm:"size:100" json:"category"`
	PrescriptionRequired bool           `gorm:"default:false" json:"prescription_required"`
	IsActive             bool           `gorm:"default:true" json:"-"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Inventory []Inventory `gorm:"foreignKey:MedicineID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new medicine
func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Medicine model
func (Medicine) TableName() string {
	return "medicines"
}

// Inventory represents a stocked batch of a medicine
type Inventory struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"inventory_id"`
	MedicineID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"medicine_id"`
	QuantityInStock int             `gorm:"not null;default:0" json:"quantity_in_stock"`
	SellingPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"-"`
	BatchNumber     string          `gorm:"size:100" json:"batch_number"`
	ExpiryDate      *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Medicine Medicine `gorm:"foreignKey:MedicineID" json:"-"`
}

// MarshalJSON rounds the unit price at the presentation edge
func (i Inventory) MarshalJSON() ([]byte, error) {
	type Alias Inventory
	return json.Marshal(&struct {
		Alias
		SellingPrice float64 `json:"selling_price_per_unit"`
	}{
		Alias:        Alias(i),
		SellingPrice: i.SellingPrice.Round(2).InexactFloat64(),
	})
}

// BeforeCreate generates a UUID before creating a new inventory row
func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Inventory model
func (Inventory) TableName() string {
	return "inventory"
}
