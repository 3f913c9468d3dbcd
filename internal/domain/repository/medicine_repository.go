package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
)

// MedicineSearchResult is the stock-annotated projection returned by catalog
// search: one row per medicine with aggregated stock and price.
type MedicineSearchResult struct {
	MedicineID           uuid.UUID `json:"medicine_id"`
	MedicineName         string    `json:"medicine_name"`
	GenericName          string    `json:"generic_name"`
	Brand                string    `json:"brand"`
	DosageForm           string    `json:"dosage_form"`
	Strength             string    `json:"strength"`
	Category             string    `json:"category"`
	PrescriptionRequired bool      `json:"prescription_required"`
	TotalStock           int       `json:"total_stock"`
	Price                float64   `json:"selling_price_per_unit"`
}

// MedicineRepository defines the interface for catalog and stock data access
type MedicineRepository interface {
	Create(ctx context.Context, medicine *entity.Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Medicine, error)

	// Search returns active, in-stock medicines matching the free-text query
	// against name, generic name, or brand.
	Search(ctx context.Context, query string, limit int) ([]MedicineSearchResult, error)

	// GetStock returns the earliest-expiry in-stock batch for a medicine,
	// or nil when nothing is in stock.
	GetStock(ctx context.Context, medicineID uuid.UUID) (*entity.Inventory, error)

	// AtomicDecrementBatch decrements stock for each medicine, guarded so a
	// row is only updated when it has sufficient quantity. Returns the IDs
	// that failed the guard.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error)

	// AtomicIncrementBatch restores stock, used to compensate a failed
	// invoice creation.
	AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error
}
