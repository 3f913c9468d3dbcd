package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
	"github.com/DurveshChavan/Medical-sub001/internal/domain/repository"
	"github.com/DurveshChavan/Medical-sub001/pkg/apperror"
)

const defaultSearchLimit = 20

// CatalogService handles medicine lookup for the point of sale
type CatalogService struct {
	medicineRepo repository.MedicineRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(medicineRepo repository.MedicineRepository) *CatalogService {
	return &CatalogService{medicineRepo: medicineRepo}
}

// SearchMedicines matches the query against name, generic name and brand.
// Only in-stock medicines are returned, capped at 20 results.
func (s *CatalogService) SearchMedicines(ctx context.Context, query string) ([]repository.MedicineSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []repository.MedicineSearchResult{}, nil
	}
	return s.medicineRepo.Search(ctx, query, defaultSearchLimit)
}

// GetMedicine retrieves a medicine by ID
func (s *CatalogService) GetMedicine(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}
	return medicine, nil
}

// GetStock returns the dispensable batch for a medicine. The earliest
// expiry batch with stock on hand is dispensed first.
func (s *CatalogService) GetStock(ctx context.Context, medicineID uuid.UUID) (*entity.Inventory, error) {
	if _, err := s.GetMedicine(ctx, medicineID); err != nil {
		return nil, err
	}
	inv, err := s.medicineRepo.GetStock(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Stock for medicine")
	}
	return inv, nil
}
