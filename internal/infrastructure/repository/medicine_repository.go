package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DurveshChavan/Medical-sub001/internal/domain/entity"
	domainRepo "github.com/DurveshChavan/Medical-sub001/internal/domain/repository"
)

type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *gorm.DB) domainRepo.MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	return r.db.WithContext(ctx).Create(medicine).Error
}

func (r *medicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := r.db.WithContext(ctx).First(&medicine, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &medicine, err
}

func (r *medicineRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&medicines).Error
	return medicines, err
}

// Search aggregates stock across batches so each medicine appears once,
// annotated with total stock and average unit price. Only active medicines
// with stock on hand are returned.
func (r *medicineRepository) Search(ctx context.Context, query string, limit int) ([]domainRepo.MedicineSearchResult, error) {
	var results []domainRepo.MedicineSearchResult

	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Table("medicines m").
		Select(`m.id AS medicine_id, m.name AS medicine_name, m.generic_name, m.brand,
			m.dosage_form, m.strength, m.category, m.prescription_required,
			COALESCE(SUM(i.quantity_in_stock), 0) AS total_stock,
			COALESCE(AVG(i.selling_price), 0) AS price`).
		Joins("LEFT JOIN inventory i ON i.medicine_id = m.id").
		Where("(m.name ILIKE ? OR m.generic_name ILIKE ? OR m.brand ILIKE ?) AND m.is_active = true AND m.deleted_at IS NULL", like, like, like).
		Group("m.id, m.name, m.generic_name, m.brand, m.dosage_form, m.strength, m.category, m.prescription_required").
		Having("COALESCE(SUM(i.quantity_in_stock), 0) > 0").
		Order("m.name ASC").
		Limit(limit).
		Scan(&results).Error

	return results, err
}

// GetStock returns the earliest-expiry batch that still has stock, matching
// the first-expiry-first-out dispensing rule.
func (r *medicineRepository) GetStock(ctx context.Context, medicineID uuid.UUID) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.db.WithContext(ctx).
		Preload("Medicine").
		Where("medicine_id = ? AND quantity_in_stock > 0", medicineID).
		Order("expiry_date ASC").
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

// batchDraw is one guarded decrement against a specific inventory row
type batchDraw struct {
	batchID uuid.UUID
	take    int
}

// planBatchDraws spreads a sale quantity across inventory batches in the
// order given, earliest expiry first. Returns false when the batches cannot
// cover the quantity.
func planBatchDraws(batches []entity.Inventory, quantity int) ([]batchDraw, bool) {
	draws := make([]batchDraw, 0, 1)
	remaining := quantity
	for _, batch := range batches {
		if remaining == 0 {
			break
		}
		if batch.QuantityInStock <= 0 {
			continue
		}
		take := remaining
		if batch.QuantityInStock < take {
			take = batch.QuantityInStock
		}
		draws = append(draws, batchDraw{batchID: batch.ID, take: take})
		remaining -= take
	}
	return draws, remaining == 0
}

// AtomicDecrementBatch decrements stock for multiple medicines in a single
// transaction, drawing each quantity from the earliest-expiry batches first.
// Every update targets one batch row by primary key so multi-batch medicines
// lose exactly the sold quantity. If any medicine has insufficient stock, the
// entire transaction is rolled back and the failing IDs are returned.
func (r *medicineRepository) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(decrements) == 0 {
		return nil, nil
	}

	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, amount := range decrements {
			var batches []entity.Inventory
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("medicine_id = ? AND quantity_in_stock > 0", id).
				Order("expiry_date ASC").
				Find(&batches).Error; err != nil {
				return err
			}

			draws, ok := planBatchDraws(batches, amount)
			if !ok {
				failedIDs = append(failedIDs, id)
				continue
			}

			for _, draw := range draws {
				result := tx.Model(&entity.Inventory{}).
					Where("id = ? AND quantity_in_stock >= ?", draw.batchID, draw.take).
					Update("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", draw.take))
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					// Rows are locked above, so a miss means the batch vanished.
					failedIDs = append(failedIDs, id)
					break
				}
			}
		}

		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}

		return nil
	})

	if len(failedIDs) > 0 {
		return failedIDs, nil
	}

	return nil, err
}

// AtomicIncrementBatch restores stock for multiple medicines (compensation
// for a failed invoice, or returns). Each quantity goes back onto a single
// batch row, the earliest-expiry one, so restocked units dispense first.
func (r *medicineRepository) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	if len(increments) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, amount := range increments {
			var batch entity.Inventory
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("medicine_id = ?", id).
				Order("expiry_date ASC").
				First(&batch).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Nothing stocked to restore onto; the medicine row is gone.
				continue
			}
			if err != nil {
				return err
			}

			if err := tx.Model(&entity.Inventory{}).
				Where("id = ?", batch.ID).
				Update("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", amount)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
