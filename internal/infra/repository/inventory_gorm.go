package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) CreateItem(
	ctx context.Context,
	item *models.InventoryItem,
) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness("duplicate_code")
	}
	return err
}

func (r *InventoryGormRepository) GetItem(
	ctx context.Context,
	id uint,
	withMovements bool,
) (*models.InventoryItem, error) {

	q := r.db.WithContext(ctx)
	if withMovements {
		q = withMovementLog(q)
	}

	var it models.InventoryItem
	err := q.First(&it, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *InventoryGormRepository) ListItems(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.InventoryItem, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.InventoryItem{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.LowStock {
		q = q.Where("current_stock <= minimum_stock")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.InventoryItem
	err := q.
		Order("name ASC").
		Scopes(paginate(f.Page, f.Limit)).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *InventoryGormRepository) AppendMovement(
	ctx context.Context,
	itemID uint,
	mutate domain.ItemMutation,
) (*models.StockMovement, error) {

	var out *models.StockMovement

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.InventoryItem
		err := withMovementLog(tx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, itemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		if err != nil {
			return err
		}

		sm, err := mutate(&it)
		if err != nil {
			return err
		}

		if err := tx.Create(sm).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.InventoryItem{}).
			Where("id = ?", it.ID).
			Updates(map[string]any{
				"current_stock":  it.CurrentStock,
				"last_restocked": it.LastRestocked,
			}).Error; err != nil {
			return err
		}

		out = sm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func withMovementLog(db *gorm.DB) *gorm.DB {
	return db.Preload("Movements", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

// Compile-time check
var _ domain.Repository = (*InventoryGormRepository)(nil)
