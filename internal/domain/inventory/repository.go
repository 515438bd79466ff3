package inventory

import (
	"context"

	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// ItemMutation runs against a row-locked item with its movement log loaded.
type ItemMutation func(item *models.InventoryItem) (*models.StockMovement, error)

type ListFilter struct {
	Category string
	LowStock bool
	Search   string
	Page     int
	Limit    int
}

type Repository interface {
	CreateItem(
		ctx context.Context,
		item *models.InventoryItem,
	) error

	GetItem(
		ctx context.Context,
		id uint,
		withMovements bool,
	) (*models.InventoryItem, error)

	ListItems(
		ctx context.Context,
		f ListFilter,
	) ([]models.InventoryItem, int64, error)

	// AppendMovement inserts the movement returned by mutate and saves the
	// item's cached stock in one transaction.
	AppendMovement(
		ctx context.Context,
		itemID uint,
		mutate ItemMutation,
	) (*models.StockMovement, error)
}
