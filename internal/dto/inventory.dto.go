package dto

import "github.com/BruksfildServices01/hospital-manager/internal/models"

// InventoryItemDTO is an item with its derived stock and expiry flags.
type InventoryItemDTO struct {
	models.InventoryItem

	StockStatus     string `json:"stock_status"`
	ExpiryStatus    string `json:"expiry_status"`
	DaysUntilExpiry *int   `json:"days_until_expiry"`
	ReorderRequired bool   `json:"reorder_required"`
}
