package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Code     string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name     string `gorm:"size:150;not null" json:"name"`
	Category string `gorm:"size:20;index;not null" json:"category"`
	Unit     string `gorm:"size:20;not null" json:"unit"`

	// CurrentStock is the fold of OpeningStock over Movements, cached for queries.
	OpeningStock int `gorm:"not null;default:0" json:"opening_stock"`
	CurrentStock int `gorm:"not null;default:0" json:"current_stock"`
	MinimumStock int `gorm:"not null;default:0" json:"minimum_stock"`
	ReorderPoint int `gorm:"not null;default:0" json:"reorder_point"`
	MaximumStock int `gorm:"not null;default:0" json:"maximum_stock"`

	CostPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cost_price"`
	SellingPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"selling_price"`

	BatchNumber   string     `gorm:"size:50" json:"batch_number,omitempty"`
	ExpiryDate    *time.Time `gorm:"type:date;index" json:"expiry_date,omitempty"`
	LastRestocked *time.Time `json:"last_restocked,omitempty"`
	Status        string     `gorm:"size:20;default:'active'" json:"status"`

	Movements []StockMovement `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE;" json:"movements,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StockMovement struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ItemID uint `gorm:"index" json:"item_id"`

	Type          string `gorm:"size:20;not null" json:"type"`
	Quantity      int    `gorm:"not null" json:"quantity"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	Reference     string `gorm:"size:64" json:"reference"`
	Notes         string `gorm:"size:255" json:"notes"`
	HandledByID   uint   `json:"handled_by_id"`

	CreatedAt time.Time `json:"created_at"`
}
