package inventory

import (
	"math"
	"strings"
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

var (
	ErrInvalidItem  = httperr.ErrBusiness("invalid_item")
	ErrInactiveItem = httperr.ErrBusiness("item_inactive")
	ErrItemNotFound = httperr.ErrBusiness("item_not_found")
)

// ExpiringSoonDays is how far ahead an expiry date raises an alert.
const ExpiringSoonDays = 30

type Category string

const (
	CategoryMedication  Category = "medication"
	CategoryEquipment   Category = "equipment"
	CategorySupplies    Category = "supplies"
	CategoryConsumables Category = "consumables"
	CategoryInstruments Category = "instruments"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryMedication, CategoryEquipment, CategorySupplies,
		CategoryConsumables, CategoryInstruments:
		return true
	}
	return false
}

var units = map[string]bool{
	"pieces": true, "boxes": true, "bottles": true, "vials": true, "kg": true,
	"grams": true, "liters": true, "ml": true, "units": true,
}

func IsValidUnit(u string) bool {
	return units[u]
}

type Status string

const (
	StatusActive       Status = "active"
	StatusInactive     Status = "inactive"
	StatusDiscontinued Status = "discontinued"
	StatusRecalled     Status = "recalled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDiscontinued, StatusRecalled:
		return true
	}
	return false
}

// ValidateItem checks a new catalogue entry. Medication needs a batch and
// an expiry date; consumables need an expiry date.
func ValidateItem(it models.InventoryItem) error {
	if strings.TrimSpace(it.Code) == "" || strings.TrimSpace(it.Name) == "" {
		return ErrInvalidItem
	}
	cat := Category(it.Category)
	if !cat.IsValid() || !IsValidUnit(it.Unit) {
		return ErrInvalidItem
	}
	if it.Status != "" && !Status(it.Status).IsValid() {
		return ErrInvalidItem
	}
	if it.OpeningStock < 0 || it.MinimumStock < 0 || it.ReorderPoint < 0 || it.MaximumStock < 0 {
		return ErrInvalidItem
	}
	if it.MaximumStock > 0 && it.MaximumStock < it.MinimumStock {
		return ErrInvalidItem
	}
	if it.CostPrice.IsNegative() || it.SellingPrice.IsNegative() {
		return ErrInvalidItem
	}
	if cat == CategoryMedication && strings.TrimSpace(it.BatchNumber) == "" {
		return ErrInvalidItem
	}
	if (cat == CategoryMedication || cat == CategoryConsumables) && it.ExpiryDate == nil {
		return ErrInvalidItem
	}
	return nil
}

type StockLevel string

const (
	StockOut      StockLevel = "out-of-stock"
	StockLow      StockLevel = "low-stock"
	StockReorder  StockLevel = "reorder-required"
	StockAdequate StockLevel = "in-stock"
)

func StockStatus(current, minimum, reorderPoint int) StockLevel {
	switch {
	case current <= 0:
		return StockOut
	case current <= minimum:
		return StockLow
	case current <= reorderPoint:
		return StockReorder
	}
	return StockAdequate
}

func ReorderRequired(it models.InventoryItem) bool {
	return it.CurrentStock <= it.ReorderPoint
}

type ExpiryLevel string

const (
	ExpiryNone         ExpiryLevel = "no-expiry"
	ExpiryExpired      ExpiryLevel = "expired"
	ExpiryExpiringSoon ExpiryLevel = "expiring-soon"
	ExpiryValid        ExpiryLevel = "valid"
)

// DaysUntilExpiry rounds partial days up; ok is false when there is no expiry date.
func DaysUntilExpiry(expiry *time.Time, now time.Time) (days int, ok bool) {
	if expiry == nil {
		return 0, false
	}
	return int(math.Ceil(expiry.Sub(now).Hours() / 24)), true
}

func ExpiryStatus(expiry *time.Time, now time.Time) ExpiryLevel {
	days, ok := DaysUntilExpiry(expiry, now)
	switch {
	case !ok:
		return ExpiryNone
	case days < 0:
		return ExpiryExpired
	case days <= ExpiringSoonDays:
		return ExpiryExpiringSoon
	}
	return ExpiryValid
}
