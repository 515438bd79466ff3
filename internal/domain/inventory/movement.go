package inventory

import (
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

var ErrInvalidMovement = httperr.ErrBusiness("invalid_movement")

type MovementType string

const (
	MovementPurchase   MovementType = "purchase"
	MovementUsage      MovementType = "usage"
	MovementTransfer   MovementType = "transfer"
	MovementAdjustment MovementType = "adjustment"
	MovementReturn     MovementType = "return"
)

func (t MovementType) IsValid() bool {
	switch t {
	case MovementPurchase, MovementUsage, MovementTransfer,
		MovementAdjustment, MovementReturn:
		return true
	}
	return false
}

type Movement struct {
	Type     MovementType
	Quantity int
}

// Validate allows a zero adjustment (stock count came back empty); every
// other movement must move at least one unit.
func (m Movement) Validate() error {
	if !m.Type.IsValid() {
		return ErrInvalidMovement
	}
	if m.Quantity < 0 {
		return ErrInvalidMovement
	}
	if m.Quantity == 0 && m.Type != MovementAdjustment {
		return ErrInvalidMovement
	}
	return nil
}

// Apply returns the stock level after m. Outgoing movements floor at zero;
// adjustments overwrite the level with a counted value.
func Apply(current int, m Movement) int {
	switch m.Type {
	case MovementPurchase, MovementReturn:
		return current + m.Quantity
	case MovementUsage, MovementTransfer:
		return max(0, current-m.Quantity)
	case MovementAdjustment:
		return m.Quantity
	}
	return current
}

// FoldStock replays the movement log on top of the opening balance.
func FoldStock(opening int, log []models.StockMovement) int {
	stock := opening
	for _, sm := range log {
		stock = Apply(stock, Movement{Type: MovementType(sm.Type), Quantity: sm.Quantity})
	}
	return stock
}

type MovementInput struct {
	Movement
	Reference   string
	Notes       string
	HandledByID uint
}

// Record appends a movement to item's log, derives the new level from the
// whole log and returns the appended record.
func Record(item *models.InventoryItem, in MovementInput, now time.Time) (models.StockMovement, error) {
	if err := in.Validate(); err != nil {
		return models.StockMovement{}, err
	}
	if Status(item.Status) != StatusActive && in.Type != MovementAdjustment && in.Type != MovementReturn {
		return models.StockMovement{}, ErrInactiveItem
	}

	previous := FoldStock(item.OpeningStock, item.Movements)
	next := Apply(previous, in.Movement)

	sm := models.StockMovement{
		ItemID:        item.ID,
		Type:          string(in.Type),
		Quantity:      in.Quantity,
		PreviousStock: previous,
		NewStock:      next,
		Reference:     in.Reference,
		Notes:         in.Notes,
		HandledByID:   in.HandledByID,
		CreatedAt:     now,
	}

	item.Movements = append(item.Movements, sm)
	item.CurrentStock = next
	if in.Type == MovementPurchase {
		item.LastRestocked = &now
	}
	return sm, nil
}
