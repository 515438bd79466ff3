package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
)

type Settings struct {
	Timezone string
	Now      func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().In(timezone.Location(s.Timezone))
	}
	return timezone.NowIn(s.Timezone)
}

// View attaches stock and expiry flags to it.
func View(it models.InventoryItem, now time.Time) dto.InventoryItemDTO {
	v := dto.InventoryItemDTO{
		InventoryItem:   it,
		StockStatus:     string(domain.StockStatus(it.CurrentStock, it.MinimumStock, it.ReorderPoint)),
		ExpiryStatus:    string(domain.ExpiryStatus(it.ExpiryDate, now)),
		ReorderRequired: domain.ReorderRequired(it),
	}
	if days, ok := domain.DaysUntilExpiry(it.ExpiryDate, now); ok {
		v.DaysUntilExpiry = &days
	}
	return v
}

// ======================================================
// CREATE
// ======================================================

type CreateItem struct {
	repo     domain.Repository
	audit    audit.Sink
	settings Settings
}

func NewCreateItem(repo domain.Repository, audit audit.Sink, settings Settings) *CreateItem {
	return &CreateItem{repo: repo, audit: audit, settings: settings}
}

func (uc *CreateItem) Execute(
	ctx context.Context,
	it models.InventoryItem,
	actorID uint,
) (*dto.InventoryItemDTO, error) {

	it.Code = strings.ToUpper(strings.TrimSpace(it.Code))
	it.Name = strings.TrimSpace(it.Name)
	if it.Status == "" {
		it.Status = string(domain.StatusActive)
	}

	if err := domain.ValidateItem(it); err != nil {
		return nil, err
	}

	it.ID = 0
	it.Movements = nil
	it.CurrentStock = it.OpeningStock

	if err := uc.repo.CreateItem(ctx, &it); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "inventory_item_created",
		Entity:   "inventory_item",
		EntityID: &it.ID,
		Metadata: map[string]any{"code": it.Code, "opening_stock": it.OpeningStock},
	})

	v := View(it, uc.settings.now())
	return &v, nil
}

// ======================================================
// MOVEMENTS
// ======================================================

type RecordMovement struct {
	repo     domain.Repository
	audit    audit.Sink
	settings Settings
}

func NewRecordMovement(repo domain.Repository, audit audit.Sink, settings Settings) *RecordMovement {
	return &RecordMovement{repo: repo, audit: audit, settings: settings}
}

func (uc *RecordMovement) Execute(
	ctx context.Context,
	itemID uint,
	in domain.MovementInput,
) (*models.StockMovement, error) {

	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := uc.settings.now()

	sm, err := uc.repo.AppendMovement(ctx, itemID, func(item *models.InventoryItem) (*models.StockMovement, error) {
		rec, err := domain.Record(item, in, now)
		if err != nil {
			return nil, err
		}
		return &rec, nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.HandledByID,
		Action:   "stock_" + sm.Type,
		Entity:   "inventory_item",
		EntityID: &sm.ItemID,
		Metadata: map[string]int{
			"quantity":       sm.Quantity,
			"previous_stock": sm.PreviousStock,
			"new_stock":      sm.NewStock,
		},
	})

	return sm, nil
}

// ======================================================
// QUERIES
// ======================================================

type GetItem struct {
	repo     domain.Repository
	settings Settings
}

func NewGetItem(repo domain.Repository, settings Settings) *GetItem {
	return &GetItem{repo: repo, settings: settings}
}

func (uc *GetItem) Execute(ctx context.Context, id uint) (*dto.InventoryItemDTO, error) {
	it, err := uc.repo.GetItem(ctx, id, true)
	if err != nil {
		return nil, err
	}
	v := View(*it, uc.settings.now())
	return &v, nil
}

type ListItems struct {
	repo     domain.Repository
	settings Settings
}

func NewListItems(repo domain.Repository, settings Settings) *ListItems {
	return &ListItems{repo: repo, settings: settings}
}

func (uc *ListItems) Execute(ctx context.Context, f domain.ListFilter) ([]dto.InventoryItemDTO, int64, error) {
	items, total, err := uc.repo.ListItems(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	now := uc.settings.now()
	out := make([]dto.InventoryItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, View(it, now))
	}
	return out, total, nil
}
