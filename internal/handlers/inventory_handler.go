package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/httpresp"
	"github.com/BruksfildServices01/hospital-manager/internal/middleware"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
)

type itemCreator interface {
	Execute(ctx context.Context, it models.InventoryItem, actorID uint) (*dto.InventoryItemDTO, error)
}

type movementRecorder interface {
	Execute(ctx context.Context, itemID uint, in domain.MovementInput) (*models.StockMovement, error)
}

type itemGetter interface {
	Execute(ctx context.Context, id uint) (*dto.InventoryItemDTO, error)
}

type itemLister interface {
	Execute(ctx context.Context, f domain.ListFilter) ([]dto.InventoryItemDTO, int64, error)
}

type InventoryHandler struct {
	create itemCreator
	record movementRecorder
	get    itemGetter
	list   itemLister
	tz     string
}

func NewInventoryHandler(
	create itemCreator,
	record movementRecorder,
	get itemGetter,
	list itemLister,
	tz string,
) *InventoryHandler {
	return &InventoryHandler{create: create, record: record, get: get, list: list, tz: tz}
}

// --------- Requests ---------

type CreateItemRequest struct {
	Code         string           `json:"code" binding:"required"`
	Name         string           `json:"name" binding:"required"`
	Category     string           `json:"category" binding:"required"`
	Unit         string           `json:"unit" binding:"required"`
	OpeningStock int              `json:"opening_stock"`
	MinimumStock int              `json:"minimum_stock"`
	ReorderPoint int              `json:"reorder_point"`
	MaximumStock int              `json:"maximum_stock"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	BatchNumber  string           `json:"batch_number"`
	ExpiryDate   string           `json:"expiry_date"`
}

type RecordMovementRequest struct {
	Type      string `json:"type" binding:"required"`
	Quantity  int    `json:"quantity"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// --------- Handlers ---------

func (h *InventoryHandler) Create(c *gin.Context) {
	var req CreateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	it := models.InventoryItem{
		Code:         req.Code,
		Name:         req.Name,
		Category:     strings.ToLower(strings.TrimSpace(req.Category)),
		Unit:         strings.ToLower(strings.TrimSpace(req.Unit)),
		OpeningStock: req.OpeningStock,
		MinimumStock: req.MinimumStock,
		ReorderPoint: req.ReorderPoint,
		MaximumStock: req.MaximumStock,
		CostPrice:    decimalOrZero(req.CostPrice),
		SellingPrice: decimalOrZero(req.SellingPrice),
		BatchNumber:  strings.TrimSpace(req.BatchNumber),
	}

	if req.ExpiryDate != "" {
		exp, err := timezone.ParseDate(req.ExpiryDate, h.tz)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Date is invalid.")
			return
		}
		it.ExpiryDate = &exp
	}

	out, err := h.create.Execute(c.Request.Context(), it, middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, out)
}

func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req RecordMovementRequest
	if !bindJSON(c, &req) {
		return
	}

	sm, err := h.record.Execute(c.Request.Context(), id, domain.MovementInput{
		Movement: domain.Movement{
			Type:     domain.MovementType(strings.ToLower(req.Type)),
			Quantity: req.Quantity,
		},
		Reference:   req.Reference,
		Notes:       req.Notes,
		HandledByID: middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, sm)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	it, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, it)
}

func (h *InventoryHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	items, total, err := h.list.Execute(c.Request.Context(), domain.ListFilter{
		Category: c.Query("category"),
		LowStock: c.Query("low_stock") == "true",
		Search:   c.Query("query"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Page(c, items, total, page, limit)
}
