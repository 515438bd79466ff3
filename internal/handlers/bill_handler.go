package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/httpresp"
	"github.com/BruksfildServices01/hospital-manager/internal/middleware"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
	ucBilling "github.com/BruksfildServices01/hospital-manager/internal/usecase/billing"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type billCreator interface {
	Execute(ctx context.Context, in ucBilling.CreateBillInput) (*models.Bill, error)
}

type billGetter interface {
	Execute(ctx context.Context, id uint) (*dto.BillDTO, error)
}

type billLister interface {
	Execute(ctx context.Context, f domain.ListFilter) ([]dto.BillDTO, int64, error)
}

type lineItemAdder interface {
	Execute(ctx context.Context, billID uint, li domain.LineItem, actorID uint) (*models.Bill, error)
}

type billFinalizer interface {
	Execute(ctx context.Context, billID, actorID uint) (*models.Bill, error)
}

type paymentAdder interface {
	Execute(ctx context.Context, in ucBilling.AddPaymentInput) (*models.Bill, *models.Payment, error)
}

type billCanceller interface {
	Execute(ctx context.Context, billID uint, reason string, actorID uint) (*models.Bill, error)
}

type billRefunder interface {
	Execute(ctx context.Context, billID uint, amount decimal.Decimal, reason string, actorID uint) (*models.Bill, error)
}

// BillUseCases groups the billing use cases the handler drives.
type BillUseCases struct {
	Create      billCreator
	Get         billGetter
	List        billLister
	AddLineItem lineItemAdder
	Finalize    billFinalizer
	AddPayment  paymentAdder
	Cancel      billCanceller
	Refund      billRefunder
}

// ======================================================
// HANDLER
// ======================================================

type BillHandler struct {
	uc  BillUseCases
	now func() time.Time
}

// NewBillHandler reads the clock in the hospital timezone so derived
// figures such as overdue days match the use cases.
func NewBillHandler(uc BillUseCases, tz string) *BillHandler {
	return &BillHandler{
		uc:  uc,
		now: func() time.Time { return timezone.NowIn(tz) },
	}
}

// ======================================================
// REQUESTS
// ======================================================

type LineItemRequest struct {
	Description string           `json:"description" binding:"required"`
	Category    string           `json:"category" binding:"required"`
	Quantity    int              `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	DiscountPct *decimal.Decimal `json:"discount_pct"`
	TaxPct      *decimal.Decimal `json:"tax_pct"`
}

func (r LineItemRequest) lineItem() domain.LineItem {
	return domain.LineItem{
		Description: r.Description,
		Category:    domain.Category(r.Category),
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		DiscountPct: decimalOrZero(r.DiscountPct),
		TaxPct:      decimalOrZero(r.TaxPct),
	}
}

type CreateBillRequest struct {
	PatientID     uint              `json:"patient_id" binding:"required"`
	AppointmentID *uint             `json:"appointment_id"`
	Items         []LineItemRequest `json:"items" binding:"dive"`
	DueDate       string            `json:"due_date"`
	Notes         string            `json:"notes"`
	Draft         bool              `json:"draft"`
}

type AddPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
}

type CancelBillRequest struct {
	Reason string `json:"reason"`
}

type RefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// ======================================================
// CREATE / READ
// ======================================================

func (h *BillHandler) Create(c *gin.Context) {
	var req CreateBillRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]domain.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, it.lineItem())
	}

	b, err := h.uc.Create.Execute(c.Request.Context(), ucBilling.CreateBillInput{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Items:         items,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
		Draft:         req.Draft,
		CreatedByID:   middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, ucBilling.View(b, h.now()))
}

func (h *BillHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.uc.Get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	// Patients never see another patient's bill.
	if c.GetString(middleware.ContextUserRole) == models.RolePatient && b.PatientID != middleware.UserID(c) {
		httperr.FromError(c, domain.ErrBillNotFound)
		return
	}

	httpresp.OK(c, b)
}

func (h *BillHandler) List(c *gin.Context) {
	patientID, ok := optionalUintQuery(c, "patient_id")
	if !ok {
		return
	}
	if c.GetString(middleware.ContextUserRole) == models.RolePatient {
		patientID = middleware.UserID(c)
	}

	page, limit := pageParams(c)

	bills, total, err := h.uc.List.Execute(c.Request.Context(), domain.ListFilter{
		Status:    c.Query("status"),
		PatientID: patientID,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Page(c, bills, total, page, limit)
}

// ======================================================
// MUTATIONS
// ======================================================

func (h *BillHandler) AddLineItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req LineItemRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.uc.AddLineItem.Execute(c.Request.Context(), id, req.lineItem(), middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ucBilling.View(b, h.now()))
}

func (h *BillHandler) Finalize(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.uc.Finalize.Execute(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ucBilling.View(b, h.now()))
}

func (h *BillHandler) AddPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AddPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	b, p, err := h.uc.AddPayment.Execute(c.Request.Context(), ucBilling.AddPaymentInput{
		BillID:    id,
		Amount:    req.Amount,
		Method:    domain.Method(req.Method),
		Reference: req.Reference,
		Notes:     req.Notes,
		ActorID:   middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"bill":    ucBilling.View(b, h.now()),
		"payment": p,
	})
}

func (h *BillHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CancelBillRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.uc.Cancel.Execute(c.Request.Context(), id, req.Reason, middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ucBilling.View(b, h.now()))
}

func (h *BillHandler) Refund(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req RefundRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.uc.Refund.Execute(c.Request.Context(), id, req.Amount, req.Reason, middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ucBilling.View(b, h.now()))
}
