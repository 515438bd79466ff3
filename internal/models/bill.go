package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bill struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BillNumber string `gorm:"size:30;uniqueIndex;not null" json:"bill_number"`

	PatientID uint `gorm:"index" json:"patient_id"`
	Patient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient"`

	AppointmentID *uint        `json:"appointment_id"`
	Appointment   *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"appointment,omitempty"`

	BillDate time.Time `json:"bill_date"`
	DueDate  time.Time `gorm:"index" json:"due_date"`

	Items    []BillItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`
	Payments []Payment  `gorm:"constraint:OnDelete:CASCADE;" json:"payments"`

	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"subtotal"`
	TotalDiscount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_discount"`
	TotalTax      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_tax"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_amount"`
	PaidAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"paid_amount"`
	BalanceAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance_amount"`

	Status string `gorm:"size:20;index;default:'pending'" json:"status"`
	Notes  string `gorm:"type:text" json:"notes"`

	CancellationReason string          `gorm:"type:text" json:"cancellation_reason,omitempty"`
	RefundAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"refund_amount"`
	RefundReason       string          `gorm:"type:text" json:"refund_reason,omitempty"`
	RefundedAt         *time.Time      `json:"refunded_at,omitempty"`

	CreatedByID uint `json:"created_by_id"`
	UpdatedByID uint `json:"updated_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BillItem struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BillID   uint `gorm:"index" json:"bill_id"`
	Position int  `json:"position"`

	Description string          `gorm:"size:255;not null" json:"description"`
	Category    string          `gorm:"size:20;not null" json:"category"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	DiscountPct decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_pct"`
	TaxPct      decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"tax_pct"`

	LineSubtotal   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"line_subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"tax_amount"`
	LineTotal      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"line_total"`

	CreatedAt time.Time `json:"created_at"`
}

type Payment struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	BillID uint `gorm:"index" json:"bill_id"`

	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method    string          `gorm:"size:20;not null" json:"method"`
	Reference string          `gorm:"size:64;index" json:"reference"`
	Notes     string          `gorm:"size:255" json:"notes"`

	ReceivedByID uint      `json:"received_by_id"`
	PaidAt       time.Time `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
}
