package dto

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// BillDTO is a bill with its read-side figures.
type BillDTO struct {
	models.Bill

	PaymentPercentage int             `json:"payment_percentage"`
	OverdueDays       int             `json:"overdue_days"`
	Overpaid          bool            `json:"overpaid"`
	Credit            decimal.Decimal `json:"credit"`
}
