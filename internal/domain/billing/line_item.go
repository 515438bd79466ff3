package billing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

var ErrInvalidLineItem = httperr.ErrBusiness("invalid_line_item")

var (
	hundred = decimal.NewFromInt(100)
	// Largest value a numeric(5,2) percentage column holds.
	maxTaxPct = decimal.RequireFromString("999.99")
)

type LineItem struct {
	Description string
	Category    Category
	Quantity    int
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
	TaxPct      decimal.Decimal
}

func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Description) == "" {
		return ErrInvalidLineItem
	}
	if !li.Category.IsValid() {
		return ErrInvalidLineItem
	}
	if li.Quantity < 1 {
		return ErrInvalidLineItem
	}
	if li.UnitPrice.IsNegative() {
		return ErrInvalidLineItem
	}
	if li.DiscountPct.IsNegative() || li.DiscountPct.GreaterThan(hundred) {
		return ErrInvalidLineItem
	}
	if li.TaxPct.IsNegative() || li.TaxPct.Round(2).GreaterThan(maxTaxPct) {
		return ErrInvalidLineItem
	}
	return nil
}

// Model converts a validated line item into its stored form; derived
// amounts are left for Recompute. Money and percentages are rounded to the
// scale of their columns so a reloaded bill recomputes to the same totals.
func (li LineItem) Model() models.BillItem {
	return models.BillItem{
		Description: strings.TrimSpace(li.Description),
		Category:    string(li.Category),
		Quantity:    li.Quantity,
		UnitPrice:   li.UnitPrice.Round(2),
		DiscountPct: li.DiscountPct.Round(2),
		TaxPct:      li.TaxPct.Round(2),
	}
}

// LineAmounts holds the derived figures of one line.
type LineAmounts struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeLine applies discount then tax on the discounted amount. Discount and
// tax are rounded to cents per line so the line totals always add up to the
// bill total exactly.
func ComputeLine(quantity int, unitPrice, discountPct, taxPct decimal.Decimal) LineAmounts {
	subtotal := decimal.NewFromInt(int64(quantity)).Mul(unitPrice).Round(2)
	discount := subtotal.Mul(discountPct).Div(hundred).Round(2)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxPct).Div(hundred).Round(2)

	return LineAmounts{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    taxable.Add(tax),
	}
}
