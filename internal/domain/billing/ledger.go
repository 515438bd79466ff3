package billing

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

var (
	ErrInvalidPayment   = httperr.ErrBusiness("invalid_payment")
	ErrNotFinalized     = httperr.ErrBusiness("bill_not_finalized")
	ErrBillLocked       = httperr.ErrBusiness("bill_locked")
	ErrReasonRequired   = httperr.ErrBusiness("reason_required")
	ErrInvalidRefund    = httperr.ErrBusiness("invalid_refund")
	ErrInvalidBillState = httperr.ErrBusiness("invalid_state")
	ErrBillNotFound     = httperr.ErrBusiness("bill_not_found")
)

// Recompute derives every line amount, the bill aggregates and the status
// from the items, payments and due date. It is safe to call repeatedly.
func Recompute(b *models.Bill, now time.Time) {
	subtotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero

	for i := range b.Items {
		it := &b.Items[i]
		amounts := ComputeLine(it.Quantity, it.UnitPrice, it.DiscountPct, it.TaxPct)

		it.LineSubtotal = amounts.Subtotal
		it.DiscountAmount = amounts.Discount
		it.TaxAmount = amounts.Tax
		it.LineTotal = amounts.Total

		subtotal = subtotal.Add(amounts.Subtotal)
		discount = discount.Add(amounts.Discount)
		tax = tax.Add(amounts.Tax)
	}

	paid := decimal.Zero
	for _, p := range b.Payments {
		paid = paid.Add(p.Amount)
	}

	b.Subtotal = subtotal
	b.TotalDiscount = discount
	b.TotalTax = tax
	b.TotalAmount = subtotal.Sub(discount).Add(tax)
	b.PaidAmount = paid
	b.BalanceAmount = b.TotalAmount.Sub(paid)

	current := Status(b.Status)
	if current.IsFrozen() {
		return
	}

	var next Status
	switch {
	case !paid.IsPositive():
		if current == StatusDraft {
			next = StatusDraft
		} else {
			next = StatusPending
		}
	case paid.GreaterThanOrEqual(b.TotalAmount):
		next = StatusPaid
		b.BalanceAmount = decimal.Zero
	default:
		next = StatusPartiallyPaid
	}

	if next != StatusPaid && !b.DueDate.IsZero() && b.DueDate.Before(now) {
		next = StatusOverdue
	}

	b.Status = string(next)
}

type PaymentInput struct {
	Amount       decimal.Decimal
	Method       Method
	Reference    string
	Notes        string
	ReceivedByID uint
}

// AddPayment appends a payment and recomputes. Draft bills must be finalized first.
func AddPayment(b *models.Bill, in PaymentInput, now time.Time) error {
	amount := in.Amount.Round(2)
	if !amount.IsPositive() || !in.Method.IsValid() {
		return ErrInvalidPayment
	}

	switch s := Status(b.Status); {
	case s.IsFrozen():
		return ErrInvalidBillState
	case s == StatusDraft:
		return ErrNotFinalized
	}

	b.Payments = append(b.Payments, models.Payment{
		Amount:       amount,
		Method:       string(in.Method),
		Reference:    strings.TrimSpace(in.Reference),
		Notes:        in.Notes,
		ReceivedByID: in.ReceivedByID,
		PaidAt:       now,
	})

	Recompute(b, now)
	return nil
}

// AddLineItem is allowed on draft and pending bills that have taken no money.
func AddLineItem(b *models.Bill, li LineItem, now time.Time) error {
	if err := li.Validate(); err != nil {
		return err
	}

	s := Status(b.Status)
	if (s != StatusDraft && s != StatusPending) || len(b.Payments) > 0 {
		return ErrBillLocked
	}

	item := li.Model()
	item.Position = len(b.Items) + 1
	b.Items = append(b.Items, item)

	Recompute(b, now)
	return nil
}

// Finalize moves a draft into the payable lifecycle.
func Finalize(b *models.Bill, now time.Time) error {
	if Status(b.Status) != StatusDraft {
		return ErrInvalidBillState
	}
	if len(b.Items) == 0 {
		return ErrInvalidLineItem
	}
	b.Status = string(StatusPending)
	Recompute(b, now)
	return nil
}

func Cancel(b *models.Bill, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}

	s := Status(b.Status)
	if s.IsFrozen() || s == StatusPaid {
		return ErrInvalidBillState
	}

	b.Status = string(StatusCancelled)
	b.CancellationReason = reason
	return nil
}

// Refund returns up to the amount collected and freezes the bill.
func Refund(b *models.Bill, amount decimal.Decimal, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}

	s := Status(b.Status)
	if s != StatusPaid && s != StatusPartiallyPaid {
		return ErrInvalidBillState
	}

	amount = amount.Round(2)
	if !amount.IsPositive() || amount.GreaterThan(b.PaidAmount) {
		return ErrInvalidRefund
	}

	b.Status = string(StatusRefunded)
	b.RefundAmount = amount
	b.RefundReason = reason
	b.RefundedAt = &now
	return nil
}

// PaymentPercentage is paid over total as a whole percent.
func PaymentPercentage(b models.Bill) int {
	if !b.TotalAmount.IsPositive() {
		return 0
	}
	pct := b.PaidAmount.Mul(hundred).Div(b.TotalAmount).Round(0)
	return int(pct.IntPart())
}

// OverdueDays counts started days past the due date for unpaid bills.
func OverdueDays(b models.Bill, now time.Time) int {
	if Status(b.Status) == StatusPaid || b.DueDate.IsZero() || !b.DueDate.Before(now) {
		return 0
	}
	return int(math.Ceil(now.Sub(b.DueDate).Hours() / 24))
}

// Overpaid flags bills where collected money exceeds the total. The balance
// is still reported as zero.
func Overpaid(b models.Bill) bool {
	return b.PaidAmount.GreaterThan(b.TotalAmount)
}

// Credit is the amount collected beyond the total, zero when not overpaid.
func Credit(b models.Bill) decimal.Decimal {
	if !Overpaid(b) {
		return decimal.Zero
	}
	return b.PaidAmount.Sub(b.TotalAmount)
}
