package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type AddPaymentInput struct {
	BillID    uint
	Amount    decimal.Decimal
	Method    domain.Method
	Reference string
	Notes     string
	ActorID   uint
}

// Receipt is the archived record of one payment.
type Receipt struct {
	BillNumber    string          `json:"bill_number"`
	PatientID     uint            `json:"patient_id"`
	Reference     string          `json:"reference"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAt        time.Time       `json:"paid_at"`
	ReceivedByID  uint            `json:"received_by_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceAmount decimal.Decimal `json:"balance_amount"`
	Status        string          `json:"status"`
}

type AddPayment struct {
	repo     domain.Repository
	receipts domain.ReceiptStore
	audit    audit.Sink
	settings Settings
	log      zerolog.Logger
}

func NewAddPayment(
	repo domain.Repository,
	receipts domain.ReceiptStore,
	audit audit.Sink,
	settings Settings,
	log zerolog.Logger,
) *AddPayment {
	return &AddPayment{
		repo:     repo,
		receipts: receipts,
		audit:    audit,
		settings: settings,
		log:      log,
	}
}

func (uc *AddPayment) Execute(
	ctx context.Context,
	in AddPaymentInput,
) (*models.Bill, *models.Payment, error) {

	now := uc.settings.now()

	reference := in.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	b, err := uc.repo.UpdateBill(ctx, in.BillID, func(b *models.Bill) error {
		if err := domain.AddPayment(b, domain.PaymentInput{
			Amount:       in.Amount,
			Method:       in.Method,
			Reference:    reference,
			Notes:        in.Notes,
			ReceivedByID: in.ActorID,
		}, now); err != nil {
			return err
		}
		b.UpdatedByID = in.ActorID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	p := &b.Payments[len(b.Payments)-1]

	// The payment is committed; a failed archive is logged, not returned.
	if err := uc.archive(ctx, b, p); err != nil {
		uc.log.Warn().Err(err).
			Str("bill_number", b.BillNumber).
			Str("reference", p.Reference).
			Msg("receipt archive failed")
	}

	action := "payment_added"
	if domain.Status(b.Status) == domain.StatusPaid {
		action = "bill_paid"
	}
	dispatch(uc.audit, in.ActorID, action, b, map[string]any{
		"amount":    p.Amount.StringFixed(2),
		"method":    p.Method,
		"reference": p.Reference,
		"overpaid":  domain.Overpaid(*b),
	})

	return b, p, nil
}

// ReceiptKey is the object key of a payment's archived receipt.
func ReceiptKey(billNumber, reference string) string {
	return fmt.Sprintf("receipts/%s/%s.json", billNumber, reference)
}

func (uc *AddPayment) archive(ctx context.Context, b *models.Bill, p *models.Payment) error {
	body, err := json.Marshal(Receipt{
		BillNumber:    b.BillNumber,
		PatientID:     b.PatientID,
		Reference:     p.Reference,
		Method:        p.Method,
		Amount:        p.Amount,
		PaidAt:        p.PaidAt,
		ReceivedByID:  p.ReceivedByID,
		TotalAmount:   b.TotalAmount,
		PaidAmount:    b.PaidAmount,
		BalanceAmount: b.BalanceAmount,
		Status:        b.Status,
	})
	if err != nil {
		return err
	}

	return uc.receipts.Put(ctx, ReceiptKey(b.BillNumber, p.Reference), bytes.NewReader(body), "application/json")
}
