package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// AddLineItem, Finalize, Cancel and Refund share one shape: apply a ledger
// rule to the locked bill and audit the result.

type AddLineItem struct {
	repo     domain.Repository
	audit    audit.Sink
	settings Settings
}

func NewAddLineItem(repo domain.Repository, audit audit.Sink, settings Settings) *AddLineItem {
	return &AddLineItem{repo: repo, audit: audit, settings: settings}
}

func (uc *AddLineItem) Execute(
	ctx context.Context,
	billID uint,
	li domain.LineItem,
	actorID uint,
) (*models.Bill, error) {
	now := uc.settings.now()

	b, err := uc.repo.UpdateBill(ctx, billID, func(b *models.Bill) error {
		if err := domain.AddLineItem(b, li, now); err != nil {
			return err
		}
		b.UpdatedByID = actorID
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.audit, actorID, "bill_item_added", b, map[string]string{
		"description":  li.Description,
		"total_amount": b.TotalAmount.StringFixed(2),
	})
	return b, nil
}

type Finalize struct {
	repo     domain.Repository
	audit    audit.Sink
	settings Settings
}

func NewFinalize(repo domain.Repository, audit audit.Sink, settings Settings) *Finalize {
	return &Finalize{repo: repo, audit: audit, settings: settings}
}

func (uc *Finalize) Execute(ctx context.Context, billID, actorID uint) (*models.Bill, error) {
	now := uc.settings.now()

	b, err := uc.repo.UpdateBill(ctx, billID, func(b *models.Bill) error {
		if err := domain.Finalize(b, now); err != nil {
			return err
		}
		b.UpdatedByID = actorID
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.audit, actorID, "bill_finalized", b, nil)
	return b, nil
}

type Cancel struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewCancel(repo domain.Repository, audit audit.Sink) *Cancel {
	return &Cancel{repo: repo, audit: audit}
}

func (uc *Cancel) Execute(ctx context.Context, billID uint, reason string, actorID uint) (*models.Bill, error) {
	b, err := uc.repo.UpdateBill(ctx, billID, func(b *models.Bill) error {
		if err := domain.Cancel(b, reason); err != nil {
			return err
		}
		b.UpdatedByID = actorID
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.audit, actorID, "bill_cancelled", b, map[string]string{"reason": b.CancellationReason})
	return b, nil
}

type Refund struct {
	repo     domain.Repository
	audit    audit.Sink
	settings Settings
}

func NewRefund(repo domain.Repository, audit audit.Sink, settings Settings) *Refund {
	return &Refund{repo: repo, audit: audit, settings: settings}
}

func (uc *Refund) Execute(
	ctx context.Context,
	billID uint,
	amount decimal.Decimal,
	reason string,
	actorID uint,
) (*models.Bill, error) {
	now := uc.settings.now()

	b, err := uc.repo.UpdateBill(ctx, billID, func(b *models.Bill) error {
		if err := domain.Refund(b, amount, reason, now); err != nil {
			return err
		}
		b.UpdatedByID = actorID
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.audit, actorID, "bill_refunded", b, map[string]string{
		"amount": b.RefundAmount.StringFixed(2),
		"reason": b.RefundReason,
	})
	return b, nil
}

func dispatch(sink audit.Sink, actorID uint, action string, b *models.Bill, meta any) {
	sink.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   action,
		Entity:   "bill",
		EntityID: &b.ID,
		Metadata: meta,
	})
}
