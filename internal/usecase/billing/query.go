package billing

import (
	"context"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
)

type GetBill struct {
	repo     domain.Repository
	settings Settings
}

func NewGetBill(repo domain.Repository, settings Settings) *GetBill {
	return &GetBill{repo: repo, settings: settings}
}

func (uc *GetBill) Execute(ctx context.Context, id uint) (*dto.BillDTO, error) {
	b, err := uc.repo.GetBill(ctx, id)
	if err != nil {
		return nil, err
	}
	v := View(b, uc.settings.now())
	return &v, nil
}

type ListBills struct {
	repo     domain.Repository
	settings Settings
}

func NewListBills(repo domain.Repository, settings Settings) *ListBills {
	return &ListBills{repo: repo, settings: settings}
}

func (uc *ListBills) Execute(ctx context.Context, f domain.ListFilter) ([]dto.BillDTO, int64, error) {
	if f.Status != "" && !domain.Status(f.Status).IsValid() {
		return nil, 0, httperr.ErrBusiness("invalid_status")
	}

	bills, total, err := uc.repo.ListBills(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	now := uc.settings.now()
	out := make([]dto.BillDTO, 0, len(bills))
	for i := range bills {
		out = append(out, View(&bills[i], now))
	}
	return out, total, nil
}
