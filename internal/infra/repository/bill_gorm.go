package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type BillGormRepository struct {
	db *gorm.DB
}

func NewBillGormRepository(db *gorm.DB) *BillGormRepository {
	return &BillGormRepository{db: db}
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *BillGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return getUser(ctx, r.db, id)
}

func (r *BillGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		First(&ap, id).Error
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Bill
// --------------------------------------------------

func (r *BillGormRepository) CreateBill(ctx context.Context, b *models.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prefix := domain.BillNumberPrefixFor(b.BillDate)

		// One writer per prefix, so the count below stays the sequence.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Bill{}).
			Where("bill_number LIKE ?", prefix+"%").
			Count(&count).Error; err != nil {
			return err
		}
		b.BillNumber = domain.NewBillNumber(b.BillDate, int(count)+1)

		items := b.Items
		b.Items = nil
		if err := tx.Omit(clause.Associations).Create(b).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].BillID = b.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		b.Items = items
		return nil
	})
}

func (r *BillGormRepository) GetBill(ctx context.Context, id uint) (*models.Bill, error) {
	var b models.Bill
	err := withBillChildren(r.db.WithContext(ctx)).
		Preload("Patient").
		First(&b, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBillNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BillGormRepository) ListBills(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Bill, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Bill{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PatientID != 0 {
		q = q.Where("patient_id = ?", f.PatientID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bills []models.Bill
	err := q.
		Preload("Patient").
		Order("bill_date DESC, id DESC").
		Scopes(paginate(f.Page, f.Limit)).
		Find(&bills).Error
	if err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

// UpdateBill locks the bill row, runs mutate and persists the header plus
// any items or payments mutate appended.
func (r *BillGormRepository) UpdateBill(
	ctx context.Context,
	id uint,
	mutate domain.BillMutation,
) (*models.Bill, error) {

	var out models.Bill

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Bill
		err := withBillChildren(tx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBillNotFound
		}
		if err != nil {
			return err
		}

		if err := mutate(&b); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&b).Error; err != nil {
			return err
		}

		for i := range b.Items {
			b.Items[i].BillID = b.ID
			if err := tx.Save(&b.Items[i]).Error; err != nil {
				return fmt.Errorf("save bill item: %w", err)
			}
		}
		for i := range b.Payments {
			if b.Payments[i].ID != 0 {
				continue
			}
			b.Payments[i].BillID = b.ID
			if err := tx.Create(&b.Payments[i]).Error; err != nil {
				return fmt.Errorf("save payment: %w", err)
			}
		}

		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BillGormRepository) ListOverdueCandidates(
	ctx context.Context,
	now time.Time,
) ([]models.Bill, error) {

	var bills []models.Bill
	err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date < ?", domain.OpenStatusStrings(), now).
		Order("due_date ASC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func withBillChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at ASC")
		})
}

// Compile-time check
var _ domain.Repository = (*BillGormRepository)(nil)
