package billing

import (
	"context"
	"io"
	"time"

	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// BillMutation runs against a row-locked bill inside the write transaction.
// Returning an error rolls back.
type BillMutation func(b *models.Bill) error

type ListFilter struct {
	Status    string
	PatientID uint
	Page      int
	Limit     int
}

type Repository interface {
	// -------- Lookups --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	// -------- Bill --------
	// CreateBill assigns the next bill number for the day inside the insert transaction.
	CreateBill(
		ctx context.Context,
		b *models.Bill,
	) error

	GetBill(
		ctx context.Context,
		id uint,
	) (*models.Bill, error)

	ListBills(
		ctx context.Context,
		f ListFilter,
	) ([]models.Bill, int64, error)

	UpdateBill(
		ctx context.Context,
		id uint,
		mutate BillMutation,
	) (*models.Bill, error)

	// ListOverdueCandidates returns open bills due before now.
	ListOverdueCandidates(
		ctx context.Context,
		now time.Time,
	) ([]models.Bill, error)
}

// ReceiptStore archives payment receipts outside the database.
type ReceiptStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}
