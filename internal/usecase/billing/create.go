package billing

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBillInput struct {
	PatientID     uint
	AppointmentID *uint

	Items   []domain.LineItem
	DueDate string
	Notes   string

	// Draft keeps the bill editable and closed to payments until finalized.
	Draft bool

	CreatedByID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateBill struct {
	repo     domain.Repository
	audit    audit.Sink
	settings Settings
}

func NewCreateBill(
	repo domain.Repository,
	audit audit.Sink,
	settings Settings,
) *CreateBill {
	return &CreateBill{
		repo:     repo,
		audit:    audit,
		settings: settings,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBill) Execute(
	ctx context.Context,
	in CreateBillInput,
) (*models.Bill, error) {

	now := uc.settings.now()

	// --------------------------------------------------
	// Patient
	// --------------------------------------------------
	patient, err := uc.repo.GetUser(ctx, in.PatientID)
	if err != nil || patient == nil || patient.Role != models.RolePatient {
		return nil, httperr.ErrBusiness("patient_not_found")
	}

	// --------------------------------------------------
	// Items (consultation fee first when billing a visit)
	// --------------------------------------------------
	items := make([]domain.LineItem, 0, len(in.Items)+1)

	if in.AppointmentID != nil {
		ap, err := uc.repo.GetAppointment(ctx, *in.AppointmentID)
		if err != nil || ap == nil || ap.PatientID != patient.ID {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		if ap.ConsultationFee.IsPositive() {
			items = append(items, domain.LineItem{
				Description: consultationDescription(ap),
				Category:    domain.CategoryConsultation,
				Quantity:    1,
				UnitPrice:   ap.ConsultationFee,
			})
		}
	}
	items = append(items, in.Items...)

	if len(items) == 0 && !in.Draft {
		return nil, domain.ErrInvalidLineItem
	}

	b := &models.Bill{
		PatientID:     patient.ID,
		AppointmentID: in.AppointmentID,
		BillDate:      now,
		DueDate:       now.AddDate(0, 0, uc.settings.dueDays()),
		Status:        string(domain.StatusPending),
		Notes:         strings.TrimSpace(in.Notes),
		CreatedByID:   in.CreatedByID,
		UpdatedByID:   in.CreatedByID,
	}
	if in.Draft {
		b.Status = string(domain.StatusDraft)
	}

	if in.DueDate != "" {
		due, err := timezone.ParseDate(in.DueDate, uc.settings.Timezone)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		// Due at the end of the given day.
		b.DueDate = due.AddDate(0, 0, 1).Add(-1)
	}

	for i, li := range items {
		if err := li.Validate(); err != nil {
			return nil, err
		}
		item := li.Model()
		item.Position = i + 1
		b.Items = append(b.Items, item)
	}

	domain.Recompute(b, now)

	if err := uc.repo.CreateBill(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.CreatedByID,
		Action:   "bill_created",
		Entity:   "bill",
		EntityID: &b.ID,
		Metadata: map[string]string{
			"bill_number":  b.BillNumber,
			"total_amount": b.TotalAmount.StringFixed(2),
		},
	})

	return b, nil
}

func consultationDescription(ap *models.Appointment) string {
	name := strings.TrimSpace(ap.Doctor.FullName())
	if name == "" {
		return "Consultation " + ap.AppointmentDate.Format(timezone.DateLayout)
	}
	return "Consultation with Dr. " + name + " on " + ap.AppointmentDate.Format(timezone.DateLayout)
}
