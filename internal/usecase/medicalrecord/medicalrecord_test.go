package medicalrecord

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	apptDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/medicalrecord"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type fakeRepo struct {
	mu           sync.Mutex
	appointments map[uint]models.Appointment
	records      []models.MedicalRecord
	lastFilter   domain.ListFilter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		appointments: map[uint]models.Appointment{
			1: {ID: 1, PatientID: 100, DoctorID: 10, Status: "in-progress"},
			2: {ID: 2, PatientID: 100, DoctorID: 10, Status: "cancelled"},
			3: {ID: 3, PatientID: 101, DoctorID: 11, Status: "completed"},
		},
	}
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &ap, nil
}

func (r *fakeRepo) CreateRecord(_ context.Context, rec *models.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = uint(len(r.records) + 1)
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeRepo) GetRecord(_ context.Context, id uint) (*models.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) ListRecords(_ context.Context, f domain.ListFilter) ([]models.MedicalRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f

	var out []models.MedicalRecord
	for _, rec := range r.records {
		switch {
		case f.PatientID != 0 && rec.PatientID != f.PatientID,
			f.DoctorID != 0 && rec.DoctorID != f.DoctorID,
			f.HideConfidential && rec.IsConfidential && rec.DoctorID != f.TreatingDoctorID:
			continue
		}
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

type recordingSink struct {
	events []audit.Event
}

func (s *recordingSink) Dispatch(ev audit.Event) { s.events = append(s.events, ev) }

var fixedNow = time.Date(2024, 1, 19, 10, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{Timezone: "UTC", Now: func() time.Time { return fixedNow }}
}

func ptr[T any](v T) *T { return &v }

func note() models.MedicalRecord {
	return models.MedicalRecord{
		ChiefComplaint: "Headache",
		PresentIllness: "Two days, worse in the morning",
		Vitals:         models.Vitals{WeightKg: ptr(50.0), HeightCm: ptr(170.0)},
	}
}

func TestCreateRecord(t *testing.T) {
	repo := newFakeRepo()
	sink := &recordingSink{}
	uc := NewCreateRecord(repo, sink, testSettings())

	in := note()
	in.PatientID = 999
	out, err := uc.Execute(context.Background(), 1, 10, in)
	require.NoError(t, err)

	assert.Equal(t, uint(100), out.PatientID, "patient comes from the appointment")
	assert.Equal(t, uint(10), out.DoctorID)
	assert.Equal(t, uint(1), out.AppointmentID)
	assert.True(t, fixedNow.Equal(out.VisitDate))
	require.NotNil(t, out.Vitals.BMI)
	assert.Equal(t, 17.3, *out.Vitals.BMI)
	assert.Equal(t, "underweight", out.BMICategory)

	require.Len(t, sink.events, 1)
	assert.Equal(t, "medical_record_created", sink.events[0].Action)
}

func TestCreateRecord_Rejections(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateRecord(repo, &recordingSink{}, testSettings())
	ctx := context.Background()

	_, err := uc.Execute(ctx, 1, 11, note())
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"), "another doctor's appointment")

	_, err = uc.Execute(ctx, 42, 10, note())
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	_, err = uc.Execute(ctx, 2, 10, note())
	assert.True(t, httperr.IsBusiness(err, "appointment_closed"))

	bad := note()
	bad.PresentIllness = " "
	_, err = uc.Execute(ctx, 1, 10, bad)
	assert.True(t, httperr.IsBusiness(err, "complaint_required"))

	bad = note()
	bad.Vitals.OxygenSaturation = ptr(140)
	_, err = uc.Execute(ctx, 1, 10, bad)
	assert.True(t, httperr.IsBusiness(err, "invalid_vitals"))

	assert.Empty(t, repo.records)
}

func seedRecords(t *testing.T, repo *fakeRepo) {
	t.Helper()
	uc := NewCreateRecord(repo, &recordingSink{}, testSettings())
	ctx := context.Background()

	_, err := uc.Execute(ctx, 1, 10, note())
	require.NoError(t, err)

	secret := note()
	secret.IsConfidential = true
	_, err = uc.Execute(ctx, 1, 10, secret)
	require.NoError(t, err)

	_, err = uc.Execute(ctx, 3, 11, note())
	require.NoError(t, err)
}

func TestGetRecord_Confidentiality(t *testing.T) {
	repo := newFakeRepo()
	seedRecords(t, repo)
	uc := NewGetRecord(repo)
	ctx := context.Background()

	_, err := uc.Execute(ctx, 2, apptDomain.Viewer{ID: 10, Role: models.RoleDoctor})
	assert.NoError(t, err, "author")

	_, err = uc.Execute(ctx, 2, apptDomain.Viewer{ID: 100, Role: models.RolePatient})
	assert.NoError(t, err, "subject")

	_, err = uc.Execute(ctx, 2, apptDomain.Viewer{ID: 11, Role: models.RoleDoctor})
	assert.True(t, httperr.IsBusiness(err, "record_not_found"))

	_, err = uc.Execute(ctx, 2, apptDomain.Viewer{ID: 20, Role: models.RoleNurse})
	assert.True(t, httperr.IsBusiness(err, "record_not_found"))

	_, err = uc.Execute(ctx, 3, apptDomain.Viewer{ID: 100, Role: models.RolePatient})
	assert.True(t, httperr.IsBusiness(err, "record_not_found"), "another patient's record")

	rec, err := uc.Execute(ctx, 1, apptDomain.Viewer{ID: 11, Role: models.RoleDoctor})
	require.NoError(t, err)
	assert.Equal(t, "underweight", rec.BMICategory)
}

func TestListRecords_Scoped(t *testing.T) {
	repo := newFakeRepo()
	seedRecords(t, repo)
	uc := NewListRecords(repo)
	ctx := context.Background()

	_, total, err := uc.Execute(ctx, domain.ListFilter{PatientID: 101}, apptDomain.Viewer{ID: 100, Role: models.RolePatient})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "pinned to self, confidential included")

	_, total, err = uc.Execute(ctx, domain.ListFilter{PatientID: 100}, apptDomain.Viewer{ID: 11, Role: models.RoleDoctor})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "another doctor does not see the confidential note")

	_, total, err = uc.Execute(ctx, domain.ListFilter{}, apptDomain.Viewer{ID: 99, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}
