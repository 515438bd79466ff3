package patient

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	apptDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	recordDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/medicalrecord"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

var fixedNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{Timezone: "UTC", Now: func() time.Time { return fixedNow }}
}

type fakeRepo struct {
	users   map[uint]*models.User
	next    *models.Appointment
	last    *models.Appointment
	counts  []apptDomain.StatusCount
	updated *models.User
}

func newFakeRepo() *fakeRepo {
	dob := time.Date(1990, 7, 1, 0, 0, 0, 0, time.UTC)
	return &fakeRepo{
		users: map[uint]*models.User{
			1:  {ID: 1, FirstName: "Ana", LastName: "Silva", Role: models.RolePatient, DateOfBirth: &dob},
			10: {ID: 10, FirstName: "Gregory", LastName: "House", Role: models.RoleDoctor},
		},
	}
}

func (r *fakeRepo) GetPatient(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) UpdatePatient(_ context.Context, u *models.User) error {
	r.updated = u
	return nil
}

func (r *fakeRepo) CountAppointmentsByStatus(context.Context, uint) ([]apptDomain.StatusCount, error) {
	return r.counts, nil
}

func (r *fakeRepo) NextAppointment(context.Context, uint, time.Time) (*models.Appointment, error) {
	return r.next, nil
}

func (r *fakeRepo) LastVisit(context.Context, uint) (*models.Appointment, error) {
	return r.last, nil
}

type fakeRecords struct {
	f recordDomain.ListFilter
}

func (r *fakeRecords) GetAppointment(context.Context, uint) (*models.Appointment, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeRecords) CreateRecord(context.Context, *models.MedicalRecord) error { return nil }
func (r *fakeRecords) GetRecord(context.Context, uint) (*models.MedicalRecord, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRecords) ListRecords(_ context.Context, f recordDomain.ListFilter) ([]models.MedicalRecord, int64, error) {
	r.f = f
	bmi := 31.0
	return []models.MedicalRecord{{ID: 7, PatientID: f.PatientID, Vitals: models.Vitals{BMI: &bmi}}}, 8, nil
}

type recordingSink struct {
	events []audit.Event
}

func (s *recordingSink) Dispatch(ev audit.Event) { s.events = append(s.events, ev) }

func TestGetPatient_Age(t *testing.T) {
	uc := NewGetPatient(newFakeRepo(), testSettings())

	p, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, p.Age)
	assert.Equal(t, 33, *p.Age, "birthday later this year")

	_, err = uc.Execute(context.Background(), 10)
	assert.True(t, httperr.IsBusiness(err, "patient_not_found"), "doctors are not patients")

	_, err = uc.Execute(context.Background(), 404)
	assert.True(t, httperr.IsBusiness(err, "patient_not_found"))
}

func TestSummary(t *testing.T) {
	repo := newFakeRepo()
	repo.counts = []apptDomain.StatusCount{
		{Status: "completed", Count: 4, Fees: decimal.NewFromInt(400)},
		{Status: "scheduled", Count: 1, Fees: decimal.NewFromInt(100)},
	}
	repo.next = &models.Appointment{
		ID: 9, PatientID: 1, DoctorID: 10, Status: "scheduled",
		AppointmentDate: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "10:00", Duration: 30,
		StartAt: time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC),
	}
	records := &fakeRecords{}
	uc := NewSummary(repo, records, testSettings())

	s, err := uc.Execute(context.Background(), 1, apptDomain.Viewer{ID: 11, Role: models.RoleDoctor})
	require.NoError(t, err)

	assert.EqualValues(t, 5, s.TotalAppointments)
	require.NotNil(t, s.NextAppointment)
	assert.Equal(t, "10:30", s.NextAppointment.EndTime)
	assert.True(t, s.NextAppointment.IsUpcoming)
	assert.Nil(t, s.LastVisit)
	assert.EqualValues(t, 8, s.TotalRecords)
	require.Len(t, s.RecentRecords, 1)
	assert.Equal(t, "obese", s.RecentRecords[0].BMICategory)
	assert.Equal(t, 33, *s.Patient.Age)

	assert.Equal(t, 5, records.f.Limit)
	assert.True(t, records.f.HideConfidential, "doctor viewer")
	assert.Equal(t, uint(11), records.f.TreatingDoctorID)
}

func TestSummary_EmptyHistory(t *testing.T) {
	uc := NewSummary(newFakeRepo(), &fakeRecords{}, testSettings())

	s, err := uc.Execute(context.Background(), 1, apptDomain.Viewer{ID: 1, Role: models.RolePatient})
	require.NoError(t, err)
	assert.NotNil(t, s.AppointmentsByStatus)
	assert.Zero(t, s.TotalAppointments)
	assert.Nil(t, s.NextAppointment)
}

func TestUpdatePatient(t *testing.T) {
	repo := newFakeRepo()
	sink := &recordingSink{}
	uc := NewUpdatePatient(repo, sink, testSettings())
	ctx := context.Background()

	phone, gender, blood := " 555-0100 ", "Female", "ab+"
	p, err := uc.Execute(ctx, 1, 20, UpdatePatientInput{Phone: &phone, Gender: &gender, BloodGroup: &blood})
	require.NoError(t, err)

	assert.Equal(t, "555-0100", p.Phone)
	assert.Equal(t, "female", p.Gender)
	assert.Equal(t, "AB+", p.BloodGroup)
	assert.Equal(t, "Ana", repo.updated.FirstName, "untouched")
	require.Len(t, sink.events, 1)
	assert.Equal(t, "patient_updated", sink.events[0].Action)

	bad := "X"
	_, err = uc.Execute(ctx, 1, 20, UpdatePatientInput{BloodGroup: &bad})
	assert.True(t, httperr.IsBusiness(err, "invalid_blood_group"))

	empty := " "
	_, err = uc.Execute(ctx, 1, 20, UpdatePatientInput{FirstName: &empty})
	assert.True(t, httperr.IsBusiness(err, "name_required"))

	future := fixedNow.AddDate(1, 0, 0)
	_, err = uc.Execute(ctx, 1, 20, UpdatePatientInput{DateOfBirth: &future})
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}
