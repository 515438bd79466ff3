package appointment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

// ======================================================
// REPOSITORY
// ======================================================

type fakeRepo struct {
	mu           sync.Mutex
	users        map[uint]*models.User
	hours        map[[2]int]*models.WorkingHours
	appointments []*models.Appointment
	nextID       uint

	// writeErr, when set, is returned by writes after the guard passes.
	writeErr error

	lastFilter domain.ListFilter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: map[uint]*models.User{
			1:  {ID: 1, FirstName: "Ana", LastName: "Silva", Role: models.RolePatient, Active: true},
			2:  {ID: 2, FirstName: "Bruno", LastName: "Costa", Role: models.RolePatient, Active: true},
			10: {ID: 10, FirstName: "Gregory", LastName: "House", Role: models.RoleDoctor, Active: true, ConsultationFee: decimal.NewFromInt(150)},
			11: {ID: 11, FirstName: "Lisa", LastName: "Cuddy", Role: models.RoleDoctor, Active: true},
			20: {ID: 20, FirstName: "Nina", LastName: "Ross", Role: models.RoleNurse, Active: true},
		},
		hours:  map[[2]int]*models.WorkingHours{},
		nextID: 100,
	}
}

func (r *fakeRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetWorkingHours(_ context.Context, doctorID uint, weekday int) (*models.WorkingHours, error) {
	return r.hours[[2]int{int(doctorID), weekday}], nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (r *fakeRepo) forDay(doctorID uint, day time.Time, blockingOnly bool) []models.Appointment {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.DoctorID != doctorID || !sameDay(ap.AppointmentDate, day) {
			continue
		}
		if blockingOnly && !domain.Status(ap.Status).IsBlocking() {
			continue
		}
		cp := *ap
		cp.Patient = *r.users[ap.PatientID]
		cp.Doctor = *r.users[ap.DoctorID]
		out = append(out, cp)
	}
	return out
}

func (r *fakeRepo) ListBlockingForDay(_ context.Context, doctorID uint, day time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forDay(doctorID, day, true), nil
}

func (r *fakeRepo) ListForDay(_ context.Context, doctorID uint, day time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forDay(doctorID, day, false), nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.appointments {
		if ap.ID == id {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment, guard domain.ConflictGuard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := guard(r.forDay(ap.DoctorID, ap.AppointmentDate, true)); err != nil {
		return err
	}
	if r.writeErr != nil {
		return r.writeErr
	}

	r.nextID++
	ap.ID = r.nextID
	cp := *ap
	r.appointments = append(r.appointments, &cp)
	return nil
}

func (r *fakeRepo) RescheduleAppointment(_ context.Context, ap *models.Appointment, guard domain.ConflictGuard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := guard(r.forDay(ap.DoctorID, ap.AppointmentDate, true)); err != nil {
		return err
	}
	return r.replace(ap)
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replace(ap)
}

func (r *fakeRepo) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f

	var out []models.Appointment
	for _, ap := range r.appointments {
		switch {
		case f.PatientID != 0 && ap.PatientID != f.PatientID,
			f.DoctorID != 0 && ap.DoctorID != f.DoctorID,
			f.Status != "" && ap.Status != string(f.Status),
			f.Type != "" && ap.Type != f.Type,
			f.Day != nil && !sameDay(ap.AppointmentDate, *f.Day):
			continue
		}
		if f.DepartmentID != 0 && (ap.DepartmentID == nil || *ap.DepartmentID != f.DepartmentID) {
			continue
		}
		cp := *ap
		cp.Patient = *r.users[ap.PatientID]
		cp.Doctor = *r.users[ap.DoctorID]
		out = append(out, cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) CountByStatus(_ context.Context, since time.Time, doctorID uint) ([]domain.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := map[string]int{}
	var out []domain.StatusCount
	for _, ap := range r.appointments {
		if ap.StartAt.Before(since) || (doctorID != 0 && ap.DoctorID != doctorID) {
			continue
		}
		i, ok := idx[ap.Status]
		if !ok {
			i = len(out)
			idx[ap.Status] = i
			out = append(out, domain.StatusCount{Status: ap.Status, Fees: decimal.Zero})
		}
		out[i].Count++
		out[i].Fees = out[i].Fees.Add(ap.ConsultationFee)
	}
	return out, nil
}

func (r *fakeRepo) CountUpcoming(_ context.Context, now time.Time, doctorID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, ap := range r.appointments {
		if doctorID != 0 && ap.DoctorID != doctorID {
			continue
		}
		s := domain.Status(ap.Status)
		if ap.StartAt.After(now) && (s == domain.StatusScheduled || s == domain.StatusConfirmed) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) replace(ap *models.Appointment) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	for i, cur := range r.appointments {
		if cur.ID == ap.ID {
			cp := *ap
			r.appointments[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ======================================================
// CACHE / AUDIT
// ======================================================

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]domain.TimeSlot
	versions    map[uint]int64
	invalidated []string
	hits        int

	// beforeSet runs between computing slots and storing them.
	beforeSet func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:  map[string][]domain.TimeSlot{},
		versions: map[uint]int64{},
	}
}

func cacheKey(doctorID uint, date string) string {
	return fmt.Sprintf("%d:%s", doctorID, date)
}

func (c *fakeCache) Get(_ context.Context, doctorID uint, date string) ([]domain.TimeSlot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[cacheKey(doctorID, date)]
	if ok {
		c.hits++
	}
	return s, ok
}

func (c *fakeCache) Version(_ context.Context, doctorID uint) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[doctorID]
}

func (c *fakeCache) Set(_ context.Context, doctorID uint, date string, version int64, slots []domain.TimeSlot) {
	if c.beforeSet != nil {
		c.beforeSet()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[doctorID] != version {
		return
	}
	c.entries[cacheKey(doctorID, date)] = slots
}

func (c *fakeCache) Invalidate(_ context.Context, doctorID uint, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[doctorID]++
	delete(c.entries, cacheKey(doctorID, date))
	c.invalidated = append(c.invalidated, date)
}

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Dispatch(ev audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) actions() []string {
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Action)
	}
	return out
}

// ======================================================
// FIXTURE
// ======================================================

// Friday 19 January 2024, 08:00 UTC.
var fixedNow = time.Date(2024, 1, 19, 8, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{
		Timezone:    "UTC",
		Window:      domain.Window{Start: 9 * 60, End: 17 * 60},
		SlotMinutes: 30,
		Now:         func() time.Time { return fixedNow },
	}
}
