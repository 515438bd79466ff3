package billing

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type fakeRepo struct {
	mu           sync.Mutex
	users        map[uint]*models.User
	appointments map[uint]*models.Appointment
	bills        map[uint]*models.Bill
	nextID       uint
	nextChildID  uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: map[uint]*models.User{
			1: {ID: 1, FirstName: "Ana", LastName: "Silva", Role: models.RolePatient},
			5: {ID: 5, FirstName: "Gregory", LastName: "House", Role: models.RoleDoctor},
		},
		appointments: map[uint]*models.Appointment{
			40: {
				ID:              40,
				PatientID:       1,
				DoctorID:        5,
				Doctor:          models.User{FirstName: "Gregory", LastName: "House"},
				AppointmentDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
				ConsultationFee: decimal.NewFromInt(150),
			},
		},
		bills: map[uint]*models.Bill{},
	}
}

func cloneBill(b *models.Bill) *models.Bill {
	cp := *b
	cp.Items = append([]models.BillItem(nil), b.Items...)
	cp.Payments = append([]models.Payment(nil), b.Payments...)
	return &cp
}

func (r *fakeRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	if ap, ok := r.appointments[id]; ok {
		return ap, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) CreateBill(_ context.Context, b *models.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	b.ID = r.nextID
	b.BillNumber = domain.NewBillNumber(b.BillDate, len(r.bills)+1)
	r.assignChildIDs(b)
	r.bills[b.ID] = cloneBill(b)
	return nil
}

func (r *fakeRepo) assignChildIDs(b *models.Bill) {
	for i := range b.Items {
		if b.Items[i].ID == 0 {
			r.nextChildID++
			b.Items[i].ID = r.nextChildID
			b.Items[i].BillID = b.ID
		}
	}
	for i := range b.Payments {
		if b.Payments[i].ID == 0 {
			r.nextChildID++
			b.Payments[i].ID = r.nextChildID
			b.Payments[i].BillID = b.ID
		}
	}
}

func (r *fakeRepo) GetBill(_ context.Context, id uint) (*models.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[id]
	if !ok {
		return nil, domain.ErrBillNotFound
	}
	return cloneBill(b), nil
}

func (r *fakeRepo) ListBills(_ context.Context, f domain.ListFilter) ([]models.Bill, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Bill
	for _, b := range r.bills {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.PatientID != 0 && b.PatientID != f.PatientID {
			continue
		}
		out = append(out, *cloneBill(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

// UpdateBill applies mutate to a copy and stores it only on success.
func (r *fakeRepo) UpdateBill(_ context.Context, id uint, mutate domain.BillMutation) (*models.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bills[id]
	if !ok {
		return nil, domain.ErrBillNotFound
	}

	b := cloneBill(stored)
	if err := mutate(b); err != nil {
		return nil, err
	}
	r.assignChildIDs(b)
	r.bills[id] = cloneBill(b)
	return b, nil
}

func (r *fakeRepo) ListOverdueCandidates(_ context.Context, now time.Time) ([]models.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Bill
	for _, b := range r.bills {
		open := false
		for _, s := range domain.OpenStatusStrings() {
			if b.Status == s {
				open = true
			}
		}
		if open && b.DueDate.Before(now) {
			out = append(out, *cloneBill(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memReceipts struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func newMemReceipts() *memReceipts {
	return &memReceipts{objects: map[string][]byte{}}
}

func (m *memReceipts) Put(_ context.Context, key string, body io.Reader, _ string) error {
	if m.fail {
		return errors.New("bucket unavailable")
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
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

var fixedNow = time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{
		Timezone: "UTC",
		DueDays:  30,
		Now:      func() time.Time { return fixedNow },
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
