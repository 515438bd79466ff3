package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/dashboard"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type fakeRepo struct {
	day, now, expiringBy, since time.Time
	limit                       int
	revenueErr                  error
}

func (r *fakeRepo) Overview(_ context.Context, day, now time.Time) (domain.Overview, error) {
	r.day, r.now = day, now
	return domain.Overview{TotalPatients: 12, TodayAppointments: 3}, nil
}

func (r *fakeRepo) CollectedRevenue(context.Context) (decimal.Decimal, error) {
	return decimal.RequireFromString("1250.50"), r.revenueErr
}

func (r *fakeRepo) InventoryAlerts(_ context.Context, expiringBy time.Time) (domain.Alerts, error) {
	r.expiringBy = expiringBy
	return domain.Alerts{LowStockItems: 2}, nil
}

func (r *fakeRepo) RecentAppointments(_ context.Context, since time.Time, limit int) ([]models.Appointment, error) {
	r.since, r.limit = since, limit
	return []models.Appointment{{
		ID: 1, Status: "completed", AppointmentTime: "09:00", Duration: 45,
		Patient: models.User{FirstName: "Ana", LastName: "Silva"},
	}}, nil
}

func TestStats(t *testing.T) {
	// 02:30 UTC on the 20th is still the 19th in New York.
	now := time.Date(2024, 1, 20, 2, 30, 0, 0, time.UTC)
	repo := &fakeRepo{}
	uc := NewStats(repo, Settings{Timezone: "America/New_York", Now: func() time.Time { return now }})

	out, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 19, repo.day.Day(), "today follows the hospital timezone")
	assert.Equal(t, 0, repo.day.Hour())
	assert.Equal(t, "2024-02-18", repo.expiringBy.Format("2006-01-02"))
	assert.Equal(t, "2024-01-12", repo.since.Format("2006-01-02"))
	assert.Equal(t, 10, repo.limit)

	assert.EqualValues(t, 12, out.Overview.TotalPatients)
	assert.Equal(t, "1250.5", out.Revenue.Total.String())
	assert.EqualValues(t, 2, out.Alerts.LowStockItems)
	require.Len(t, out.RecentAppointments, 1)
	assert.Equal(t, "09:45", out.RecentAppointments[0].EndTime)
	assert.Equal(t, "Ana Silva", out.RecentAppointments[0].PatientName)
}

func TestStats_PropagatesErrors(t *testing.T) {
	repo := &fakeRepo{revenueErr: errors.New("db down")}
	uc := NewStats(repo, Settings{Timezone: "UTC"})

	_, err := uc.Execute(context.Background())
	assert.EqualError(t, err, "db down")
}
