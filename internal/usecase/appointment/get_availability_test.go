package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
)

func TestGetAvailability_EnumeratesThenCaches(t *testing.T) {
	repo := newFakeRepo()
	create, _, _ := newCreate(repo)
	_, err := create.Execute(context.Background(), book("09:00", 30))
	require.NoError(t, err)
	_, err = create.Execute(context.Background(), book("10:00", 60))
	require.NoError(t, err)

	cache := newFakeCache()
	uc := NewGetAvailability(repo, cache, testSettings())

	slots, err := uc.Execute(context.Background(), 10, "2024-01-20")
	require.NoError(t, err)
	require.Len(t, slots, 16)

	unavailable := []string{}
	for _, s := range slots {
		if !s.Available {
			unavailable = append(unavailable, s.Start)
		}
	}
	assert.Equal(t, []string{"09:00", "10:00", "10:30"}, unavailable)

	again, err := uc.Execute(context.Background(), 10, "2024-01-20")
	require.NoError(t, err)
	assert.Equal(t, slots, again)
	assert.Equal(t, 1, cache.hits)
}

func TestGetAvailability_BookingDuringComputeIsNotCached(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	create := NewCreateAppointment(repo, cache, &recordingSink{}, testSettings())
	uc := NewGetAvailability(repo, cache, testSettings())

	cache.beforeSet = func() {
		cache.beforeSet = nil
		_, err := create.Execute(context.Background(), book("11:00", 30))
		require.NoError(t, err)
	}

	stale, err := uc.Execute(context.Background(), 10, "2024-01-20")
	require.NoError(t, err)
	for _, s := range stale {
		if s.Start == "11:00" {
			assert.True(t, s.Available, "computed before the booking")
		}
	}

	fresh, err := uc.Execute(context.Background(), 10, "2024-01-20")
	require.NoError(t, err)
	assert.Zero(t, cache.hits, "stale slots were not stored")
	for _, s := range fresh {
		if s.Start == "11:00" {
			assert.False(t, s.Available)
		}
	}
}

func TestGetAvailability_Errors(t *testing.T) {
	uc := NewGetAvailability(newFakeRepo(), newFakeCache(), testSettings())

	_, err := uc.Execute(context.Background(), 1, "2024-01-20")
	assert.True(t, httperr.IsBusiness(err, "doctor_not_found"))

	_, err = uc.Execute(context.Background(), 10, "tomorrow")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}

func TestListAppointmentsByDate(t *testing.T) {
	repo := newFakeRepo()
	create, _, _ := newCreate(repo)
	_, err := create.Execute(context.Background(), book("09:00", 45))
	require.NoError(t, err)

	uc := NewListAppointmentsByDate(repo, testSettings())
	list, err := uc.Execute(context.Background(), 10, "2024-01-20")
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, "09:45", got.EndTime)
	assert.Equal(t, "Ana Silva", got.PatientName)
	assert.Equal(t, "Gregory House", got.DoctorName)
	assert.True(t, got.IsUpcoming)
	assert.False(t, got.IsOverdue)

	empty, err := uc.Execute(context.Background(), 11, "2024-01-20")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
