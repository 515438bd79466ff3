package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
)

func seeded(t *testing.T) (*fakeRepo, uint) {
	t.Helper()
	repo := newFakeRepo()
	uc, _, _ := newCreate(repo)
	ap, err := uc.Execute(context.Background(), book("09:00", 30))
	require.NoError(t, err)
	return repo, ap.ID
}

func TestChangeStatus_VisitLifecycle(t *testing.T) {
	repo, id := seeded(t)
	cache := newFakeCache()
	sink := &recordingSink{}
	uc := NewChangeStatus(repo, cache, sink, testSettings())
	ctx := context.Background()

	_, err := uc.Execute(ctx, ChangeStatusInput{AppointmentID: id, To: domain.StatusConfirmed})
	require.NoError(t, err)
	assert.Empty(t, cache.invalidated, "confirmed still blocks the slot")

	_, err = uc.Execute(ctx, ChangeStatusInput{AppointmentID: id, To: domain.StatusInProgress})
	require.NoError(t, err)

	ap, err := uc.Execute(ctx, ChangeStatusInput{
		AppointmentID: id,
		To:            domain.StatusCompleted,
		Diagnosis:     "Seasonal flu",
		Notes:         "Rest for three days",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", ap.Status)
	assert.Equal(t, "Seasonal flu", ap.Diagnosis)
	assert.Equal(t, "Rest for three days", ap.Notes)
	require.NotNil(t, ap.CompletedAt)
	assert.Equal(t, []string{"2024-01-20"}, cache.invalidated)

	_, err = uc.Execute(ctx, ChangeStatusInput{AppointmentID: id, To: domain.StatusCancelled})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	assert.Equal(t, []string{
		"appointment_confirmed",
		"appointment_started",
		"appointment_completed",
	}, sink.actions())
}

func TestChangeStatus_CancelFreesSlot(t *testing.T) {
	repo, id := seeded(t)
	uc := NewChangeStatus(repo, newFakeCache(), &recordingSink{}, testSettings())

	ap, err := uc.Execute(context.Background(), ChangeStatusInput{AppointmentID: id, To: domain.StatusCancelled})
	require.NoError(t, err)
	require.NotNil(t, ap.CancelledAt)

	create, _, _ := newCreate(repo)
	_, err = create.Execute(context.Background(), book("09:00", 30))
	assert.NoError(t, err)
}

func TestChangeStatus_UnknownAppointment(t *testing.T) {
	uc := NewChangeStatus(newFakeRepo(), newFakeCache(), &recordingSink{}, testSettings())

	_, err := uc.Execute(context.Background(), ChangeStatusInput{AppointmentID: 404, To: domain.StatusConfirmed})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}
