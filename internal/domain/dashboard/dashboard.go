package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type Overview struct {
	TotalPatients       int64 `json:"total_patients"`
	TotalDoctors        int64 `json:"total_doctors"`
	TotalAppointments   int64 `json:"total_appointments"`
	TodayAppointments   int64 `json:"today_appointments"`
	PendingAppointments int64 `json:"pending_appointments"`
}

type Alerts struct {
	LowStockItems int64 `json:"low_stock_items"`
	ExpiringSoon  int64 `json:"expiring_soon"`
}

// RevenueStatuses are the bill states whose paid amount counts as collected.
var RevenueStatuses = []string{"paid", "partially-paid", "overdue"}

type Repository interface {
	// Overview counts people and visits. day is today's calendar date and
	// now the current instant.
	Overview(
		ctx context.Context,
		day time.Time,
		now time.Time,
	) (Overview, error)

	CollectedRevenue(
		ctx context.Context,
	) (decimal.Decimal, error)

	// InventoryAlerts counts active items at or below their reorder point
	// and active items expiring on or before expiringBy.
	InventoryAlerts(
		ctx context.Context,
		expiringBy time.Time,
	) (Alerts, error)

	RecentAppointments(
		ctx context.Context,
		since time.Time,
		limit int,
	) ([]models.Appointment, error)
}
