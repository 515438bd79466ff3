package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apptDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	domain "github.com/BruksfildServices01/hospital-manager/internal/domain/dashboard"
	invDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

type DashboardGormRepository struct {
	db *gorm.DB
}

func NewDashboardGormRepository(db *gorm.DB) *DashboardGormRepository {
	return &DashboardGormRepository{db: db}
}

func (r *DashboardGormRepository) Overview(
	ctx context.Context,
	day time.Time,
	now time.Time,
) (domain.Overview, error) {

	var o domain.Overview
	db := r.db.WithContext(ctx)

	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&o.TotalPatients, &models.User{}, "role = ?", []any{models.RolePatient}},
		{&o.TotalDoctors, &models.User{}, "role = ? AND active = ?", []any{models.RoleDoctor, true}},
		{&o.TotalAppointments, &models.Appointment{}, "1 = 1", nil},
		{&o.TodayAppointments, &models.Appointment{}, "appointment_date = ?", []any{dateOnly(day)}},
		{&o.PendingAppointments, &models.Appointment{}, "start_at >= ? AND status IN ?", []any{
			now, []string{string(apptDomain.StatusScheduled), string(apptDomain.StatusConfirmed)},
		}},
	}

	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, c.args...).Count(c.dst).Error; err != nil {
			return domain.Overview{}, err
		}
	}
	return o, nil
}

func (r *DashboardGormRepository) CollectedRevenue(
	ctx context.Context,
) (decimal.Decimal, error) {

	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Bill{}).
		Select("COALESCE(SUM(paid_amount), 0)").
		Where("status IN ?", domain.RevenueStatuses).
		Row().
		Scan(&total)
	return total, err
}

func (r *DashboardGormRepository) InventoryAlerts(
	ctx context.Context,
	expiringBy time.Time,
) (domain.Alerts, error) {

	var a domain.Alerts
	active := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("status = ?", string(invDomain.StatusActive))

	if err := active.Session(&gorm.Session{}).
		Where("current_stock <= reorder_point").
		Count(&a.LowStockItems).Error; err != nil {
		return domain.Alerts{}, err
	}
	if err := active.Session(&gorm.Session{}).
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", dateOnly(expiringBy)).
		Count(&a.ExpiringSoon).Error; err != nil {
		return domain.Alerts{}, err
	}
	return a, nil
}

func (r *DashboardGormRepository) RecentAppointments(
	ctx context.Context,
	since time.Time,
	limit int,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Where("appointment_date >= ?", dateOnly(since)).
		Order("start_at DESC").
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*DashboardGormRepository)(nil)
