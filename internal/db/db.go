package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/hospital-manager/internal/config"
	"github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Migrate creates the schema and the database-level booking guard.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.WorkingHours{},
		&models.Appointment{},
		&models.MedicalRecord{},
		&models.Bill{},
		&models.BillItem{},
		&models.Payment{},
		&models.InventoryItem{},
		&models.StockMovement{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(noOverlapConstraintSQL()).Error; err != nil {
		return fmt.Errorf("appointments_no_overlap: %w", err)
	}

	return nil
}

// noOverlapConstraintSQL rejects two blocking appointments of one doctor
// whose [start_at, end_at) ranges intersect.
func noOverlapConstraintSQL() string {
	quoted := make([]string, 0, len(appointment.BlockingStatuses))
	for _, s := range appointment.BlockingStatusStrings() {
		quoted = append(quoted, "'"+s+"'")
	}

	return fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
	) THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (
				doctor_id WITH =,
				tstzrange(start_at, end_at, '[)') WITH &&
			)
			WHERE (status IN (%s));
	END IF;
END
$$;`, strings.Join(quoted, ", "))
}
