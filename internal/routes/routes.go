package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/hospital-manager/internal/audit"
	"github.com/BruksfildServices01/hospital-manager/internal/config"
	apptDomain "github.com/BruksfildServices01/hospital-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/hospital-manager/internal/domain/billing"
	"github.com/BruksfildServices01/hospital-manager/internal/handlers"
	infraRepo "github.com/BruksfildServices01/hospital-manager/internal/infra/repository"
	"github.com/BruksfildServices01/hospital-manager/internal/middleware"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	ucAppointment "github.com/BruksfildServices01/hospital-manager/internal/usecase/appointment"
	ucBilling "github.com/BruksfildServices01/hospital-manager/internal/usecase/billing"
	ucDashboard "github.com/BruksfildServices01/hospital-manager/internal/usecase/dashboard"
	ucInventory "github.com/BruksfildServices01/hospital-manager/internal/usecase/inventory"
	ucRecord "github.com/BruksfildServices01/hospital-manager/internal/usecase/medicalrecord"
	ucPatient "github.com/BruksfildServices01/hospital-manager/internal/usecase/patient"
)

// SlotCache is the availability cache as both the use cases and the
// working-hours handler see it.
type SlotCache interface {
	apptDomain.SlotCache
	handlers.DoctorCacheInvalidator
}

// Deps are the process-wide singletons built in cmd/api.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      zerolog.Logger
	Audit    audit.Sink
	Cache    SlotCache
	Receipts billing.ReceiptStore
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	cfg := d.Config

	window, err := apptDomain.ParseWindow(cfg.WorkdayStart, cfg.WorkdayEnd)
	if err != nil {
		return err
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		gin.Recovery(),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	billRepo := infraRepo.NewBillGormRepository(d.DB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(d.DB)
	recordRepo := infraRepo.NewMedicalRecordGormRepository(d.DB)
	patientRepo := infraRepo.NewPatientGormRepository(d.DB)
	dashboardRepo := infraRepo.NewDashboardGormRepository(d.DB)

	appointmentSettings := ucAppointment.Settings{
		Timezone:    cfg.Timezone,
		Window:      window,
		SlotMinutes: cfg.SlotMinutes,
	}
	billingSettings := ucBilling.Settings{
		Timezone: cfg.Timezone,
		DueDays:  cfg.BillDueDays,
	}
	inventorySettings := ucInventory.Settings{Timezone: cfg.Timezone}
	recordSettings := ucRecord.Settings{Timezone: cfg.Timezone}
	patientSettings := ucPatient.Settings{Timezone: cfg.Timezone}

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(handlers.AppointmentUseCases{
		Create:        ucAppointment.NewCreateAppointment(appointmentRepo, d.Cache, d.Audit, appointmentSettings),
		ChangeStatus:  ucAppointment.NewChangeStatus(appointmentRepo, d.Cache, d.Audit, appointmentSettings),
		Reschedule:    ucAppointment.NewReschedule(appointmentRepo, d.Cache, d.Audit, appointmentSettings),
		ListByDate:    ucAppointment.NewListAppointmentsByDate(appointmentRepo, appointmentSettings),
		Availability:  ucAppointment.NewGetAvailability(appointmentRepo, d.Cache, appointmentSettings),
		Get:           ucAppointment.NewGetAppointment(appointmentRepo),
		List:          ucAppointment.NewListAppointments(appointmentRepo, appointmentSettings),
		Stats:         ucAppointment.NewAppointmentStats(appointmentRepo, appointmentSettings),
		UpdateDetails: ucAppointment.NewUpdateDetails(appointmentRepo, d.Audit),
	})

	// ======================================================
	// USE CASES: MEDICAL RECORDS / PATIENTS
	// ======================================================
	recordHandler := handlers.NewMedicalRecordHandler(
		ucRecord.NewCreateRecord(recordRepo, d.Audit, recordSettings),
		ucRecord.NewGetRecord(recordRepo),
		ucRecord.NewListRecords(recordRepo),
		cfg.Timezone,
	)
	patientHandler := handlers.NewPatientHandler(d.DB, handlers.PatientUseCases{
		Get:     ucPatient.NewGetPatient(patientRepo, patientSettings),
		Summary: ucPatient.NewSummary(patientRepo, recordRepo, patientSettings),
		Update:  ucPatient.NewUpdatePatient(patientRepo, d.Audit, patientSettings),
	}, cfg.Timezone)
	dashboardHandler := handlers.NewDashboardHandler(
		ucDashboard.NewStats(dashboardRepo, ucDashboard.Settings{Timezone: cfg.Timezone}),
	)

	// ======================================================
	// USE CASES: BILLING
	// ======================================================
	billHandler := handlers.NewBillHandler(handlers.BillUseCases{
		Create:      ucBilling.NewCreateBill(billRepo, d.Audit, billingSettings),
		Get:         ucBilling.NewGetBill(billRepo, billingSettings),
		List:        ucBilling.NewListBills(billRepo, billingSettings),
		AddLineItem: ucBilling.NewAddLineItem(billRepo, d.Audit, billingSettings),
		Finalize:    ucBilling.NewFinalize(billRepo, d.Audit, billingSettings),
		AddPayment:  ucBilling.NewAddPayment(billRepo, d.Receipts, d.Audit, billingSettings, d.Log),
		Cancel:      ucBilling.NewCancel(billRepo, d.Audit),
		Refund:      ucBilling.NewRefund(billRepo, d.Audit, billingSettings),
	}, cfg.Timezone)

	// ======================================================
	// USE CASES: INVENTORY
	// ======================================================
	inventoryHandler := handlers.NewInventoryHandler(
		ucInventory.NewCreateItem(inventoryRepo, d.Audit, inventorySettings),
		ucInventory.NewRecordMovement(inventoryRepo, d.Audit, inventorySettings),
		ucInventory.NewGetItem(inventoryRepo, inventorySettings),
		ucInventory.NewListItems(inventoryRepo, inventorySettings),
		cfg.Timezone,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, cfg)
	meHandler := handlers.NewMeHandler(d.DB)
	departmentHandler := handlers.NewDepartmentHandler(d.DB)
	doctorHandler := handlers.NewDoctorHandler(d.DB)
	userHandler := handlers.NewUserHandler(d.DB, d.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, d.Cache)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, cfg.Timezone)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))

		admin := middleware.RequireRoles(models.RoleAdmin)
		staff := middleware.RequireRoles(
			models.RoleAdmin, models.RoleDoctor, models.RoleNurse,
			models.RoleReceptionist, models.RoleAccountant, models.RolePharmacist,
		)
		clinical := middleware.RequireRoles(models.RoleAdmin, models.RoleDoctor, models.RoleNurse)
		// Patients may book; every later change goes through staff.
		booking := middleware.RequireRoles(
			models.RoleAdmin, models.RoleDoctor, models.RoleNurse,
			models.RoleReceptionist, models.RolePatient,
		)
		billingRoles := middleware.RequireRoles(models.RoleAdmin, models.RoleAccountant, models.RoleReceptionist)
		pharmacy := middleware.RequireRoles(models.RoleAdmin, models.RolePharmacist, models.RoleNurse)
		records := middleware.RequireRoles(models.RoleAdmin, models.RoleDoctor, models.RoleNurse, models.RolePatient)

		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
			secured.PUT("/me/password", meHandler.ChangePassword)
			secured.POST("/users", admin, authHandler.CreateUser)
			secured.GET("/users", admin, userHandler.List)
			secured.PATCH("/users/:id/status", admin, userHandler.SetStatus)

			secured.GET("/dashboard/stats", staff, dashboardHandler.Stats)

			// ------------------------------
			// DIRECTORY
			// ------------------------------
			secured.GET("/departments", departmentHandler.List)
			secured.POST("/departments", admin, departmentHandler.Create)
			secured.PATCH("/departments/:id", admin, departmentHandler.Update)

			secured.GET("/doctors", doctorHandler.List)
			secured.GET("/doctors/:id", doctorHandler.Get)
			secured.PATCH("/doctors/:id", admin, doctorHandler.Update)
			secured.GET("/doctors/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/doctors/:id/working-hours",
				middleware.RequireRoles(models.RoleAdmin, models.RoleDoctor), workingHoursHandler.Update)
			secured.GET("/doctors/:id/availability", appointmentHandler.Availability)

			// Patient-scoped reads check ownership in the handler.
			secured.GET("/patients", staff, patientHandler.List)
			secured.GET("/patients/:id", patientHandler.Get)
			secured.PATCH("/patients/:id", patientHandler.Update)
			secured.GET("/patients/:id/summary", patientHandler.Summary)
			secured.GET("/patients/:id/appointments", appointmentHandler.ListForPatient)
			secured.GET("/patients/:id/medical-records", recordHandler.ListForPatient)

			// ------------------------------
			// MEDICAL RECORDS
			// ------------------------------
			secured.POST("/medical-records", middleware.RequireRoles(models.RoleDoctor), recordHandler.Create)
			secured.GET("/medical-records", records, recordHandler.List)
			secured.GET("/medical-records/:id", records, recordHandler.Get)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", booking, appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/day", staff, appointmentHandler.ListByDate)
			secured.GET("/appointments/stats", middleware.RequireRoles(models.RoleAdmin, models.RoleDoctor), appointmentHandler.Stats)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", staff, appointmentHandler.Update)
			secured.PATCH("/appointments/:id/confirm", staff, appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/start", clinical, appointmentHandler.Start)
			secured.PATCH("/appointments/:id/complete", clinical, appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/cancel", staff, appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/no-show", staff, appointmentHandler.NoShow)
			secured.PATCH("/appointments/:id/reschedule", staff, appointmentHandler.Reschedule)

			// ------------------------------
			// BILLING
			// ------------------------------
			secured.POST("/bills", billingRoles, billHandler.Create)
			secured.GET("/bills", billHandler.List)
			secured.GET("/bills/:id", billHandler.Get)
			secured.POST("/bills/:id/items", billingRoles, billHandler.AddLineItem)
			secured.POST("/bills/:id/finalize", billingRoles, billHandler.Finalize)
			secured.POST("/bills/:id/payments", billingRoles, billHandler.AddPayment)
			secured.POST("/bills/:id/cancel", billingRoles, billHandler.Cancel)
			secured.POST("/bills/:id/refund", middleware.RequireRoles(models.RoleAdmin, models.RoleAccountant), billHandler.Refund)

			// ------------------------------
			// INVENTORY
			// ------------------------------
			secured.POST("/inventory", pharmacy, inventoryHandler.Create)
			secured.GET("/inventory", staff, inventoryHandler.List)
			secured.GET("/inventory/:id", staff, inventoryHandler.Get)
			secured.POST("/inventory/:id/movements", pharmacy, inventoryHandler.RecordMovement)

			secured.GET("/audit-logs", admin, auditLogsHandler.List)
		}
	}

	return nil
}
