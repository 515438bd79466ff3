package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	dbpkg "github.com/BruksfildServices01/hospital-manager/internal/db"
	"github.com/BruksfildServices01/hospital-manager/internal/jobs"
	"github.com/BruksfildServices01/hospital-manager/internal/models"
	"github.com/BruksfildServices01/hospital-manager/internal/routes"
	"github.com/BruksfildServices01/hospital-manager/internal/timezone"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the overdue sweep scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if migrate {
				if err := dbpkg.Migrate(a.db); err != nil {
					return err
				}
			}
			return runServer(a)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply schema migrations before serving")
	return cmd
}

func runServer(a *app) error {
	ctx := context.Background()

	slotCache, redisClient := a.slotCache(ctx)
	if redisClient != nil {
		defer redisClient.Close()
	}

	dispatcher := a.auditDispatcher()
	defer dispatcher.Close()

	if !a.cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	if err := routes.RegisterRoutes(r, routes.Deps{
		DB:       a.db,
		Config:   a.cfg,
		Log:      a.log,
		Audit:    dispatcher,
		Cache:    slotCache,
		Receipts: a.receiptStore(),
	}); err != nil {
		return err
	}

	scheduler, err := jobs.NewScheduler(
		a.cfg.OverdueSweepCron,
		timezone.Location(a.cfg.Timezone),
		a.overdueSweep(dispatcher),
		a.log,
	)
	if err != nil {
		return fmt.Errorf("invalid OVERDUE_SWEEP_CRON: %w", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	a.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.log.Info().Msg("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and the double-booking constraint",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if err := dbpkg.Migrate(a.db); err != nil {
				return err
			}
			a.log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func sweepOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Mark open bills past their due date as overdue, once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			dispatcher := a.auditDispatcher()
			defer dispatcher.Close()

			marked, err := a.overdueSweep(dispatcher).Execute(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d bill(s) overdue.\n", marked)
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var email, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 6 {
				return errors.New("password must have at least 6 characters")
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			user := models.User{
				FirstName:    firstName,
				LastName:     lastName,
				Email:        strings.ToLower(strings.TrimSpace(email)),
				PasswordHash: string(hashed),
				Role:         models.RoleAdmin,
				Active:       true,
			}
			if err := a.db.WithContext(cmd.Context()).Create(&user).Error; err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d).\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	cmd.Flags().StringVar(&firstName, "first-name", "System", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "Administrator", "Last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
