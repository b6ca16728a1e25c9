package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmetology-clinic-api/config"
	deliveryHttp "cosmetology-clinic-api/internal/delivery/http"
	"cosmetology-clinic-api/internal/delivery/http/handler"
	"cosmetology-clinic-api/internal/delivery/http/middleware"
	"cosmetology-clinic-api/internal/infrastructure/cache"
	"cosmetology-clinic-api/internal/infrastructure/database"
	"cosmetology-clinic-api/internal/repository"
	"cosmetology-clinic-api/internal/service"
	"cosmetology-clinic-api/internal/usecase"
	"cosmetology-clinic-api/pkg/jwt"
	"cosmetology-clinic-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config          *config.Config
	DB              *gorm.DB
	RedisClient     *redis.Client
	Server          *http.Server
	ReminderUsecase usecase.ReminderUsecase

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{
		sweepStop: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logrus.Info("Database migrated successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server, reminderUsecase := initializeServer(cfg, db, redisClient)
	app.Server = server
	app.ReminderUsecase = reminderUsecase

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, usecase.ReminderUsecase) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	patientRepo := repository.NewPatientRepository()
	treatmentRepo := repository.NewTreatmentRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	reminderRepo := repository.NewReminderRepository()
	templateRepo := repository.NewEmailTemplateRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	mailer := service.NewResendMailer(cfg.Mail, log)
	auditService := service.NewAuditService(db, log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, jwtService, redisClient, auditService)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo)
	treatmentUsecase := usecase.NewTreatmentUsecase(db, log, treatmentRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, patientRepo, treatmentRepo, reminderRepo, auditService)
	reminderUsecase := usecase.NewReminderUsecase(db, log, reminderRepo, appointmentRepo, templateRepo, mailer, cfg.Reminder.BackfillWindow)
	templateUsecase := usecase.NewEmailTemplateUsecase(db, log, templateRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	treatmentHandler := handler.NewTreatmentHandler(treatmentUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	reminderHandler := handler.NewReminderHandler(reminderUsecase)
	templateHandler := handler.NewEmailTemplateHandler(templateUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, patientHandler, treatmentHandler, appointmentHandler, reminderHandler, templateHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}

	return server, reminderUsecase
}

// Run starts the HTTP server and the reminder sweep loop, then blocks
// until shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Start the reminder sweep loop
	go app.runSweepLoop()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// runSweepLoop processes due reminders on a fixed interval until the
// stop channel closes. One run executes immediately on startup so
// reminders that came due while the service was down go out without
// waiting a full interval.
func (app *App) runSweepLoop() {
	defer close(app.sweepDone)

	interval := app.Config.Reminder.SweepInterval
	logrus.Infof("Reminder sweep loop starting, interval %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	app.sweepOnce()
	for {
		select {
		case <-ticker.C:
			app.sweepOnce()
		case <-app.sweepStop:
			logrus.Info("Reminder sweep loop stopped")
			return
		}
	}
}

func (app *App) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := app.ReminderUsecase.ProcessDue(ctx, time.Now().UTC())
	if err != nil {
		logrus.Errorf("Reminder sweep failed: %v", err)
		return
	}
	if len(result.SentReminders) > 0 || result.FailedCount > 0 {
		logrus.Infof("Reminder sweep: %d sent, %d failed, %d skipped", len(result.SentReminders), result.FailedCount, result.SkippedCount)
	}
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Stop the sweep loop and wait for an in-flight run to finish
	close(app.sweepStop)
	<-app.sweepDone

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
