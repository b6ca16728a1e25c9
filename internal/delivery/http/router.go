package http

import (
	"net/http"

	"cosmetology-clinic-api/internal/delivery/http/handler"
	"cosmetology-clinic-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	patientHandler       *handler.PatientHandler
	treatmentHandler     *handler.TreatmentHandler
	appointmentHandler   *handler.AppointmentHandler
	reminderHandler      *handler.ReminderHandler
	emailTemplateHandler *handler.EmailTemplateHandler
	auditLogHandler      *handler.AuditLogHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	treatmentHandler *handler.TreatmentHandler,
	appointmentHandler *handler.AppointmentHandler,
	reminderHandler *handler.ReminderHandler,
	emailTemplateHandler *handler.EmailTemplateHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		patientHandler:       patientHandler,
		treatmentHandler:     treatmentHandler,
		appointmentHandler:   appointmentHandler,
		reminderHandler:      reminderHandler,
		emailTemplateHandler: emailTemplateHandler,
		auditLogHandler:      auditLogHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Staff routes (protected - any authenticated clinic role)
	staff := api.PathPrefix("").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	// Patient management
	staff.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	staff.HandleFunc("/patients", r.patientHandler.SearchPatients).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	staff.HandleFunc("/patients/{id}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)

	// Treatment catalog (read)
	staff.HandleFunc("/treatments", r.treatmentHandler.GetTreatments).Methods(http.MethodGet)
	staff.HandleFunc("/treatments/{id}", r.treatmentHandler.GetTreatment).Methods(http.MethodGet)

	// Appointment booking and calendar
	staff.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	staff.HandleFunc("/appointments", r.appointmentHandler.GetAppointments).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)

	// Reminder history and manual resend
	staff.HandleFunc("/appointments/{id}/reminders", r.reminderHandler.GetByAppointment).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}/reminders/{kind}/resend", r.reminderHandler.Resend).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// User management (admin)
	admin.HandleFunc("/users", r.authHandler.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users", r.authHandler.GetAllUsers).Methods(http.MethodGet)

	// Treatment catalog management (admin)
	admin.HandleFunc("/treatments", r.treatmentHandler.CreateTreatment).Methods(http.MethodPost)
	admin.HandleFunc("/treatments/{id}", r.treatmentHandler.UpdateTreatment).Methods(http.MethodPut)
	admin.HandleFunc("/treatments/{id}", r.treatmentHandler.DeleteTreatment).Methods(http.MethodDelete)

	// Email template management (admin)
	admin.HandleFunc("/email-templates", r.emailTemplateHandler.CreateTemplate).Methods(http.MethodPost)
	admin.HandleFunc("/email-templates", r.emailTemplateHandler.GetTemplates).Methods(http.MethodGet)
	admin.HandleFunc("/email-templates/{id}", r.emailTemplateHandler.GetTemplate).Methods(http.MethodGet)
	admin.HandleFunc("/email-templates/{id}", r.emailTemplateHandler.UpdateTemplate).Methods(http.MethodPut)
	admin.HandleFunc("/email-templates/{id}/activate", r.emailTemplateHandler.ActivateTemplate).Methods(http.MethodPost)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Reminder pipeline operations (admin)
	admin.HandleFunc("/reminders/sweep", r.reminderHandler.Sweep).Methods(http.MethodPost)
	admin.HandleFunc("/reminders/backfill", r.reminderHandler.Backfill).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
