package handler

import (
	"net/http"
	"time"

	"cosmetology-clinic-api/internal/domain/entity"
	"cosmetology-clinic-api/internal/usecase"
	"cosmetology-clinic-api/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ReminderHandler struct {
	reminderUsecase usecase.ReminderUsecase
}

func NewReminderHandler(reminderUsecase usecase.ReminderUsecase) *ReminderHandler {
	return &ReminderHandler{
		reminderUsecase: reminderUsecase,
	}
}

// Sweep triggers one processing run of all due reminders. The same
// path runs on a fixed interval in the background; this endpoint lets
// an operator force a run.
// @Summary Process due reminders
// @Description Select all pending due reminders and send them
// @Tags Reminders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /reminders/sweep [post]
func (h *ReminderHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.reminderUsecase.ProcessDue(r.Context(), time.Now().UTC())
	if err != nil {
		response.InternalServerError(w, "Failed to process due reminders")
		return
	}

	response.Success(w, http.StatusOK, result.Message, result)
}

// Resend handles a manual resend of one reminder email
// @Summary Resend reminder
// @Description Send a fresh reminder email of the given kind for an appointment
// @Tags Reminders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Param kind path string true "Reminder kind" Enums(24h, 2h, confirmation)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/reminders/{kind}/resend [post]
func (h *ReminderHandler) Resend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}
	kind := entity.ReminderKind(vars["kind"])

	result, err := h.reminderUsecase.Resend(r.Context(), appointmentID, kind)
	if err != nil {
		switch err {
		case usecase.ErrInvalidReminderKind:
			response.Error(w, http.StatusBadRequest, "Unknown reminder kind", nil)
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentCancelled:
			response.Conflict(w, "Appointment is cancelled")
		case usecase.ErrTemplateNotFound:
			response.Error(w, http.StatusBadRequest, "No active email template for this reminder kind", nil)
		default:
			response.InternalServerError(w, "Failed to send reminder")
		}
		return
	}

	response.Success(w, http.StatusOK, result.Message, result)
}

// Backfill handles creating missing reminder rows for recent appointments
// @Summary Backfill reminders
// @Description Create missing reminder rows for scheduled appointments in the backfill window
// @Tags Reminders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /reminders/backfill [post]
func (h *ReminderHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	result, err := h.reminderUsecase.Backfill(r.Context(), time.Now().UTC())
	if err != nil {
		response.InternalServerError(w, "Failed to backfill reminders")
		return
	}

	response.Success(w, http.StatusOK, result.Message, result)
}

// GetByAppointment handles listing all reminder rows of an appointment
// @Summary List appointment reminders
// @Description Get the reminder history of an appointment
// @Tags Reminders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id}/reminders [get]
func (h *ReminderHandler) GetByAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	reminders, err := h.reminderUsecase.GetByAppointment(r.Context(), appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to get reminders")
		}
		return
	}

	response.Success(w, http.StatusOK, "Reminders retrieved successfully", reminders)
}
