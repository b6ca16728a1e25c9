package handler

import (
	"encoding/json"
	"net/http"

	"cosmetology-clinic-api/internal/delivery/dto"
	"cosmetology-clinic-api/internal/usecase"
	"cosmetology-clinic-api/pkg/response"
	"cosmetology-clinic-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// CreateAppointment handles booking an appointment
// @Summary Create appointment
// @Description Book an appointment and schedule its reminders
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Create Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrTreatmentNotFound:
			response.NotFound(w, "Treatment not found")
		case usecase.ErrInvalidDateTimeFormat:
			response.Error(w, http.StatusBadRequest, "Invalid datetime format, use RFC 3339", nil)
		case usecase.ErrAppointmentPast:
			response.Error(w, http.StatusBadRequest, "Cannot book an appointment in the past", nil)
		case usecase.ErrInvalidCostFormat:
			response.Error(w, http.StatusBadRequest, "Invalid cost format", nil)
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

// GetAppointment handles getting a single appointment
// @Summary Get appointment
// @Description Get an appointment by ID
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// GetAppointments lists appointments for the calendar view. Query
// params: start_at and end_at as YYYY-MM-DD (end inclusive), or
// patient_id for one patient's history.
// @Summary List appointments
// @Description Get appointments by date range or patient
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param start_at query string false "Range start (YYYY-MM-DD)"
// @Param end_at query string false "Range end, inclusive (YYYY-MM-DD)"
// @Param patient_id query string false "Patient ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	if patientParam := r.URL.Query().Get("patient_id"); patientParam != "" {
		patientID, err := uuid.Parse(patientParam)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
			return
		}

		appointments, err := h.appointmentUsecase.GetAppointmentsByPatient(r.Context(), patientID)
		if err != nil {
			switch err {
			case usecase.ErrPatientNotFound:
				response.NotFound(w, "Patient not found")
			default:
				response.InternalServerError(w, "Failed to get appointments")
			}
			return
		}

		response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
		return
	}

	startAt := r.URL.Query().Get("start_at")
	endAt := r.URL.Query().Get("end_at")
	if startAt == "" || endAt == "" {
		response.Error(w, http.StatusBadRequest, "start_at and end_at are required", nil)
		return
	}

	appointments, err := h.appointmentUsecase.GetAppointmentsByRange(r.Context(), startAt, endAt)
	if err != nil {
		switch err {
		case usecase.ErrInvalidRangeFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date range, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// UpdateStatus handles appointment status transitions
// @Summary Update appointment status
// @Description Mark an appointment completed, cancelled, or no-show
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Update Status Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.appointmentUsecase.UpdateStatus(r.Context(), appointmentID, &req); err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidStatus:
			response.Error(w, http.StatusBadRequest, "Invalid appointment status", nil)
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", nil)
}
