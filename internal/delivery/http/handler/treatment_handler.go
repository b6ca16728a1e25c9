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

type TreatmentHandler struct {
	treatmentUsecase usecase.TreatmentUsecase
	validator        *validator.CustomValidator
}

func NewTreatmentHandler(treatmentUsecase usecase.TreatmentUsecase, validator *validator.CustomValidator) *TreatmentHandler {
	return &TreatmentHandler{
		treatmentUsecase: treatmentUsecase,
		validator:        validator,
	}
}

// CreateTreatment handles treatment creation
// @Summary Create treatment
// @Description Create a new treatment in the catalog
// @Tags Treatments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTreatmentRequest true "Create Treatment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /treatments [post]
func (h *TreatmentHandler) CreateTreatment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	treatment, err := h.treatmentUsecase.CreateTreatment(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidPrice:
			response.Error(w, http.StatusBadRequest, "Invalid price format", nil)
		default:
			response.InternalServerError(w, "Failed to create treatment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Treatment created successfully", treatment)
}

// GetTreatment handles getting a single treatment
// @Summary Get treatment
// @Description Get a treatment by ID
// @Tags Treatments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Treatment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /treatments/{id} [get]
func (h *TreatmentHandler) GetTreatment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	treatmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment ID", nil)
		return
	}

	treatment, err := h.treatmentUsecase.GetTreatment(r.Context(), treatmentID)
	if err != nil {
		switch err {
		case usecase.ErrTreatmentNotFound:
			response.NotFound(w, "Treatment not found")
		default:
			response.InternalServerError(w, "Failed to get treatment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Treatment retrieved successfully", treatment)
}

// GetTreatments handles listing the treatment catalog
// @Summary List treatments
// @Description Get all treatments, optionally only active ones
// @Tags Treatments
// @Security BearerAuth
// @Produce json
// @Param active query bool false "Only active treatments"
// @Success 200 {object} response.Response
// @Router /treatments [get]
func (h *TreatmentHandler) GetTreatments(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	treatments, err := h.treatmentUsecase.GetAllTreatments(r.Context(), activeOnly)
	if err != nil {
		response.InternalServerError(w, "Failed to get treatments")
		return
	}

	response.Success(w, http.StatusOK, "Treatments retrieved successfully", treatments)
}

// UpdateTreatment handles updating a treatment
// @Summary Update treatment
// @Description Update treatment details
// @Tags Treatments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Treatment ID"
// @Param request body dto.UpdateTreatmentRequest true "Update Treatment Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /treatments/{id} [put]
func (h *TreatmentHandler) UpdateTreatment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	treatmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment ID", nil)
		return
	}

	var req dto.UpdateTreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	treatment, err := h.treatmentUsecase.UpdateTreatment(r.Context(), treatmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrTreatmentNotFound:
			response.NotFound(w, "Treatment not found")
		case usecase.ErrInvalidPrice:
			response.Error(w, http.StatusBadRequest, "Invalid price format", nil)
		default:
			response.InternalServerError(w, "Failed to update treatment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Treatment updated successfully", treatment)
}

// DeleteTreatment handles deactivating a treatment
// @Summary Delete treatment
// @Description Deactivate a treatment so it can no longer be booked
// @Tags Treatments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Treatment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /treatments/{id} [delete]
func (h *TreatmentHandler) DeleteTreatment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	treatmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment ID", nil)
		return
	}

	if err := h.treatmentUsecase.DeleteTreatment(r.Context(), treatmentID); err != nil {
		switch err {
		case usecase.ErrTreatmentNotFound:
			response.NotFound(w, "Treatment not found")
		default:
			response.InternalServerError(w, "Failed to delete treatment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Treatment deleted successfully", nil)
}
