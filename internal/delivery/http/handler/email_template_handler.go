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

type EmailTemplateHandler struct {
	templateUsecase usecase.EmailTemplateUsecase
	validator       *validator.CustomValidator
}

func NewEmailTemplateHandler(templateUsecase usecase.EmailTemplateUsecase, validator *validator.CustomValidator) *EmailTemplateHandler {
	return &EmailTemplateHandler{
		templateUsecase: templateUsecase,
		validator:       validator,
	}
}

// CreateTemplate handles email template creation
// @Summary Create email template
// @Description Create a new template version and make it the active one for its name
// @Tags EmailTemplates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEmailTemplateRequest true "Create Email Template Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /email-templates [post]
func (h *EmailTemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmailTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	template, err := h.templateUsecase.CreateTemplate(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create email template")
		return
	}

	response.Success(w, http.StatusCreated, "Email template created successfully", template)
}

// GetTemplate handles getting a single email template
// @Summary Get email template
// @Description Get an email template by ID
// @Tags EmailTemplates
// @Security BearerAuth
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /email-templates/{id} [get]
func (h *EmailTemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid template ID", nil)
		return
	}

	template, err := h.templateUsecase.GetTemplate(r.Context(), templateID)
	if err != nil {
		switch err {
		case usecase.ErrEmailTemplateNotFound:
			response.NotFound(w, "Email template not found")
		default:
			response.InternalServerError(w, "Failed to get email template")
		}
		return
	}

	response.Success(w, http.StatusOK, "Email template retrieved successfully", template)
}

// GetTemplates handles listing all email templates
// @Summary List email templates
// @Description Get all email template versions
// @Tags EmailTemplates
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /email-templates [get]
func (h *EmailTemplateHandler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateUsecase.GetAllTemplates(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get email templates")
		return
	}

	response.Success(w, http.StatusOK, "Email templates retrieved successfully", templates)
}

// UpdateTemplate handles updating an email template
// @Summary Update email template
// @Description Update subject or body of an email template
// @Tags EmailTemplates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.UpdateEmailTemplateRequest true "Update Email Template Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /email-templates/{id} [put]
func (h *EmailTemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid template ID", nil)
		return
	}

	var req dto.UpdateEmailTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	template, err := h.templateUsecase.UpdateTemplate(r.Context(), templateID, &req)
	if err != nil {
		switch err {
		case usecase.ErrEmailTemplateNotFound:
			response.NotFound(w, "Email template not found")
		default:
			response.InternalServerError(w, "Failed to update email template")
		}
		return
	}

	response.Success(w, http.StatusOK, "Email template updated successfully", template)
}

// ActivateTemplate handles switching the active version of a template name
// @Summary Activate email template
// @Description Make this version the active one for its name, deactivating the others
// @Tags EmailTemplates
// @Security BearerAuth
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /email-templates/{id}/activate [post]
func (h *EmailTemplateHandler) ActivateTemplate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	templateID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid template ID", nil)
		return
	}

	template, err := h.templateUsecase.ActivateTemplate(r.Context(), templateID)
	if err != nil {
		switch err {
		case usecase.ErrEmailTemplateNotFound:
			response.NotFound(w, "Email template not found")
		default:
			response.InternalServerError(w, "Failed to activate email template")
		}
		return
	}

	response.Success(w, http.StatusOK, "Email template activated successfully", template)
}
