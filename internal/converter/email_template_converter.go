package converter

import (
	"cosmetology-clinic-api/internal/delivery/dto"
	"cosmetology-clinic-api/internal/domain/entity"
)

// EmailTemplateToResponse converts an EmailTemplate entity to its DTO
func EmailTemplateToResponse(template *entity.EmailTemplate) *dto.EmailTemplateResponse {
	if template == nil {
		return nil
	}

	return &dto.EmailTemplateResponse{
		ID:        template.ID,
		Name:      template.Name,
		Subject:   template.Subject,
		BodyHTML:  template.BodyHTML,
		BodyText:  template.BodyText,
		IsActive:  template.IsActive,
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}
}

// EmailTemplatesToResponses converts a slice of EmailTemplate entities to DTOs
func EmailTemplatesToResponses(templates []entity.EmailTemplate) []dto.EmailTemplateResponse {
	responses := make([]dto.EmailTemplateResponse, len(templates))
	for i, template := range templates {
		resp := EmailTemplateToResponse(&template)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
