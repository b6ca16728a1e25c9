package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateEmailTemplateRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Subject  string `json:"subject" validate:"required,max=255"`
	BodyHTML string `json:"body_html" validate:"required"`
	BodyText string `json:"body_text"`
}

type UpdateEmailTemplateRequest struct {
	Subject  string `json:"subject" validate:"omitempty,max=255"`
	BodyHTML string `json:"body_html"`
	BodyText string `json:"body_text"`
}

// Response DTOs

type EmailTemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	BodyHTML  string    `json:"body_html"`
	BodyText  string    `json:"body_text,omitempty"`
	IsActive  *bool     `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EmailTemplateListResponse struct {
	Templates []EmailTemplateResponse `json:"templates"`
	Total     int                     `json:"total"`
}
