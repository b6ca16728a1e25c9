package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateTreatmentRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=255"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=5,max=480"`
	Price           string `json:"price" validate:"required"`
}

type UpdateTreatmentRequest struct {
	Name            string `json:"name" validate:"omitempty,min=2,max=255"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=5,max=480"`
	Price           string `json:"price" validate:"omitempty"`
	IsActive        *bool  `json:"is_active"`
}

// Response DTOs

type TreatmentResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           string    `json:"price"`
	IsActive        *bool     `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type TreatmentListResponse struct {
	Treatments []TreatmentResponse `json:"treatments"`
	Total      int                 `json:"total"`
}
