package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID         uuid.UUID `json:"patient_id" validate:"required"`
	TreatmentID       uuid.UUID `json:"treatment_id" validate:"required"`
	ScheduledAt       string    `json:"scheduled_at" validate:"required"`
	DurationMinutes   int       `json:"duration_minutes" validate:"omitempty,min=5,max=480"`
	PreTreatmentNotes string    `json:"pre_treatment_notes"`
	Cost              string    `json:"cost" validate:"omitempty"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled no_show"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                uuid.UUID          `json:"id"`
	PatientID         uuid.UUID          `json:"patient_id"`
	TreatmentID       uuid.UUID          `json:"treatment_id"`
	ScheduledAt       time.Time          `json:"scheduled_at"`
	DurationMinutes   int                `json:"duration_minutes"`
	Status            string             `json:"status"`
	PreTreatmentNotes string             `json:"pre_treatment_notes,omitempty"`
	Cost              string             `json:"cost,omitempty"`
	Patient           *PatientResponse   `json:"patient,omitempty"`
	Treatment         *TreatmentResponse `json:"treatment,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
