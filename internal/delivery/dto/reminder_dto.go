package dto

import (
	"time"

	"github.com/google/uuid"
)

// Response DTOs

type ReminderResponse struct {
	ID                uuid.UUID  `json:"id"`
	AppointmentID     uuid.UUID  `json:"appointment_id"`
	Kind              string     `json:"kind"`
	TriggerAt         time.Time  `json:"trigger_at"`
	Status            string     `json:"status"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	ProviderMessageID string     `json:"provider_message_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type ReminderListResponse struct {
	Reminders []ReminderResponse `json:"reminders"`
	Total     int                `json:"total"`
}

// SweepResponse reports one automatic sweep run
type SweepResponse struct {
	Message       string      `json:"message"`
	SentReminders []uuid.UUID `json:"sent_reminders"`
	FailedCount   int         `json:"failed_count"`
	SkippedCount  int         `json:"skipped_count"`
}

// ManualResendResponse reports one operator-initiated resend
type ManualResendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	SentTo  string `json:"sent_to,omitempty"`
}

// BackfillCreated lists the reminder kinds created for one appointment
type BackfillCreated struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Kinds         []string  `json:"kinds"`
}

// BackfillResponse reports one backfill repair run
type BackfillResponse struct {
	Message      string            `json:"message"`
	TotalCreated int               `json:"total_created"`
	Created      []BackfillCreated `json:"created"`
}
