package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderKind identifies which notification a reminder row stands for
type ReminderKind string

const (
	ReminderKind24Hour       ReminderKind = "24h"
	ReminderKind2Hour        ReminderKind = "2h"
	ReminderKindConfirmation ReminderKind = "confirmation"
)

// ReminderStatus represents the lifecycle status of a reminder
type ReminderStatus string

const (
	ReminderStatusPending ReminderStatus = "pending"
	ReminderStatusSent    ReminderStatus = "sent"
	ReminderStatusFailed  ReminderStatus = "failed"
)

// Offset returns how long before the appointment a reminder of the
// given kind fires. Confirmation reminders have no offset: they trigger
// at creation time.
func (k ReminderKind) Offset() time.Duration {
	switch k {
	case ReminderKind24Hour:
		return 24 * time.Hour
	case ReminderKind2Hour:
		return 2 * time.Hour
	default:
		return 0
	}
}

// TemplateName maps a reminder kind to its email template name
func (k ReminderKind) TemplateName() string {
	switch k {
	case ReminderKind24Hour:
		return TemplateReminder24h
	case ReminderKind2Hour:
		return TemplateReminder2h
	case ReminderKindConfirmation:
		return TemplateAppointmentConfirmation
	default:
		return ""
	}
}

// IsValid reports whether the kind is one of the known reminder kinds
func (k ReminderKind) IsValid() bool {
	switch k {
	case ReminderKind24Hour, ReminderKind2Hour, ReminderKindConfirmation:
		return true
	}
	return false
}

// ScheduledKinds are the kinds created automatically when an
// appointment is booked.
var ScheduledKinds = []ReminderKind{ReminderKind24Hour, ReminderKind2Hour}

// Reminder represents one notification obligation tied to exactly one
// appointment. A row moves from pending to exactly one of sent or
// failed and is never reprocessed automatically once terminal.
type Reminder struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"appointment_id"`
	Kind              ReminderKind   `gorm:"type:varchar(20);not null;index" json:"kind"`
	TriggerAt         time.Time      `gorm:"not null;index" json:"trigger_at"`
	Status            ReminderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SentAt            *time.Time     `json:"sent_at,omitempty"`
	ErrorMessage      string         `gorm:"type:text" json:"error_message,omitempty"`
	ProviderMessageID string         `gorm:"type:varchar(255)" json:"provider_message_id,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (Reminder) TableName() string {
	return "reminders"
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsPending checks if the reminder has not yet reached a terminal state
func (r *Reminder) IsPending() bool {
	return r.Status == ReminderStatusPending
}
