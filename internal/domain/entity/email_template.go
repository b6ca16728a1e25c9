package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template names used by the reminder pipeline
const (
	TemplateReminder24h             = "reminder_24h"
	TemplateReminder2h              = "reminder_2h"
	TemplateAppointmentConfirmation = "appointment_confirmation"
)

// EmailTemplate is a named pair of rendering bodies plus a subject
// line. At most one active template may exist per name at dispatch
// time; rows of the same name form a version history.
type EmailTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Subject   string    `gorm:"type:varchar(255);not null" json:"subject"`
	BodyHTML  string    `gorm:"type:text;not null" json:"body_html"`
	BodyText  string    `gorm:"type:text" json:"body_text,omitempty"`
	IsActive  *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EmailTemplate) TableName() string {
	return "email_templates"
}

func (t *EmailTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
