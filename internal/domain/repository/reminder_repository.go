package repository

import (
	"time"

	"cosmetology-clinic-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderRepository interface {
	Create(db *gorm.DB, reminder *entity.Reminder) error
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.Reminder, error)

	// FindDue returns pending reminders whose trigger time has passed,
	// excluding reminders of cancelled appointments. Patient and
	// treatment data are preloaded for message rendering.
	FindDue(db *gorm.DB, now time.Time) ([]entity.Reminder, error)

	MarkSent(db *gorm.DB, id uuid.UUID, providerMessageID string, sentAt time.Time) error
	MarkFailed(db *gorm.DB, id uuid.UUID, errorMessage string) error
}
