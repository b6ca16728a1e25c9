package repository

import (
	"time"

	"cosmetology-clinic-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByRange(db *gorm.DB, from, to time.Time) ([]entity.Appointment, error)

	// FindScheduledSince returns non-cancelled scheduled appointments
	// starting at or after the given time, reminders preloaded. Used by
	// the backfill repair.
	FindScheduledSince(db *gorm.DB, since time.Time) ([]entity.Appointment, error)

	// UpdateStatus atomically updates the status of an appointment.
	// Returns affected rows: 0 means the appointment does not exist.
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
}
