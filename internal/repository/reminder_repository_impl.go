package repository

import (
	"time"

	"cosmetology-clinic-api/internal/domain/entity"
	domainRepo "cosmetology-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reminderRepository struct{}

func NewReminderRepository() domainRepo.ReminderRepository {
	return &reminderRepository{}
}

func (r *reminderRepository) Create(db *gorm.DB, reminder *entity.Reminder) error {
	return db.Create(reminder).Error
}

func (r *reminderRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	err := db.Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

// FindDue selects pending reminders whose trigger time has passed.
// Reminders of cancelled appointments are excluded here: the reminder
// row does not auto-update when its parent appointment is cancelled,
// so stale rows must be filtered at selection time.
func (r *reminderRepository) FindDue(db *gorm.DB, now time.Time) ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	err := db.Preload("Appointment.Patient").Preload("Appointment.Treatment").
		Joins("JOIN appointments ON appointments.id = reminders.appointment_id").
		Where("reminders.status = ?", entity.ReminderStatusPending).
		Where("reminders.trigger_at <= ?", now).
		Where("appointments.status != ?", entity.AppointmentStatusCancelled).
		Order("reminders.trigger_at ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *reminderRepository) MarkSent(db *gorm.DB, id uuid.UUID, providerMessageID string, sentAt time.Time) error {
	return db.Model(&entity.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              entity.ReminderStatusSent,
			"sent_at":             sentAt,
			"provider_message_id": providerMessageID,
			"error_message":       "",
		}).Error
}

func (r *reminderRepository) MarkFailed(db *gorm.DB, id uuid.UUID, errorMessage string) error {
	return db.Model(&entity.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        entity.ReminderStatusFailed,
			"error_message": errorMessage,
		}).Error
}
