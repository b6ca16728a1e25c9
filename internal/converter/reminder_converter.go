package converter

import (
	"cosmetology-clinic-api/internal/delivery/dto"
	"cosmetology-clinic-api/internal/domain/entity"
)

// ReminderToResponse converts a Reminder entity to ReminderResponse DTO
func ReminderToResponse(reminder *entity.Reminder) *dto.ReminderResponse {
	if reminder == nil {
		return nil
	}

	return &dto.ReminderResponse{
		ID:                reminder.ID,
		AppointmentID:     reminder.AppointmentID,
		Kind:              string(reminder.Kind),
		TriggerAt:         reminder.TriggerAt,
		Status:            string(reminder.Status),
		SentAt:            reminder.SentAt,
		ErrorMessage:      reminder.ErrorMessage,
		ProviderMessageID: reminder.ProviderMessageID,
		CreatedAt:         reminder.CreatedAt,
		UpdatedAt:         reminder.UpdatedAt,
	}
}

// RemindersToResponses converts a slice of Reminder entities to DTOs
func RemindersToResponses(reminders []entity.Reminder) []dto.ReminderResponse {
	responses := make([]dto.ReminderResponse, len(reminders))
	for i, reminder := range reminders {
		resp := ReminderToResponse(&reminder)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
