package converter

import (
	"cosmetology-clinic-api/internal/delivery/dto"
	"cosmetology-clinic-api/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:                appointment.ID,
		PatientID:         appointment.PatientID,
		TreatmentID:       appointment.TreatmentID,
		ScheduledAt:       appointment.ScheduledAt,
		DurationMinutes:   appointment.DurationMinutes,
		Status:            string(appointment.Status),
		PreTreatmentNotes: appointment.PreTreatmentNotes,
		CreatedAt:         appointment.CreatedAt,
		UpdatedAt:         appointment.UpdatedAt,
	}

	if appointment.Cost != nil {
		response.Cost = appointment.Cost.StringFixed(2)
	}

	// Include related records if preloaded
	if appointment.Patient.ID != uuid.Nil {
		response.Patient = PatientToResponse(&appointment.Patient)
	}
	if appointment.Treatment.ID != uuid.Nil {
		response.Treatment = TreatmentToResponse(&appointment.Treatment)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
