package usecase

import (
	"context"
	"errors"
	"time"

	"cosmetology-clinic-api/internal/converter"
	"cosmetology-clinic-api/internal/delivery/dto"
	"cosmetology-clinic-api/internal/domain/entity"
	"cosmetology-clinic-api/internal/domain/repository"
	"cosmetology-clinic-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrAppointmentPast       = errors.New("cannot book an appointment in the past")
	ErrInvalidDateTimeFormat = errors.New("invalid datetime format, use RFC 3339")
	ErrInvalidRangeFormat    = errors.New("invalid date range, use YYYY-MM-DD")
	ErrInvalidCostFormat     = errors.New("invalid cost format")
	ErrInvalidStatus         = errors.New("invalid appointment status")
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointmentsByRange(ctx context.Context, startAt, endAt string) (*dto.AppointmentListResponse, error)
	GetAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	treatmentRepo   repository.TreatmentRepository
	reminderRepo    repository.ReminderRepository
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	treatmentRepo repository.TreatmentRepository,
	reminderRepo repository.ReminderRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		treatmentRepo:   treatmentRepo,
		reminderRepo:    reminderRepo,
		auditService:    auditService,
	}
}

// CreateAppointment books a visit and creates its reminder rows in one
// transaction: a pending 24h and 2h reminder offset from the visit
// time, and a pending confirmation reminder triggered immediately, so
// the next sweep delivers the booking confirmation.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return nil, ErrInvalidDateTimeFormat
	}
	if scheduledAt.Before(time.Now()) {
		return nil, ErrAppointmentPast
	}

	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	treatment, err := u.treatmentRepo.FindByID(u.db.WithContext(ctx), req.TreatmentID)
	if err != nil {
		u.log.Warnf("Failed to find treatment %s: %+v", req.TreatmentID, err)
		return nil, err
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = treatment.DurationMinutes
	}

	var cost *decimal.Decimal
	if req.Cost != "" {
		parsed, err := decimal.NewFromString(req.Cost)
		if err != nil {
			return nil, ErrInvalidCostFormat
		}
		cost = &parsed
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment := &entity.Appointment{
		PatientID:         req.PatientID,
		TreatmentID:       req.TreatmentID,
		ScheduledAt:       scheduledAt,
		DurationMinutes:   duration,
		Status:            entity.AppointmentStatusScheduled,
		PreTreatmentNotes: req.PreTreatmentNotes,
		Cost:              cost,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	now := time.Now().UTC()
	for _, kind := range entity.ScheduledKinds {
		reminder := &entity.Reminder{
			AppointmentID: appointment.ID,
			Kind:          kind,
			TriggerAt:     scheduledAt.Add(-kind.Offset()),
			Status:        entity.ReminderStatusPending,
		}
		if err := u.reminderRepo.Create(tx, reminder); err != nil {
			u.log.Warnf("Failed to create %s reminder: %+v", kind, err)
			return nil, err
		}
	}

	confirmation := &entity.Reminder{
		AppointmentID: appointment.ID,
		Kind:          entity.ReminderKindConfirmation,
		TriggerAt:     now,
		Status:        entity.ReminderStatusPending,
	}
	if err := u.reminderRepo.Create(tx, confirmation); err != nil {
		u.log.Warnf("Failed to create confirmation reminder: %+v", err)
		return nil, err
	}

	// Audit failures do not abort the booking
	if err := u.auditService.LogCreate(ctx, tx, auditActor(ctx), entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment created: id=%s, patient=%s, at=%s", appointment.ID, req.PatientID, scheduledAt)

	appointment.Patient = *patient
	appointment.Treatment = *treatment
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointmentsByRange(ctx context.Context, startAt, endAt string) (*dto.AppointmentListResponse, error) {
	from, err := time.Parse("2006-01-02", startAt)
	if err != nil {
		return nil, ErrInvalidRangeFormat
	}
	until, err := time.Parse("2006-01-02", endAt)
	if err != nil {
		return nil, ErrInvalidRangeFormat
	}
	// End date is inclusive for the calendar view
	until = until.Add(24 * time.Hour)

	appointments, err := u.appointmentRepo.FindByRange(u.db.WithContext(ctx), from, until)
	if err != nil {
		u.log.Warnf("Failed to find appointments in range: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateStatus changes the appointment status. Cancellation leaves the
// reminder rows untouched: the selector filters reminders of cancelled
// appointments, so stale rows are never dispatched.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) error {
	status := entity.AppointmentStatus(req.Status)
	switch status {
	case entity.AppointmentStatusScheduled, entity.AppointmentStatusCompleted,
		entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow:
	default:
		return ErrInvalidStatus
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	oldStatus := appointment.Status

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.appointmentRepo.UpdateStatus(tx, id, status); err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", id, err)
		return err
	}

	if err := u.auditService.LogUpdate(ctx, tx, auditActor(ctx), entity.AuditActionAppointmentStatus, "appointment", id.String(), string(oldStatus), string(status)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Appointment %s status changed to %s", id, status)
	return nil
}
