package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cosmetology-clinic-api/internal/converter"
	"cosmetology-clinic-api/internal/delivery/dto"
	"cosmetology-clinic-api/internal/domain/entity"
	"cosmetology-clinic-api/internal/domain/repository"
	"cosmetology-clinic-api/internal/service"
	templatepkg "cosmetology-clinic-api/pkg/template"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound     = errors.New("no active email template for this reminder kind")
	ErrInvalidReminderKind  = errors.New("unknown reminder kind")
	ErrAppointmentCancelled = errors.New("appointment is cancelled")
)

type ReminderUsecase interface {
	// ProcessDue runs one sweep: select due reminders, render, dispatch
	// and persist the outcome of each. The current time is passed
	// explicitly so sweeps are deterministic and testable.
	ProcessDue(ctx context.Context, now time.Time) (*dto.SweepResponse, error)

	// Resend sends a reminder of the given kind for one appointment
	// immediately and records a fresh reminder row with the outcome,
	// regardless of existing rows for that appointment and kind.
	Resend(ctx context.Context, appointmentID uuid.UUID, kind entity.ReminderKind) (*dto.ManualResendResponse, error)

	// Backfill creates missing pending reminder rows for scheduled
	// appointments. Idempotent: kinds that already have any row are
	// never duplicated.
	Backfill(ctx context.Context, now time.Time) (*dto.BackfillResponse, error)

	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.ReminderListResponse, error)
}

type reminderUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	reminderRepo    repository.ReminderRepository
	appointmentRepo repository.AppointmentRepository
	templateRepo    repository.EmailTemplateRepository
	mailer          service.Mailer
	backfillWindow  time.Duration
}

func NewReminderUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reminderRepo repository.ReminderRepository,
	appointmentRepo repository.AppointmentRepository,
	templateRepo repository.EmailTemplateRepository,
	mailer service.Mailer,
	backfillWindow time.Duration,
) ReminderUsecase {
	return &reminderUsecase{
		db:              db,
		log:             log,
		reminderRepo:    reminderRepo,
		appointmentRepo: appointmentRepo,
		templateRepo:    templateRepo,
		mailer:          mailer,
		backfillWindow:  backfillWindow,
	}
}

// ProcessDue processes each due reminder to completion before moving to
// the next. A failed delivery marks that reminder failed and the batch
// continues; a missing template leaves the reminder pending for the
// next sweep. Only a failed selection aborts the whole sweep.
func (u *reminderUsecase) ProcessDue(ctx context.Context, now time.Time) (*dto.SweepResponse, error) {
	due, err := u.reminderRepo.FindDue(u.db.WithContext(ctx), now)
	if err != nil {
		u.log.Errorf("Failed to select due reminders: %+v", err)
		return nil, err
	}

	sent := make([]uuid.UUID, 0, len(due))
	failed := 0
	skipped := 0

	for i := range due {
		reminder := &due[i]

		msg, err := u.renderReminder(ctx, reminder.Kind, &reminder.Appointment)
		if err != nil {
			if errors.Is(err, ErrTemplateNotFound) {
				// Stays pending, picked up again once a template exists.
				u.log.Warnf("No active template for kind %s, skipping reminder %s", reminder.Kind, reminder.ID)
				skipped++
				continue
			}
			u.log.Warnf("Failed to render reminder %s: %+v", reminder.ID, err)
			skipped++
			continue
		}

		providerID, err := u.mailer.Send(ctx, msg)
		if err != nil {
			failed++
			if markErr := u.reminderRepo.MarkFailed(u.db.WithContext(ctx), reminder.ID, err.Error()); markErr != nil {
				u.log.Errorf("Failed to mark reminder %s failed: %+v", reminder.ID, markErr)
			}
			continue
		}

		// A crash between the send above and this write means the next
		// sweep re-selects and re-sends: accepted at-least-once semantics.
		if markErr := u.reminderRepo.MarkSent(u.db.WithContext(ctx), reminder.ID, providerID, now); markErr != nil {
			u.log.Errorf("Failed to mark reminder %s sent (delivery succeeded, provider_id=%s): %+v", reminder.ID, providerID, markErr)
			continue
		}
		sent = append(sent, reminder.ID)
	}

	if len(due) > 0 {
		u.log.Infof("Reminder sweep: %d due, %d sent, %d failed, %d skipped", len(due), len(sent), failed, skipped)
	}

	return &dto.SweepResponse{
		Message:       fmt.Sprintf("Processed %d due reminders", len(due)),
		SentReminders: sent,
		FailedCount:   failed,
		SkippedCount:  skipped,
	}, nil
}

func (u *reminderUsecase) Resend(ctx context.Context, appointmentID uuid.UUID, kind entity.ReminderKind) (*dto.ManualResendResponse, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidReminderKind
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.IsCancelled() {
		return nil, ErrAppointmentCancelled
	}

	msg, err := u.renderReminder(ctx, kind, appointment)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	providerID, sendErr := u.mailer.Send(ctx, msg)

	// A fresh row is recorded either way, so every manual attempt is
	// visible in the reminder history.
	reminder := &entity.Reminder{
		AppointmentID: appointment.ID,
		Kind:          kind,
		TriggerAt:     now,
	}
	if sendErr != nil {
		reminder.Status = entity.ReminderStatusFailed
		reminder.ErrorMessage = sendErr.Error()
	} else {
		reminder.Status = entity.ReminderStatusSent
		reminder.SentAt = &now
		reminder.ProviderMessageID = providerID
	}

	if err := u.reminderRepo.Create(u.db.WithContext(ctx), reminder); err != nil {
		u.log.Errorf("Failed to record manual reminder for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	if sendErr != nil {
		return &dto.ManualResendResponse{
			Success: false,
			Message: sendErr.Error(),
		}, nil
	}

	u.log.Infof("Manual reminder sent: appointment=%s, kind=%s, to=%s", appointmentID, kind, appointment.Patient.Email)
	return &dto.ManualResendResponse{
		Success: true,
		Message: fmt.Sprintf("Reminder %s sent", kind),
		SentTo:  appointment.Patient.Email,
	}, nil
}

func (u *reminderUsecase) Backfill(ctx context.Context, now time.Time) (*dto.BackfillResponse, error) {
	since := now.Add(-u.backfillWindow)
	appointments, err := u.appointmentRepo.FindScheduledSince(u.db.WithContext(ctx), since)
	if err != nil {
		u.log.Errorf("Failed to scan appointments for backfill: %+v", err)
		return nil, err
	}

	expected := []entity.ReminderKind{
		entity.ReminderKind24Hour,
		entity.ReminderKind2Hour,
		entity.ReminderKindConfirmation,
	}

	created := make([]dto.BackfillCreated, 0)
	total := 0

	for i := range appointments {
		appointment := &appointments[i]

		existing := make(map[entity.ReminderKind]bool, len(appointment.Reminders))
		for _, r := range appointment.Reminders {
			existing[r.Kind] = true
		}

		var kinds []string
		for _, kind := range expected {
			if existing[kind] {
				continue
			}

			triggerAt := now
			if offset := kind.Offset(); offset > 0 {
				triggerAt = appointment.ScheduledAt.Add(-offset)
			}

			reminder := &entity.Reminder{
				AppointmentID: appointment.ID,
				Kind:          kind,
				TriggerAt:     triggerAt,
				Status:        entity.ReminderStatusPending,
			}
			if err := u.reminderRepo.Create(u.db.WithContext(ctx), reminder); err != nil {
				u.log.Errorf("Failed to backfill reminder %s for appointment %s: %+v", kind, appointment.ID, err)
				return nil, err
			}
			kinds = append(kinds, string(kind))
			total++
		}

		if len(kinds) > 0 {
			created = append(created, dto.BackfillCreated{
				AppointmentID: appointment.ID,
				Kinds:         kinds,
			})
		}
	}

	u.log.Infof("Reminder backfill: %d appointments scanned, %d reminders created", len(appointments), total)

	return &dto.BackfillResponse{
		Message:      fmt.Sprintf("Created %d reminders for %d appointments", total, len(created)),
		TotalCreated: total,
		Created:      created,
	}, nil
}

func (u *reminderUsecase) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.ReminderListResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	reminders, err := u.reminderRepo.FindByAppointmentID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to list reminders for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	return &dto.ReminderListResponse{
		Reminders: converter.RemindersToResponses(reminders),
		Total:     len(reminders),
	}, nil
}

// renderReminder fetches the active template for the kind and renders
// subject, HTML and text bodies against the appointment data. Returns
// ErrTemplateNotFound when no active template matches the kind.
func (u *reminderUsecase) renderReminder(ctx context.Context, kind entity.ReminderKind, appointment *entity.Appointment) (*service.EmailMessage, error) {
	tmpl, err := u.templateRepo.FindActiveByName(u.db.WithContext(ctx), kind.TemplateName())
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	data := templateData(appointment)
	rendered := templatepkg.RenderAll(tmpl.Subject, tmpl.BodyHTML, tmpl.BodyText, data)

	return &service.EmailMessage{
		To:      appointment.Patient.Email,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
	}, nil
}

// templateData pre-formats appointment fields into the strings the
// templates substitute. Dates render as day month year, times as HH:MM;
// the renderer itself does no formatting.
func templateData(appointment *entity.Appointment) map[string]string {
	return map[string]string{
		"patient_name":        appointment.Patient.FullName,
		"patient_email":       appointment.Patient.Email,
		"treatment_name":      appointment.Treatment.Name,
		"appointment_date":    appointment.ScheduledAt.Format("2 January 2006"),
		"appointment_time":    appointment.ScheduledAt.Format("15:04"),
		"duration_minutes":    strconv.Itoa(appointment.DurationMinutes),
		"pre_treatment_notes": appointment.PreTreatmentNotes,
	}
}
