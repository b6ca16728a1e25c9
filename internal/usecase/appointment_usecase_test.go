package usecase_test

import (
	"context"
	"testing"
	"time"

	"cosmetology-clinic-api/internal/delivery/dto"
	"cosmetology-clinic-api/internal/domain/entity"
	"cosmetology-clinic-api/internal/repository"
	"cosmetology-clinic-api/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newAppointmentUsecase(db *gorm.DB) usecase.AppointmentUsecase {
	return usecase.NewAppointmentUsecase(
		db,
		testLogger(),
		repository.NewAppointmentRepository(),
		repository.NewPatientRepository(),
		repository.NewTreatmentRepository(),
		repository.NewReminderRepository(),
		newAuditService(db),
	)
}

func TestCreateAppointmentSchedulesReminders(t *testing.T) {
	db := setupDB(t)
	uc := newAppointmentUsecase(db)

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Deep Cleansing Facial", 60)

	visit := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	result, err := uc.CreateAppointment(context.Background(), &dto.CreateAppointmentRequest{
		PatientID:   patient.ID,
		TreatmentID: treatment.ID,
		ScheduledAt: visit.Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if result.Status != string(entity.AppointmentStatusScheduled) {
		t.Errorf("status = %s, want scheduled", result.Status)
	}
	// Duration falls back to the treatment default.
	if result.DurationMinutes != 60 {
		t.Errorf("duration = %d, want treatment default 60", result.DurationMinutes)
	}

	var reminders []entity.Reminder
	if err := db.Where("appointment_id = ?", result.ID).Find(&reminders).Error; err != nil {
		t.Fatalf("load reminders: %v", err)
	}
	if len(reminders) != 3 {
		t.Fatalf("reminder rows = %d, want 24h, 2h and confirmation", len(reminders))
	}

	byKind := make(map[entity.ReminderKind]entity.Reminder, len(reminders))
	for _, r := range reminders {
		if r.Status != entity.ReminderStatusPending {
			t.Errorf("kind %s status = %s, want pending", r.Kind, r.Status)
		}
		byKind[r.Kind] = r
	}
	if got := byKind[entity.ReminderKind24Hour].TriggerAt; !got.Equal(visit.Add(-24 * time.Hour)) {
		t.Errorf("24h trigger = %v, want %v", got, visit.Add(-24*time.Hour))
	}
	if got := byKind[entity.ReminderKind2Hour].TriggerAt; !got.Equal(visit.Add(-2 * time.Hour)) {
		t.Errorf("2h trigger = %v, want %v", got, visit.Add(-2*time.Hour))
	}
	if got := byKind[entity.ReminderKindConfirmation].TriggerAt; got.After(time.Now().UTC()) {
		t.Errorf("confirmation trigger %v is in the future", got)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	db := setupDB(t)
	uc := newAppointmentUsecase(db)

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	future := time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339)

	tests := []struct {
		name    string
		req     *dto.CreateAppointmentRequest
		wantErr error
	}{
		{
			name: "malformed datetime",
			req: &dto.CreateAppointmentRequest{
				PatientID:   patient.ID,
				TreatmentID: treatment.ID,
				ScheduledAt: "2025-06-01 10:00",
			},
			wantErr: usecase.ErrInvalidDateTimeFormat,
		},
		{
			name: "past datetime",
			req: &dto.CreateAppointmentRequest{
				PatientID:   patient.ID,
				TreatmentID: treatment.ID,
				ScheduledAt: "2020-06-01T10:00:00Z",
			},
			wantErr: usecase.ErrAppointmentPast,
		},
		{
			name: "unknown patient",
			req: &dto.CreateAppointmentRequest{
				PatientID:   uuid.New(),
				TreatmentID: treatment.ID,
				ScheduledAt: future,
			},
			wantErr: usecase.ErrPatientNotFound,
		},
		{
			name: "unknown treatment",
			req: &dto.CreateAppointmentRequest{
				PatientID:   patient.ID,
				TreatmentID: uuid.New(),
				ScheduledAt: future,
			},
			wantErr: usecase.ErrTreatmentNotFound,
		},
		{
			name: "bad cost",
			req: &dto.CreateAppointmentRequest{
				PatientID:   patient.ID,
				TreatmentID: treatment.ID,
				ScheduledAt: future,
				Cost:        "12,50",
			},
			wantErr: usecase.ErrInvalidCostFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.CreateAppointment(context.Background(), tt.req); err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	db := setupDB(t)
	uc := newAppointmentUsecase(db)

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	visit := time.Now().UTC().Add(48 * time.Hour)
	appointment := createScheduledAppointment(t, db, patient, treatment, visit)
	reminder := createReminder(t, db, appointment.ID, entity.ReminderKind24Hour, visit.Add(-24*time.Hour))

	err := uc.UpdateStatus(context.Background(), appointment.ID, &dto.UpdateAppointmentStatusRequest{Status: "cancelled"})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	var stored entity.Appointment
	if err := db.First(&stored, "id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("load appointment: %v", err)
	}
	if stored.Status != entity.AppointmentStatusCancelled {
		t.Errorf("status = %s, want cancelled", stored.Status)
	}

	// Cancellation must not touch the reminder rows.
	if got := reminderByID(t, db, reminder.ID); got.Status != entity.ReminderStatusPending {
		t.Errorf("reminder status = %s, want pending", got.Status)
	}

	if err := uc.UpdateStatus(context.Background(), appointment.ID, &dto.UpdateAppointmentStatusRequest{Status: "postponed"}); err != usecase.ErrInvalidStatus {
		t.Errorf("invalid status: err = %v, want ErrInvalidStatus", err)
	}
	if err := uc.UpdateStatus(context.Background(), uuid.New(), &dto.UpdateAppointmentStatusRequest{Status: "completed"}); err != usecase.ErrAppointmentNotFound {
		t.Errorf("unknown id: err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestGetAppointmentsByRange(t *testing.T) {
	db := setupDB(t)
	uc := newAppointmentUsecase(db)

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	createScheduledAppointment(t, db, patient, treatment, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	createScheduledAppointment(t, db, patient, treatment, time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC))
	// End date is inclusive.
	createScheduledAppointment(t, db, patient, treatment, time.Date(2025, 6, 7, 23, 0, 0, 0, time.UTC))

	result, err := uc.GetAppointmentsByRange(context.Background(), "2025-06-01", "2025-06-07")
	if err != nil {
		t.Fatalf("GetAppointmentsByRange: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("total = %d, want 2", result.Total)
	}

	if _, err := uc.GetAppointmentsByRange(context.Background(), "01.06.2025", "2025-06-07"); err != usecase.ErrInvalidRangeFormat {
		t.Errorf("err = %v, want ErrInvalidRangeFormat", err)
	}
}
