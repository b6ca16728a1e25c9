package usecase_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"cosmetology-clinic-api/internal/domain/entity"
	"cosmetology-clinic-api/internal/repository"
	"cosmetology-clinic-api/internal/service"
	"cosmetology-clinic-api/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeMailer records every send and fails deliveries to addresses
// listed in failWith.
type fakeMailer struct {
	sent     []*service.EmailMessage
	failWith map[string]string
	nextID   int
}

func (m *fakeMailer) Send(ctx context.Context, msg *service.EmailMessage) (string, error) {
	if reason, ok := m.failWith[msg.To]; ok {
		return "", &service.DeliveryError{Reason: reason}
	}
	m.sent = append(m.sent, msg)
	m.nextID++
	return fmt.Sprintf("msg-%d", m.nextID), nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Patient{},
		&entity.Treatment{},
		&entity.Appointment{},
		&entity.Reminder{},
		&entity.EmailTemplate{},
		&entity.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAuditService(db *gorm.DB) service.AuditService {
	return service.NewAuditService(db, testLogger(), repository.NewAuditLogRepository())
}

func newReminderUsecase(db *gorm.DB, mailer service.Mailer) usecase.ReminderUsecase {
	return usecase.NewReminderUsecase(
		db,
		testLogger(),
		repository.NewReminderRepository(),
		repository.NewAppointmentRepository(),
		repository.NewEmailTemplateRepository(),
		mailer,
		24*time.Hour,
	)
}

func boolPtr(b bool) *bool { return &b }

func createPatient(t *testing.T, db *gorm.DB, name, email string) *entity.Patient {
	t.Helper()
	patient := &entity.Patient{
		FullName: name,
		Email:    email,
	}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return patient
}

func createTreatment(t *testing.T, db *gorm.DB, name string, minutes int) *entity.Treatment {
	t.Helper()
	treatment := &entity.Treatment{
		Name:            name,
		DurationMinutes: minutes,
		Price:           decimal.NewFromInt(120),
		IsActive:        boolPtr(true),
	}
	if err := db.Create(treatment).Error; err != nil {
		t.Fatalf("create treatment: %v", err)
	}
	return treatment
}

func createScheduledAppointment(t *testing.T, db *gorm.DB, patient *entity.Patient, treatment *entity.Treatment, at time.Time) *entity.Appointment {
	t.Helper()
	appointment := &entity.Appointment{
		PatientID:       patient.ID,
		TreatmentID:     treatment.ID,
		ScheduledAt:     at,
		DurationMinutes: treatment.DurationMinutes,
		Status:          entity.AppointmentStatusScheduled,
	}
	if err := db.Create(appointment).Error; err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return appointment
}

func createReminder(t *testing.T, db *gorm.DB, appointmentID uuid.UUID, kind entity.ReminderKind, triggerAt time.Time) *entity.Reminder {
	t.Helper()
	reminder := &entity.Reminder{
		AppointmentID: appointmentID,
		Kind:          kind,
		TriggerAt:     triggerAt,
		Status:        entity.ReminderStatusPending,
	}
	if err := db.Create(reminder).Error; err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	return reminder
}

func createTemplates(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, name := range []string{
		entity.TemplateReminder24h,
		entity.TemplateReminder2h,
		entity.TemplateAppointmentConfirmation,
	} {
		template := &entity.EmailTemplate{
			Name:     name,
			Subject:  "Your {{treatment_name}} on {{appointment_date}}",
			BodyHTML: "<p>Dear {{patient_name}}, see you at {{appointment_time}}.</p>{{#if pre_treatment_notes}}<p>Note: {{pre_treatment_notes}}</p>{{/if}}",
			BodyText: "Dear {{patient_name}}, see you at {{appointment_time}}.",
			IsActive: boolPtr(true),
		}
		if err := db.Create(template).Error; err != nil {
			t.Fatalf("create template %s: %v", name, err)
		}
	}
}

func reminderByID(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Reminder {
	t.Helper()
	var reminder entity.Reminder
	if err := db.First(&reminder, "id = ?", id).Error; err != nil {
		t.Fatalf("load reminder: %v", err)
	}
	return &reminder
}

func TestProcessDueSendsDueReminder(t *testing.T) {
	db := setupDB(t)
	createTemplates(t, db)
	mailer := &fakeMailer{}
	uc := newReminderUsecase(db, mailer)

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Deep Cleansing Facial", 60)
	visit := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	appointment := createScheduledAppointment(t, db, patient, treatment, visit)
	due := createReminder(t, db, appointment.ID, entity.ReminderKind24Hour, visit.Add(-24*time.Hour))
	// Not yet due, must be left alone.
	notDue := createReminder(t, db, appointment.ID, entity.ReminderKind2Hour, visit.Add(-2*time.Hour))

	now := time.Date(2025, 5, 31, 10, 1, 0, 0, time.UTC)
	result, err := uc.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue: %v", err)
	}

	if len(result.SentReminders) != 1 || result.SentReminders[0] != due.ID {
		t.Fatalf("expected exactly the due reminder sent, got %v", result.SentReminders)
	}
	if result.FailedCount != 0 || result.SkippedCount != 0 {
		t.Fatalf("unexpected failures: %+v", result)
	}

	stored := reminderByID(t, db, due.ID)
	if stored.Status != entity.ReminderStatusSent {
		t.Errorf("status = %s, want sent", stored.Status)
	}
	if stored.SentAt == nil || !stored.SentAt.Equal(now) {
		t.Errorf("sent_at = %v, want %v", stored.SentAt, now)
	}
	if stored.ProviderMessageID != "msg-1" {
		t.Errorf("provider message id = %q, want %q", stored.ProviderMessageID, "msg-1")
	}

	if got := reminderByID(t, db, notDue.ID); got.Status != entity.ReminderStatusPending {
		t.Errorf("future reminder status = %s, want pending", got.Status)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To != "anna@example.com" {
		t.Errorf("to = %s", msg.To)
	}
	if want := "Your Deep Cleansing Facial on 1 June 2025"; msg.Subject != want {
		t.Errorf("subject = %q, want %q", msg.Subject, want)
	}
	if !strings.Contains(msg.HTML, "Dear Anna Kowalska") {
		t.Errorf("html missing patient name: %q", msg.HTML)
	}
	if strings.Contains(msg.HTML, "{{") {
		t.Errorf("html contains unresolved placeholder: %q", msg.HTML)
	}
	// No notes on the appointment, so the conditional block drops out.
	if strings.Contains(msg.HTML, "Note:") {
		t.Errorf("empty conditional rendered: %q", msg.HTML)
	}
}

func TestProcessDueFailureIsolatesBatch(t *testing.T) {
	db := setupDB(t)
	createTemplates(t, db)
	mailer := &fakeMailer{failWith: map[string]string{"bad@example.com": "invalid recipient"}}
	uc := newReminderUsecase(db, mailer)

	treatment := createTreatment(t, db, "Peeling", 30)
	visit := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	good := createPatient(t, db, "Maria Nowak", "maria@example.com")
	goodAppt := createScheduledAppointment(t, db, good, treatment, visit)
	goodReminder := createReminder(t, db, goodAppt.ID, entity.ReminderKind24Hour, visit.Add(-24*time.Hour))

	bad := createPatient(t, db, "Jan Kowalski", "bad@example.com")
	badAppt := createScheduledAppointment(t, db, bad, treatment, visit)
	badReminder := createReminder(t, db, badAppt.ID, entity.ReminderKind24Hour, visit.Add(-24*time.Hour))

	now := time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)
	result, err := uc.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue: %v", err)
	}

	if len(result.SentReminders) != 1 || result.SentReminders[0] != goodReminder.ID {
		t.Fatalf("sent = %v, want only the deliverable reminder", result.SentReminders)
	}
	if result.FailedCount != 1 {
		t.Fatalf("failed = %d, want 1", result.FailedCount)
	}

	failed := reminderByID(t, db, badReminder.ID)
	if failed.Status != entity.ReminderStatusFailed {
		t.Errorf("status = %s, want failed", failed.Status)
	}
	if failed.ErrorMessage != "invalid recipient" {
		t.Errorf("error_message = %q, want provider reason verbatim", failed.ErrorMessage)
	}
	if failed.SentAt != nil {
		t.Errorf("failed reminder has sent_at set")
	}
}

func TestProcessDueSkipsCancelledAppointments(t *testing.T) {
	db := setupDB(t)
	createTemplates(t, db)
	mailer := &fakeMailer{}
	uc := newReminderUsecase(db, mailer)

	patient := createPatient(t, db, "Eva Novak", "eva@example.com")
	treatment := createTreatment(t, db, "Laser Therapy", 45)
	visit := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	appointment := createScheduledAppointment(t, db, patient, treatment, visit)
	reminder := createReminder(t, db, appointment.ID, entity.ReminderKind24Hour, visit.Add(-24*time.Hour))

	if err := db.Model(&entity.Appointment{}).Where("id = ?", appointment.ID).
		Update("status", entity.AppointmentStatusCancelled).Error; err != nil {
		t.Fatalf("cancel: %v", err)
	}

	result, err := uc.ProcessDue(context.Background(), visit)
	if err != nil {
		t.Fatalf("ProcessDue: %v", err)
	}
	if len(result.SentReminders) != 0 || len(mailer.sent) != 0 {
		t.Fatalf("cancelled appointment reminder was dispatched: %+v", result)
	}

	// The row itself stays pending, it is only filtered at selection.
	if got := reminderByID(t, db, reminder.ID); got.Status != entity.ReminderStatusPending {
		t.Errorf("status = %s, want pending", got.Status)
	}
}

func TestProcessDueMissingTemplateLeavesPending(t *testing.T) {
	db := setupDB(t)
	// No templates seeded.
	mailer := &fakeMailer{}
	uc := newReminderUsecase(db, mailer)

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	visit := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	appointment := createScheduledAppointment(t, db, patient, treatment, visit)
	reminder := createReminder(t, db, appointment.ID, entity.ReminderKind24Hour, visit.Add(-24*time.Hour))

	result, err := uc.ProcessDue(context.Background(), visit)
	if err != nil {
		t.Fatalf("ProcessDue: %v", err)
	}
	if result.SkippedCount != 1 || result.FailedCount != 0 {
		t.Fatalf("result = %+v, want 1 skipped", result)
	}
	if got := reminderByID(t, db, reminder.ID); got.Status != entity.ReminderStatusPending {
		t.Errorf("status = %s, want pending for next sweep", got.Status)
	}
}

func TestProcessDueTerminalRowsNotReprocessed(t *testing.T) {
	db := setupDB(t)
	createTemplates(t, db)
	mailer := &fakeMailer{}
	uc := newReminderUsecase(db, mailer)

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	visit := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	appointment := createScheduledAppointment(t, db, patient, treatment, visit)
	createReminder(t, db, appointment.ID, entity.ReminderKind24Hour, visit.Add(-24*time.Hour))

	now := time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)
	if _, err := uc.ProcessDue(context.Background(), now); err != nil {
		t.Fatalf("first sweep: %v", err)
	}

	second, err := uc.ProcessDue(context.Background(), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if len(second.SentReminders) != 0 {
		t.Fatalf("sent rows were reprocessed: %v", second.SentReminders)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d emails across two sweeps, want 1", len(mailer.sent))
	}
}

func TestResendCreatesFreshRow(t *testing.T) {
	db := setupDB(t)
	createTemplates(t, db)
	mailer := &fakeMailer{}
	uc := newReminderUsecase(db, mailer)

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	visit := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	appointment := createScheduledAppointment(t, db, patient, treatment, visit)

	// An already sent confirmation must not block a manual resend.
	sentAt := time.Now().UTC()
	first := &entity.Reminder{
		AppointmentID: appointment.ID,
		Kind:          entity.ReminderKindConfirmation,
		TriggerAt:     sentAt,
		Status:        entity.ReminderStatusSent,
		SentAt:        &sentAt,
	}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("seed sent reminder: %v", err)
	}

	result, err := uc.Resend(context.Background(), appointment.ID, entity.ReminderKindConfirmation)
	if err != nil {
		t.Fatalf("Resend: %v", err)
	}
	if !result.Success {
		t.Fatalf("resend not successful: %+v", result)
	}
	if result.SentTo != "anna@example.com" {
		t.Errorf("sent_to = %s", result.SentTo)
	}

	var count int64
	db.Model(&entity.Reminder{}).
		Where("appointment_id = ? AND kind = ?", appointment.ID, entity.ReminderKindConfirmation).
		Count(&count)
	if count != 2 {
		t.Fatalf("reminder rows = %d, want a fresh row per attempt", count)
	}
}

func TestResendFailureRecordsFailedRow(t *testing.T) {
	db := setupDB(t)
	createTemplates(t, db)
	mailer := &fakeMailer{failWith: map[string]string{"anna@example.com": "mailbox full"}}
	uc := newReminderUsecase(db, mailer)

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	visit := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	appointment := createScheduledAppointment(t, db, patient, treatment, visit)

	result, err := uc.Resend(context.Background(), appointment.ID, entity.ReminderKind24Hour)
	if err != nil {
		t.Fatalf("Resend returned error for a delivery failure: %v", err)
	}
	if result.Success {
		t.Fatal("resend reported success for failed delivery")
	}
	if result.Message != "mailbox full" {
		t.Errorf("message = %q, want provider reason", result.Message)
	}

	var reminder entity.Reminder
	if err := db.First(&reminder, "appointment_id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("load reminder: %v", err)
	}
	if reminder.Status != entity.ReminderStatusFailed {
		t.Errorf("status = %s, want failed", reminder.Status)
	}
	if reminder.ErrorMessage != "mailbox full" {
		t.Errorf("error_message = %q", reminder.ErrorMessage)
	}
}

func TestResendValidation(t *testing.T) {
	db := setupDB(t)
	createTemplates(t, db)
	uc := newReminderUsecase(db, &fakeMailer{})

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	visit := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	appointment := createScheduledAppointment(t, db, patient, treatment, visit)

	if _, err := uc.Resend(context.Background(), appointment.ID, entity.ReminderKind("weekly")); err != usecase.ErrInvalidReminderKind {
		t.Errorf("unknown kind: err = %v, want ErrInvalidReminderKind", err)
	}

	if _, err := uc.Resend(context.Background(), uuid.New(), entity.ReminderKind24Hour); err != usecase.ErrAppointmentNotFound {
		t.Errorf("unknown appointment: err = %v, want ErrAppointmentNotFound", err)
	}

	db.Model(&entity.Appointment{}).Where("id = ?", appointment.ID).
		Update("status", entity.AppointmentStatusCancelled)
	if _, err := uc.Resend(context.Background(), appointment.ID, entity.ReminderKind24Hour); err != usecase.ErrAppointmentCancelled {
		t.Errorf("cancelled appointment: err = %v, want ErrAppointmentCancelled", err)
	}
}

func TestBackfillCreatesMissingKinds(t *testing.T) {
	db := setupDB(t)
	createTemplates(t, db)
	uc := newReminderUsecase(db, &fakeMailer{})

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	now := time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)
	visit := now.Add(48 * time.Hour)

	// One appointment with no reminder rows at all.
	bare := createScheduledAppointment(t, db, patient, treatment, visit)

	// One with only the 24h row present.
	partial := createScheduledAppointment(t, db, patient, treatment, visit)
	createReminder(t, db, partial.ID, entity.ReminderKind24Hour, visit.Add(-24*time.Hour))

	// Cancelled appointments are never backfilled.
	cancelled := createScheduledAppointment(t, db, patient, treatment, visit)
	db.Model(&entity.Appointment{}).Where("id = ?", cancelled.ID).
		Update("status", entity.AppointmentStatusCancelled)

	result, err := uc.Backfill(context.Background(), now)
	if err != nil {
		t.Fatalf("Backfill: %v", err)
	}
	if result.TotalCreated != 5 {
		t.Fatalf("created = %d, want 5 (3 for bare + 2 for partial)", result.TotalCreated)
	}

	var reminders []entity.Reminder
	db.Where("appointment_id = ?", bare.ID).Order("kind").Find(&reminders)
	if len(reminders) != 3 {
		t.Fatalf("bare appointment rows = %d, want 3", len(reminders))
	}
	for _, r := range reminders {
		if r.Status != entity.ReminderStatusPending {
			t.Errorf("kind %s status = %s, want pending", r.Kind, r.Status)
		}
		switch r.Kind {
		case entity.ReminderKind24Hour:
			if !r.TriggerAt.Equal(visit.Add(-24 * time.Hour)) {
				t.Errorf("24h trigger = %v", r.TriggerAt)
			}
		case entity.ReminderKind2Hour:
			if !r.TriggerAt.Equal(visit.Add(-2 * time.Hour)) {
				t.Errorf("2h trigger = %v", r.TriggerAt)
			}
		case entity.ReminderKindConfirmation:
			if !r.TriggerAt.Equal(now) {
				t.Errorf("confirmation trigger = %v, want backfill time", r.TriggerAt)
			}
		}
	}

	var cancelledCount int64
	db.Model(&entity.Reminder{}).Where("appointment_id = ?", cancelled.ID).Count(&cancelledCount)
	if cancelledCount != 0 {
		t.Errorf("cancelled appointment got %d backfilled rows", cancelledCount)
	}

	// Running again creates nothing.
	again, err := uc.Backfill(context.Background(), now)
	if err != nil {
		t.Fatalf("second Backfill: %v", err)
	}
	if again.TotalCreated != 0 {
		t.Fatalf("second run created %d rows, want 0", again.TotalCreated)
	}
}

func TestGetByAppointment(t *testing.T) {
	db := setupDB(t)
	uc := newReminderUsecase(db, &fakeMailer{})

	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	visit := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	appointment := createScheduledAppointment(t, db, patient, treatment, visit)
	createReminder(t, db, appointment.ID, entity.ReminderKind24Hour, visit.Add(-24*time.Hour))
	createReminder(t, db, appointment.ID, entity.ReminderKind2Hour, visit.Add(-2*time.Hour))

	result, err := uc.GetByAppointment(context.Background(), appointment.ID)
	if err != nil {
		t.Fatalf("GetByAppointment: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("total = %d, want 2", result.Total)
	}

	if _, err := uc.GetByAppointment(context.Background(), uuid.New()); err != usecase.ErrAppointmentNotFound {
		t.Errorf("err = %v, want ErrAppointmentNotFound", err)
	}
}
