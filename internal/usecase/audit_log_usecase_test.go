package usecase_test

import (
	"context"
	"testing"
	"time"

	"cosmetology-clinic-api/internal/delivery/dto"
	"cosmetology-clinic-api/internal/delivery/http/middleware"
	"cosmetology-clinic-api/internal/domain/entity"
	"cosmetology-clinic-api/internal/repository"
	"cosmetology-clinic-api/internal/usecase"

	"gorm.io/gorm"
)

func createAdminUser(t *testing.T, db *gorm.DB) *entity.User {
	t.Helper()
	role := &entity.Role{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin}
	if err := db.FirstOrCreate(role, entity.Role{ID: role.ID}).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	user := &entity.User{
		Email:    "admin@clinic.example",
		Password: "hashed",
		FullName: "Clinic Admin",
		RoleID:   role.ID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func auditLogsByAction(t *testing.T, db *gorm.DB, action string) []entity.AuditLog {
	t.Helper()
	var logs []entity.AuditLog
	if err := db.Where("action = ?", action).Find(&logs).Error; err != nil {
		t.Fatalf("load audit logs: %v", err)
	}
	return logs
}

func TestAdminActionsAreAudited(t *testing.T) {
	db := setupDB(t)
	admin := createAdminUser(t, db)
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, admin.ID)

	templateUC := newEmailTemplateUsecase(db)
	if _, err := templateUC.CreateTemplate(ctx, &dto.CreateEmailTemplateRequest{
		Name:     entity.TemplateReminder24h,
		Subject:  "See you tomorrow",
		BodyHTML: "<p>Hi {{patient_name}}</p>",
	}); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	logs := auditLogsByAction(t, db, entity.AuditActionTemplateCreate)
	if len(logs) != 1 {
		t.Fatalf("template.create audit rows = %d, want 1", len(logs))
	}
	if logs[0].UserID == nil || *logs[0].UserID != admin.ID {
		t.Errorf("audit actor = %v, want %s", logs[0].UserID, admin.ID)
	}
	if logs[0].Metadata["entity"] != "email_template" {
		t.Errorf("audit entity = %v, want email_template", logs[0].Metadata["entity"])
	}

	appointmentUC := newAppointmentUsecase(db)
	patient := createPatient(t, db, "Anna Kowalska", "anna@example.com")
	treatment := createTreatment(t, db, "Facial", 60)
	appointment := createScheduledAppointment(t, db, patient, treatment, time.Now().UTC().Add(48*time.Hour))

	err := appointmentUC.UpdateStatus(ctx, appointment.ID, &dto.UpdateAppointmentStatusRequest{Status: "cancelled"})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	logs = auditLogsByAction(t, db, entity.AuditActionAppointmentStatus)
	if len(logs) != 1 {
		t.Fatalf("appointment.status_change audit rows = %d, want 1", len(logs))
	}
	if logs[0].Metadata["old_value"] != string(entity.AppointmentStatusScheduled) {
		t.Errorf("old_value = %v, want scheduled", logs[0].Metadata["old_value"])
	}
	if logs[0].Metadata["new_value"] != string(entity.AppointmentStatusCancelled) {
		t.Errorf("new_value = %v, want cancelled", logs[0].Metadata["new_value"])
	}
}

func TestTreatmentDeletionIsAudited(t *testing.T) {
	db := setupDB(t)
	admin := createAdminUser(t, db)
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, admin.ID)

	uc := usecase.NewTreatmentUsecase(db, testLogger(), repository.NewTreatmentRepository(), newAuditService(db))
	treatment := createTreatment(t, db, "Chemical Peel", 45)

	if err := uc.DeleteTreatment(ctx, treatment.ID); err != nil {
		t.Fatalf("DeleteTreatment: %v", err)
	}

	logs := auditLogsByAction(t, db, entity.AuditActionTreatmentDelete)
	if len(logs) != 1 {
		t.Fatalf("treatment.delete audit rows = %d, want 1", len(logs))
	}
	if logs[0].Metadata["entity_id"] != treatment.ID.String() {
		t.Errorf("entity_id = %v, want %s", logs[0].Metadata["entity_id"], treatment.ID)
	}
	if logs[0].Metadata["new_value"] != nil {
		t.Errorf("new_value = %v, want nil for a deletion", logs[0].Metadata["new_value"])
	}
}

func TestGetAuditLogs(t *testing.T) {
	db := setupDB(t)
	admin := createAdminUser(t, db)
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, admin.ID)

	templateUC := newEmailTemplateUsecase(db)
	if _, err := templateUC.CreateTemplate(ctx, &dto.CreateEmailTemplateRequest{
		Name:     entity.TemplateReminder2h,
		Subject:  "Almost time",
		BodyHTML: "<p>Soon</p>",
	}); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	uc := usecase.NewAuditLogUsecase(db, testLogger(), repository.NewAuditLogRepository())

	list, err := uc.GetAllAuditLogs(context.Background())
	if err != nil {
		t.Fatalf("GetAllAuditLogs: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("total = %d, want 1", list.Total)
	}
	entry := list.Logs[0]
	if entry.Action != entity.AuditActionTemplateCreate {
		t.Errorf("action = %s, want %s", entry.Action, entity.AuditActionTemplateCreate)
	}
	if entry.User == nil || entry.User.Email != admin.Email {
		t.Errorf("actor = %+v, want %s", entry.User, admin.Email)
	}

	single, err := uc.GetAuditLog(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("GetAuditLog: %v", err)
	}
	if single.ID != entry.ID {
		t.Errorf("id = %d, want %d", single.ID, entry.ID)
	}

	if _, err := uc.GetAuditLog(context.Background(), 9999); err != usecase.ErrAuditLogNotFound {
		t.Errorf("unknown id: err = %v, want ErrAuditLogNotFound", err)
	}
}
