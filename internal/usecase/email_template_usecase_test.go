package usecase_test

import (
	"context"
	"testing"

	"cosmetology-clinic-api/internal/delivery/dto"
	"cosmetology-clinic-api/internal/domain/entity"
	"cosmetology-clinic-api/internal/repository"
	"cosmetology-clinic-api/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newEmailTemplateUsecase(db *gorm.DB) usecase.EmailTemplateUsecase {
	return usecase.NewEmailTemplateUsecase(db, testLogger(), repository.NewEmailTemplateRepository(), newAuditService(db))
}

func activeTemplates(t *testing.T, db *gorm.DB, name string) []entity.EmailTemplate {
	t.Helper()
	var templates []entity.EmailTemplate
	if err := db.Where("name = ? AND is_active = ?", name, true).Find(&templates).Error; err != nil {
		t.Fatalf("load templates: %v", err)
	}
	return templates
}

func TestCreateTemplateReplacesActiveVersion(t *testing.T) {
	db := setupDB(t)
	uc := newEmailTemplateUsecase(db)

	first, err := uc.CreateTemplate(context.Background(), &dto.CreateEmailTemplateRequest{
		Name:     entity.TemplateReminder24h,
		Subject:  "See you tomorrow",
		BodyHTML: "<p>Hi {{patient_name}}</p>",
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	second, err := uc.CreateTemplate(context.Background(), &dto.CreateEmailTemplateRequest{
		Name:     entity.TemplateReminder24h,
		Subject:  "Your visit is tomorrow",
		BodyHTML: "<p>Hello {{patient_name}}</p>",
	})
	if err != nil {
		t.Fatalf("CreateTemplate second version: %v", err)
	}

	active := activeTemplates(t, db, entity.TemplateReminder24h)
	if len(active) != 1 {
		t.Fatalf("active templates = %d, want exactly 1", len(active))
	}
	if active[0].ID != second.ID {
		t.Errorf("active version = %s, want the newest %s", active[0].ID, second.ID)
	}

	// Both versions remain in history.
	var total int64
	db.Model(&entity.EmailTemplate{}).Where("name = ?", entity.TemplateReminder24h).Count(&total)
	if total != 2 {
		t.Errorf("stored versions = %d, want 2", total)
	}

	// Reactivating the old version flips the active flag back.
	if _, err := uc.ActivateTemplate(context.Background(), first.ID); err != nil {
		t.Fatalf("ActivateTemplate: %v", err)
	}
	active = activeTemplates(t, db, entity.TemplateReminder24h)
	if len(active) != 1 || active[0].ID != first.ID {
		t.Fatalf("after reactivation active = %v, want only %s", active, first.ID)
	}
}

func TestActivateTemplateUnknownID(t *testing.T) {
	db := setupDB(t)
	uc := newEmailTemplateUsecase(db)

	if _, err := uc.ActivateTemplate(context.Background(), uuid.New()); err != usecase.ErrEmailTemplateNotFound {
		t.Errorf("err = %v, want ErrEmailTemplateNotFound", err)
	}
}
