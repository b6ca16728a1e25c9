package usecase

import (
	"context"
	"errors"

	"cosmetology-clinic-api/internal/converter"
	"cosmetology-clinic-api/internal/delivery/dto"
	"cosmetology-clinic-api/internal/domain/entity"
	"cosmetology-clinic-api/internal/domain/repository"
	"cosmetology-clinic-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrEmailTemplateNotFound = errors.New("email template not found")

type EmailTemplateUsecase interface {
	CreateTemplate(ctx context.Context, req *dto.CreateEmailTemplateRequest) (*dto.EmailTemplateResponse, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*dto.EmailTemplateResponse, error)
	GetAllTemplates(ctx context.Context) (*dto.EmailTemplateListResponse, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, req *dto.UpdateEmailTemplateRequest) (*dto.EmailTemplateResponse, error)
	ActivateTemplate(ctx context.Context, id uuid.UUID) (*dto.EmailTemplateResponse, error)
}

type emailTemplateUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	templateRepo repository.EmailTemplateRepository
	auditService service.AuditService
}

func NewEmailTemplateUsecase(db *gorm.DB, log *logrus.Logger, templateRepo repository.EmailTemplateRepository, auditService service.AuditService) EmailTemplateUsecase {
	return &emailTemplateUsecase{
		db:           db,
		log:          log,
		templateRepo: templateRepo,
		auditService: auditService,
	}
}

// CreateTemplate stores a new version of the named template and makes
// it the active one. Previous rows of the same name are deactivated in
// the same transaction, keeping at most one active template per name.
func (u *emailTemplateUsecase) CreateTemplate(ctx context.Context, req *dto.CreateEmailTemplateRequest) (*dto.EmailTemplateResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.templateRepo.DeactivateByName(tx, req.Name); err != nil {
		u.log.Warnf("Failed to deactivate templates named %s: %+v", req.Name, err)
		return nil, err
	}

	active := true
	template := &entity.EmailTemplate{
		Name:     req.Name,
		Subject:  req.Subject,
		BodyHTML: req.BodyHTML,
		BodyText: req.BodyText,
		IsActive: &active,
	}

	if err := u.templateRepo.Create(tx, template); err != nil {
		u.log.Warnf("Failed to create email template: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, auditActor(ctx), entity.AuditActionTemplateCreate, "email_template", template.ID.String(), converter.EmailTemplateToResponse(template)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.EmailTemplateToResponse(template), nil
}

func (u *emailTemplateUsecase) GetTemplate(ctx context.Context, id uuid.UUID) (*dto.EmailTemplateResponse, error) {
	template, err := u.templateRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find email template %s: %+v", id, err)
		return nil, err
	}
	if template == nil {
		return nil, ErrEmailTemplateNotFound
	}
	return converter.EmailTemplateToResponse(template), nil
}

func (u *emailTemplateUsecase) GetAllTemplates(ctx context.Context) (*dto.EmailTemplateListResponse, error) {
	templates, err := u.templateRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list email templates: %+v", err)
		return nil, err
	}

	return &dto.EmailTemplateListResponse{
		Templates: converter.EmailTemplatesToResponses(templates),
		Total:     len(templates),
	}, nil
}

func (u *emailTemplateUsecase) UpdateTemplate(ctx context.Context, id uuid.UUID, req *dto.UpdateEmailTemplateRequest) (*dto.EmailTemplateResponse, error) {
	template, err := u.templateRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrEmailTemplateNotFound
	}
	oldValue := converter.EmailTemplateToResponse(template)

	if req.Subject != "" {
		template.Subject = req.Subject
	}
	if req.BodyHTML != "" {
		template.BodyHTML = req.BodyHTML
	}
	if req.BodyText != "" {
		template.BodyText = req.BodyText
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.templateRepo.Update(tx, template); err != nil {
		u.log.Warnf("Failed to update email template %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, auditActor(ctx), entity.AuditActionTemplateUpdate, "email_template", id.String(), oldValue, converter.EmailTemplateToResponse(template)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.EmailTemplateToResponse(template), nil
}

// ActivateTemplate switches the active version of a template name: all
// rows of the name are deactivated, then the chosen row is activated.
func (u *emailTemplateUsecase) ActivateTemplate(ctx context.Context, id uuid.UUID) (*dto.EmailTemplateResponse, error) {
	template, err := u.templateRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrEmailTemplateNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.templateRepo.DeactivateByName(tx, template.Name); err != nil {
		u.log.Warnf("Failed to deactivate templates named %s: %+v", template.Name, err)
		return nil, err
	}
	if err := u.templateRepo.SetActive(tx, id); err != nil {
		u.log.Warnf("Failed to activate template %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, auditActor(ctx), entity.AuditActionTemplateActivate, "email_template", id.String(), template.IsActive, true); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	active := true
	template.IsActive = &active
	return converter.EmailTemplateToResponse(template), nil
}
