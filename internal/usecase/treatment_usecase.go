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
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrInvalidPrice      = errors.New("invalid price format")
)

type TreatmentUsecase interface {
	CreateTreatment(ctx context.Context, req *dto.CreateTreatmentRequest) (*dto.TreatmentResponse, error)
	GetTreatment(ctx context.Context, id uuid.UUID) (*dto.TreatmentResponse, error)
	GetAllTreatments(ctx context.Context, activeOnly bool) (*dto.TreatmentListResponse, error)
	UpdateTreatment(ctx context.Context, id uuid.UUID, req *dto.UpdateTreatmentRequest) (*dto.TreatmentResponse, error)
	DeleteTreatment(ctx context.Context, id uuid.UUID) error
}

type treatmentUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	treatmentRepo repository.TreatmentRepository
	auditService  service.AuditService
}

func NewTreatmentUsecase(db *gorm.DB, log *logrus.Logger, treatmentRepo repository.TreatmentRepository, auditService service.AuditService) TreatmentUsecase {
	return &treatmentUsecase{
		db:            db,
		log:           log,
		treatmentRepo: treatmentRepo,
		auditService:  auditService,
	}
}

func (u *treatmentUsecase) CreateTreatment(ctx context.Context, req *dto.CreateTreatmentRequest) (*dto.TreatmentResponse, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, ErrInvalidPrice
	}

	treatment := &entity.Treatment{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           price,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.treatmentRepo.Create(tx, treatment); err != nil {
		u.log.Warnf("Failed to create treatment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, auditActor(ctx), entity.AuditActionTreatmentCreate, "treatment", treatment.ID.String(), converter.TreatmentToResponse(treatment)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.TreatmentToResponse(treatment), nil
}

func (u *treatmentUsecase) GetTreatment(ctx context.Context, id uuid.UUID) (*dto.TreatmentResponse, error) {
	treatment, err := u.treatmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find treatment %s: %+v", id, err)
		return nil, err
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}
	return converter.TreatmentToResponse(treatment), nil
}

func (u *treatmentUsecase) GetAllTreatments(ctx context.Context, activeOnly bool) (*dto.TreatmentListResponse, error) {
	treatments, err := u.treatmentRepo.FindAll(u.db.WithContext(ctx), activeOnly)
	if err != nil {
		u.log.Warnf("Failed to list treatments: %+v", err)
		return nil, err
	}

	return &dto.TreatmentListResponse{
		Treatments: converter.TreatmentsToResponses(treatments),
		Total:      len(treatments),
	}, nil
}

func (u *treatmentUsecase) UpdateTreatment(ctx context.Context, id uuid.UUID, req *dto.UpdateTreatmentRequest) (*dto.TreatmentResponse, error) {
	treatment, err := u.treatmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}
	oldValue := converter.TreatmentToResponse(treatment)

	if req.Name != "" {
		treatment.Name = req.Name
	}
	if req.Description != "" {
		treatment.Description = req.Description
	}
	if req.DurationMinutes > 0 {
		treatment.DurationMinutes = req.DurationMinutes
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			return nil, ErrInvalidPrice
		}
		treatment.Price = price
	}
	if req.IsActive != nil {
		treatment.IsActive = req.IsActive
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.treatmentRepo.Update(tx, treatment); err != nil {
		u.log.Warnf("Failed to update treatment %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, auditActor(ctx), entity.AuditActionTreatmentUpdate, "treatment", id.String(), oldValue, converter.TreatmentToResponse(treatment)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.TreatmentToResponse(treatment), nil
}

func (u *treatmentUsecase) DeleteTreatment(ctx context.Context, id uuid.UUID) error {
	treatment, err := u.treatmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return err
	}
	if treatment == nil {
		return ErrTreatmentNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.treatmentRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete treatment %s: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, auditActor(ctx), entity.AuditActionTreatmentDelete, "treatment", id.String(), converter.TreatmentToResponse(treatment)); err != nil {
		u.log.Warnf("Failed to write audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
