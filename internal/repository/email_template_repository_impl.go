package repository

import (
	"errors"

	"cosmetology-clinic-api/internal/domain/entity"
	domainRepo "cosmetology-clinic-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type emailTemplateRepository struct{}

func NewEmailTemplateRepository() domainRepo.EmailTemplateRepository {
	return &emailTemplateRepository{}
}

func (r *emailTemplateRepository) Create(db *gorm.DB, template *entity.EmailTemplate) error {
	return db.Create(template).Error
}

func (r *emailTemplateRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.EmailTemplate, error) {
	var template entity.EmailTemplate
	err := db.Where("id = ?", id).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *emailTemplateRepository) FindAll(db *gorm.DB) ([]entity.EmailTemplate, error) {
	var templates []entity.EmailTemplate
	err := db.Order("name ASC, created_at DESC").Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *emailTemplateRepository) FindActiveByName(db *gorm.DB, name string) (*entity.EmailTemplate, error) {
	var template entity.EmailTemplate
	err := db.Where("name = ? AND is_active = ?", name, true).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *emailTemplateRepository) Update(db *gorm.DB, template *entity.EmailTemplate) error {
	return db.Save(template).Error
}

func (r *emailTemplateRepository) DeactivateByName(db *gorm.DB, name string) error {
	return db.Model(&entity.EmailTemplate{}).
		Where("name = ?", name).
		Update("is_active", false).Error
}

func (r *emailTemplateRepository) SetActive(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.EmailTemplate{}).
		Where("id = ?", id).
		Update("is_active", true).Error
}
