package repository

import (
	"cosmetology-clinic-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmailTemplateRepository interface {
	Create(db *gorm.DB, template *entity.EmailTemplate) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.EmailTemplate, error)
	FindAll(db *gorm.DB) ([]entity.EmailTemplate, error)

	// FindActiveByName returns the single active template for the name,
	// or nil when none exists.
	FindActiveByName(db *gorm.DB, name string) (*entity.EmailTemplate, error)

	Update(db *gorm.DB, template *entity.EmailTemplate) error

	// DeactivateByName clears the active flag on every row of the name.
	// Used together with SetActive to keep one active row per name.
	DeactivateByName(db *gorm.DB, name string) error
	SetActive(db *gorm.DB, id uuid.UUID) error
}
