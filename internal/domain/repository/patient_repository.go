package repository

import (
	"cosmetology-clinic-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)

	// Search filters patients by name or email (ILIKE). An empty query
	// returns all patients, paginated.
	Search(db *gorm.DB, query string, limit, offset int) ([]entity.Patient, int64, error)

	Update(db *gorm.DB, patient *entity.Patient) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
