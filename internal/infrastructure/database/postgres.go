package database

import (
	"fmt"

	"cosmetology-clinic-api/config"
	"cosmetology-clinic-api/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresConnection(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	logrus.Info("Successfully connected to PostgreSQL database")

	return db, nil
}

// Migrate creates or updates the schema for all clinic tables and
// seeds the fixed staff roles.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
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
		return err
	}

	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin, Description: "Full access including catalog, templates and user management"},
		{ID: entity.RoleIDStaff, RoleName: entity.RoleStaff, Description: "Day-to-day booking and patient management"},
	}
	for i := range roles {
		if err := db.FirstOrCreate(&roles[i], entity.Role{ID: roles[i].ID}).Error; err != nil {
			return err
		}
	}
	return nil
}
