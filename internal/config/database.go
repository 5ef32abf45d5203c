package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campushire/recruiting-api/internal/models"
)

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	// Auto migrate
	if err := db.AutoMigrate(
		&models.Student{},
		&models.Recruiter{},
		&models.Job{},
		&models.CV{},
		&models.Application{},
		&models.EvaluationResult{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// One live application per (student, job). Withdrawn rows stay behind for
	// audit and must not block a re-apply.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_live_pair
		 ON applications (student_id, job_id)
		 WHERE status <> 'withdrawn'`,
	).Error; err != nil {
		return nil, fmt.Errorf("failed to create application uniqueness index: %w", err)
	}

	log.Println("✅ Database migration completed")

	return db, nil
}
