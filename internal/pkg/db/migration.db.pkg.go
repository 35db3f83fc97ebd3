package database

import (
	"fmt"
	"xtopay-checkout/internal/common/models"
	"xtopay-checkout/internal/pkg/logger"
)

func (db *Database) RunMigrations() error {
	logger.Info.Println("Starting database migrations...")

	// Define models in dependency order
	entities := []interface{}{
		&models.PaymentAttempt{},
	}

	for _, entity := range entities {
		logger.Info.Printf("Migrating model: %T", entity)
		if err := db.AutoMigrate(entity); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", entity, err)
		}
	}

	if err := db.createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Info.Println("Database migrations completed successfully")
	return nil
}

func (db *Database) createIndexes() error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_payment_attempts_session_id ON payment_attempts(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_payment_attempts_status ON payment_attempts(status);`,
		`CREATE INDEX IF NOT EXISTS idx_payment_attempts_created_at ON payment_attempts(created_at);`,
	}

	for _, query := range indexes {
		if err := db.Exec(query).Error; err != nil {
			logger.Error.Printf("Error creating index: %s, Error: %v", query, err)
			return err
		}
	}

	return nil
}
