package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table the
// repositories own. Used by cmd/seed, local SQLite runs and the tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&customerModel{},
		&workerModel{},
		&adminModel{},
		&bookingModel{},
	)
}
