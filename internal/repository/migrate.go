package repository

import "gorm.io/gorm"

// Migrate creates or updates the schema for all tables. Used by the
// seeder and tests; production deployments run it explicitly.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&schoolModel{},
		&classroomModel{},
		&studentModel{},
	)
}
