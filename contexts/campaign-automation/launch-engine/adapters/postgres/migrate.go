package postgresadapter

import "gorm.io/gorm"

// AutoMigrate creates or updates the tables owned by the launch engine. The
// businesses and connections tables belong to onboarding but are migrated here
// too so a fresh database can run the engine on its own.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&planModel{},
		&entityModel{},
		&snapshotModel{},
		&recommendationModel{},
		&actionLogModel{},
		&businessModel{},
		&connectionModel{},
		&syncRunModel{},
		&outboxModel{},
	)
}
