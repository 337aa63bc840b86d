package migrations

import "gorm.io/gorm"

// migration007Up stops an event delete from taking origin ideas with it.
// The service promotes or deletes those ideas before the event goes.
func migration007Up(db *gorm.DB) error {
	return setOriginEventRule(db, "RESTRICT")
}

func migration007Down(db *gorm.DB) error {
	return setOriginEventRule(db, "CASCADE")
}

func setOriginEventRule(db *gorm.DB, rule string) error {
	if err := db.Exec("ALTER TABLE ideas DROP CONSTRAINT IF EXISTS fk_ideas_origin_event").Error; err != nil {
		return err
	}
	return db.Exec("ALTER TABLE ideas ADD CONSTRAINT fk_ideas_origin_event " +
		"FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE " + rule).Error
}
