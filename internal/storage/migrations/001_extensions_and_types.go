package migrations

import "gorm.io/gorm"

// migration001Up creates the enum types used by the vote and request tables
func migration001Up(db *gorm.DB) error {
	if err := db.Exec(`
        DO $$ BEGIN
            CREATE TYPE vote_category AS ENUM (
                'Most Creative',
                'Most Technical',
                'Most Impactful',
                'Hackathon Winner'
            );
        EXCEPTION WHEN duplicate_object THEN NULL;
        END $$
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        DO $$ BEGIN
            CREATE TYPE request_status AS ENUM (
                'pending',
                'accepted',
                'declined'
            );
        EXCEPTION WHEN duplicate_object THEN NULL;
        END $$
    `).Error; err != nil {
		return err
	}

	return nil
}

// migration001Down drops the enum types
func migration001Down(db *gorm.DB) error {
	if err := db.Exec("DROP TYPE IF EXISTS request_status CASCADE").Error; err != nil {
		return err
	}

	return db.Exec("DROP TYPE IF EXISTS vote_category CASCADE").Error
}
