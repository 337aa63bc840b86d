package migrations

import "gorm.io/gorm"

// migration006Up realigns denormalized counters with their ledgers.
// Databases restored from older dumps may carry drifted like counts.
func migration006Up(db *gorm.DB) error {
	return db.Exec(`
        UPDATE ideas SET likes = counts.total
        FROM (
            SELECT i.id, COUNT(l.id) AS total
            FROM ideas i
            LEFT JOIN likes l ON l.idea_id = i.id
            GROUP BY i.id
        ) AS counts
        WHERE ideas.id = counts.id AND ideas.likes <> counts.total
    `).Error
}

// migration006Down is a no-op; the backfill has nothing to undo
func migration006Down(db *gorm.DB) error {
	return nil
}
