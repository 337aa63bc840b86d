package migrations

import (
	"gorm.io/gorm"

	"github.com/gravadigital/hackathon-api/internal/domain/idea"
	"github.com/gravadigital/hackathon-api/internal/logger"
)

const legacyMembershipColumn = "legacy_event_ids"

// migration008Up moves the comma separated event lists of restored dumps
// ("1,5" in ideas.legacy_event_ids) into idea_events, then drops the column.
// Ids that name no event are skipped.
func migration008Up(db *gorm.DB) error {
	if !db.Migrator().HasColumn("ideas", legacyMembershipColumn) {
		return nil
	}
	log := logger.Migration()

	var rows []struct {
		ID             uint
		LegacyEventIDs string `gorm:"column:legacy_event_ids"`
	}
	err := db.Table("ideas").
		Select("id, " + legacyMembershipColumn).
		Where(legacyMembershipColumn + " IS NOT NULL AND " + legacyMembershipColumn + " <> ''").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	imported := 0
	for _, row := range rows {
		for _, eventID := range idea.ParseMembership(row.LegacyEventIDs) {
			res := db.Exec(`
                INSERT INTO idea_events (idea_id, event_id, added_at)
                SELECT ?, id, NOW() FROM events WHERE id = ?
                ON CONFLICT DO NOTHING`, row.ID, eventID)
			if res.Error != nil {
				return res.Error
			}
			imported += int(res.RowsAffected)
		}
	}
	log.Info("Imported legacy idea memberships", "ideas", len(rows), "rows", imported)

	return db.Exec("ALTER TABLE ideas DROP COLUMN " + legacyMembershipColumn).Error
}

// migration008Down is a no-op; the legacy column is not restored
func migration008Down(db *gorm.DB) error {
	return nil
}
