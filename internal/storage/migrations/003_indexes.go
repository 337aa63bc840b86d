package migrations

import "gorm.io/gorm"

var indexes = []struct {
	name string
	sql  string
}{
	{"idx_events_event_date", "CREATE INDEX IF NOT EXISTS idx_events_event_date ON events(event_date)"},
	{"idx_ideas_likes_created", "CREATE INDEX IF NOT EXISTS idx_ideas_likes_created ON ideas(likes DESC, created_at DESC)"},
	{"idx_ideas_owner_event", "CREATE INDEX IF NOT EXISTS idx_ideas_owner_event ON ideas(email, event_id)"},
	{"idx_ideas_contributors", "CREATE INDEX IF NOT EXISTS idx_ideas_contributors ON ideas USING GIN (contributors)"},
	{"idx_idea_event_metadata_contributors", "CREATE INDEX IF NOT EXISTS idx_idea_event_metadata_contributors ON idea_event_metadata USING GIN (contributors)"},
	{"idx_category_votes_event_category", "CREATE INDEX IF NOT EXISTS idx_category_votes_event_category ON category_votes(event_id, category, idea_id)"},
	{"idx_ratings_idea", "CREATE INDEX IF NOT EXISTS idx_ratings_idea ON ratings(idea_id)"},
	{"idx_likes_idea", "CREATE INDEX IF NOT EXISTS idx_likes_idea ON likes(idea_id)"},
	{"idx_results_category_votes", "CREATE INDEX IF NOT EXISTS idx_results_category_votes ON results(category, votes DESC)"},
	{"idx_contributor_requests_pending", "CREATE INDEX IF NOT EXISTS idx_contributor_requests_pending ON contributor_requests(idea_id, event_id) WHERE status = 'pending'"},
	{"uq_contributor_requests_pending", "CREATE UNIQUE INDEX IF NOT EXISTS uq_contributor_requests_pending ON contributor_requests(idea_id, event_id, requester_email) WHERE status = 'pending'"},
}

// migration003Up creates lookup indexes
func migration003Up(db *gorm.DB) error {
	for _, index := range indexes {
		if err := db.Exec(index.sql).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops lookup indexes
func migration003Down(db *gorm.DB) error {
	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index.name).Error; err != nil {
			return err
		}
	}

	return nil
}
