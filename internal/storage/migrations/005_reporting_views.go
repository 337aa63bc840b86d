package migrations

import "gorm.io/gorm"

// migration005Up creates reporting views over results and ratings
func migration005Up(db *gorm.DB) error {
	views := []string{
		`CREATE OR REPLACE VIEW leaderboard AS
        SELECT
            r.event_id,
            e.title AS event_title,
            r.winning_idea_id AS idea_id,
            i.title AS idea_title,
            i.email AS owner_email,
            r.votes,
            r.calculated_at
        FROM results r
        JOIN events e ON e.id = r.event_id
        JOIN ideas i ON i.id = r.winning_idea_id
        WHERE r.category = 'Hackathon Winner'`,

		`CREATE OR REPLACE VIEW idea_rating_summary AS
        SELECT
            i.id AS idea_id,
            i.title,
            COUNT(rt.id) AS rating_count,
            ROUND(AVG(rt.rating)::numeric, 2) AS average_rating,
            i.likes
        FROM ideas i
        LEFT JOIN ratings rt ON rt.idea_id = i.id
        GROUP BY i.id, i.title, i.likes`,

		`CREATE OR REPLACE VIEW category_vote_progress AS
        SELECT
            cv.event_id,
            cv.category,
            COUNT(*) AS total_votes,
            COUNT(DISTINCT cv.user_email) AS voters,
            COUNT(DISTINCT cv.idea_id) AS ideas_with_votes
        FROM category_votes cv
        GROUP BY cv.event_id, cv.category`,
	}

	for _, view := range views {
		if err := db.Exec(view).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration005Down drops the reporting views
func migration005Down(db *gorm.DB) error {
	for _, view := range []string{"category_vote_progress", "idea_rating_summary", "leaderboard"} {
		if err := db.Exec("DROP VIEW IF EXISTS " + view).Error; err != nil {
			return err
		}
	}

	return nil
}
