package migrations

import "gorm.io/gorm"

var foreignKeys = []struct {
	table string
	name  string
	sql   string
}{
	{"ideas", "fk_ideas_origin_event", "FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE RESTRICT"},
	{"idea_events", "fk_idea_events_idea", "FOREIGN KEY (idea_id) REFERENCES ideas(id) ON DELETE CASCADE"},
	{"idea_events", "fk_idea_events_event", "FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE"},
	{"idea_event_metadata", "fk_idea_event_metadata_idea", "FOREIGN KEY (idea_id) REFERENCES ideas(id) ON DELETE CASCADE"},
	{"idea_event_metadata", "fk_idea_event_metadata_event", "FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE"},
	{"category_votes", "fk_category_votes_idea", "FOREIGN KEY (idea_id) REFERENCES ideas(id) ON DELETE CASCADE"},
	{"category_votes", "fk_category_votes_event", "FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE"},
	{"ratings", "fk_ratings_idea", "FOREIGN KEY (idea_id) REFERENCES ideas(id) ON DELETE CASCADE"},
	{"likes", "fk_likes_idea", "FOREIGN KEY (idea_id) REFERENCES ideas(id) ON DELETE CASCADE"},
	{"results", "fk_results_event", "FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE"},
	{"results", "fk_results_idea", "FOREIGN KEY (winning_idea_id) REFERENCES ideas(id) ON DELETE CASCADE"},
	{"contributor_requests", "fk_contributor_requests_idea", "FOREIGN KEY (idea_id) REFERENCES ideas(id) ON DELETE CASCADE"},
	{"contributor_requests", "fk_contributor_requests_event", "FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE"},
	{"events", "chk_events_stage", "CHECK (stage BETWEEN 1 AND 3)"},
	{"events", "chk_events_sub_stage", "CHECK (current_sub_stage BETWEEN 1 AND 3)"},
	{"ideas", "chk_ideas_likes", "CHECK (likes >= 0)"},
	{"results", "chk_results_votes", "CHECK (votes > 0)"},
}

// migration004Up adds the foreign keys, checks and the orphan idea trigger
func migration004Up(db *gorm.DB) error {
	for _, fk := range foreignKeys {
		if err := db.Exec("ALTER TABLE " + fk.table + " DROP CONSTRAINT IF EXISTS " + fk.name).Error; err != nil {
			return err
		}
		if err := db.Exec("ALTER TABLE " + fk.table + " ADD CONSTRAINT " + fk.name + " " + fk.sql).Error; err != nil {
			return err
		}
	}

	functions := []string{
		`CREATE OR REPLACE FUNCTION delete_orphan_idea()
        RETURNS TRIGGER AS $$
        BEGIN
            -- An idea with no event left has nowhere to be shown or voted on
            IF NOT EXISTS (SELECT 1 FROM idea_events WHERE idea_id = OLD.idea_id) THEN
                DELETE FROM ideas WHERE id = OLD.idea_id;
            END IF;
            RETURN OLD;
        END;
        $$ LANGUAGE plpgsql`,

		`CREATE OR REPLACE FUNCTION validate_category_vote()
        RETURNS TRIGGER AS $$
        BEGIN
            IF NEW.category = 'Hackathon Winner' THEN
                RAISE EXCEPTION 'Hackathon Winner is derived and cannot be voted for directly';
            END IF;
            IF NOT EXISTS (
                SELECT 1 FROM idea_events
                WHERE idea_id = NEW.idea_id AND event_id = NEW.event_id
            ) THEN
                RAISE EXCEPTION 'Idea % is not part of event %', NEW.idea_id, NEW.event_id;
            END IF;
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`,
	}

	for _, fn := range functions {
		if err := db.Exec(fn).Error; err != nil {
			return err
		}
	}

	triggers := []string{
		`DROP TRIGGER IF EXISTS trg_idea_events_orphan ON idea_events`,
		`CREATE TRIGGER trg_idea_events_orphan
            AFTER DELETE ON idea_events
            FOR EACH ROW EXECUTE FUNCTION delete_orphan_idea()`,
		`DROP TRIGGER IF EXISTS trg_category_votes_validate ON category_votes`,
		`CREATE TRIGGER trg_category_votes_validate
            BEFORE INSERT OR UPDATE ON category_votes
            FOR EACH ROW EXECUTE FUNCTION validate_category_vote()`,
	}

	for _, trigger := range triggers {
		if err := db.Exec(trigger).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration004Down removes triggers, functions and constraints
func migration004Down(db *gorm.DB) error {
	statements := []string{
		"DROP TRIGGER IF EXISTS trg_category_votes_validate ON category_votes",
		"DROP TRIGGER IF EXISTS trg_idea_events_orphan ON idea_events",
		"DROP FUNCTION IF EXISTS validate_category_vote()",
		"DROP FUNCTION IF EXISTS delete_orphan_idea()",
	}
	for _, fk := range foreignKeys {
		statements = append(statements, "ALTER TABLE "+fk.table+" DROP CONSTRAINT IF EXISTS "+fk.name)
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
