//go:build integration
// +build integration

package migrations

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gravadigital/hackathon-api/internal/config"
	"github.com/gravadigital/hackathon-api/internal/domain/event"
	"github.com/gravadigital/hackathon-api/internal/domain/idea"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, RunMigrations(db))
	return db
}

func TestImportLegacyMemberships(t *testing.T) {
	db := openTestDB(t)

	first := event.NewEvent("Legacy first", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "", "")
	second := event.NewEvent("Legacy second", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), "", "")
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	i := &idea.Idea{Email: "legacy@example.com", Title: "Legacy", Description: "Imported", EventID: first.ID}
	require.NoError(t, db.Create(i).Error)
	require.NoError(t, db.Create(&idea.IdeaEvent{IdeaID: i.ID, EventID: first.ID}).Error)
	t.Cleanup(func() {
		db.Exec("DELETE FROM ideas WHERE id = ?", i.ID)
		db.Exec("DELETE FROM events WHERE id IN (?, ?)", first.ID, second.ID)
	})

	require.NoError(t, db.Exec("ALTER TABLE ideas ADD COLUMN IF NOT EXISTS "+legacyMembershipColumn+" TEXT").Error)
	raw := strconv.Itoa(int(first.ID)) + ", " + strconv.Itoa(int(second.ID)) + ",abc,999999999"
	require.NoError(t, db.Exec("UPDATE ideas SET "+legacyMembershipColumn+" = ? WHERE id = ?", raw, i.ID).Error)

	require.NoError(t, db.Transaction(migration008Up))

	var rows []idea.IdeaEvent
	require.NoError(t, db.Where("idea_id = ?", i.ID).Order("event_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, first.ID, rows[0].EventID)
	assert.Equal(t, second.ID, rows[1].EventID)

	assert.False(t, db.Migrator().HasColumn("ideas", legacyMembershipColumn))
	assert.NoError(t, migration008Up(db), "a second run finds nothing to import")
}
