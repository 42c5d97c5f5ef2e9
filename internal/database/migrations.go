package database

import (
	logger "github.com/Bparsons0904/goLogger"
)

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_daily_albums_date_desc ON daily_albums(date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_review_histories_review_recorded ON review_histories(review_id, recorded_at)",
		"CREATE INDEX IF NOT EXISTS idx_user_actions_entity ON user_actions(entity_type, entity_id)",
	}

	for _, index := range indexes {
		if err := db.SQL.Exec(index).Error; err != nil {
			log.Error("Failed to create index", "index", index, "error", err)
			return err
		}
	}

	log.Info("Additional indexes created successfully")
	return nil
}
