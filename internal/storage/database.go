package storage

import (
	"github.com/kingsholm/duel-server/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database and keeps the schema updated via
// AutoMigrate. Attack styles are intentionally not persisted: the config
// file is their single source of truth and matches reference them by ID.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(&game.Match{}, &game.Side{}, &game.Swing{}, &game.RoundLog{}, &game.Event{}, &game.User{})
	if err != nil {
		return nil, err
	}
	// Outbox replay depends on a per-match seq scan; make the pair explicit
	// even though the struct tags already request it.
	if execErr := db.Exec("CREATE INDEX IF NOT EXISTS idx_match_events ON match_events(match_id, seq);").Error; execErr != nil {
		return nil, execErr
	}
	return db, nil
}
