package storage

import (
	"fmt"
	"time"

	"github.com/kingsholm/duel-server/internal/game"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
	// leaderboard queries are collapsed so a burst of clients refreshing
	// after a match ends produces a single DB read.
	leaders singleflight.Group
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateMatch(m *game.Match) error {
	return r.db.Create(m).Error
}

func (r *sqliteRepository) GetMatchByID(id uint) (*game.Match, error) {
	var m game.Match
	err := r.db.Preload("Sides.Swings").Preload("Rounds").First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *sqliteRepository) FindMatchByJoinCode(code string) (*game.Match, error) {
	var m game.Match
	err := r.db.Preload("Sides.Swings").Preload("Rounds").Where("join_code = ?", code).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *sqliteRepository) GetOpenMatches() ([]game.Match, error) {
	var matches []game.Match
	err := r.db.Preload("Sides").
		Where("phase = ? AND invitee_uuid = ?", game.PhaseWaiting, "").
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

func (r *sqliteRepository) UpdateMatch(m *game.Match) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(m).Error
}

func (r *sqliteRepository) GetEventsAfter(matchID uint, afterSeq uint64) ([]game.Event, error) {
	var evs []game.Event
	err := r.db.Where("match_id = ? AND seq > ?", matchID, afterSeq).
		Order("seq ASC").
		Find(&evs).Error
	return evs, err
}

func (r *sqliteRepository) UpsertProfile(uuid, email, name string, startingGold int) error {
	var u game.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		u = game.User{PlayerUUID: uuid, Email: email, PlayerName: name, Gold: startingGold}
		return r.db.Create(&u).Error
	}
	if err != nil {
		return err
	}
	if name != "" && u.PlayerName != name {
		u.PlayerName = name
	}
	return r.db.Save(&u).Error
}

func (r *sqliteRepository) GetProfileByUUID(uuid string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("player_uuid = ?", uuid).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) GetProfileByEmail(email string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// SettleMatchEnd saves the terminal match and transfers the wager from
// loser to winner with counter bumps, all in one transaction. The caller
// guards against double settlement with Match.WagerSettled; rolling back
// keeps that flag unset in the stored match so a retry settles cleanly.
func (r *sqliteRepository) SettleMatchEnd(m *game.Match, forfeitedUUID string) error {
	var loserUUID string
	for i := range m.Sides {
		if m.Sides[i].PlayerUUID != m.WinnerUUID {
			loserUUID = m.Sides[i].PlayerUUID
		}
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(m).Error; err != nil {
			return err
		}
		if m.WinnerUUID == "" {
			return nil
		}
		var winner, loser game.User
		if err := tx.Where("player_uuid = ?", m.WinnerUUID).First(&winner).Error; err != nil {
			return err
		}
		if err := tx.Where("player_uuid = ?", loserUUID).First(&loser).Error; err != nil {
			return err
		}
		winner.Gold += m.WagerGold
		winner.Wins++
		loser.Gold -= m.WagerGold
		loser.Losses++
		if forfeitedUUID != "" && loser.PlayerUUID == forfeitedUUID {
			loser.Forfeits++
		}
		if err := tx.Save(&winner).Error; err != nil {
			return err
		}
		return tx.Save(&loser).Error
	})
}

func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.User, error) {
	v, err, _ := r.leaders.Do(fmt.Sprintf("top:%d", limit), func() (interface{}, error) {
		var users []game.User
		err := r.db.Order("wins DESC, gold DESC").Limit(limit).Find(&users).Error
		return users, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]game.User), nil
}

func (r *sqliteRepository) FindStaleLobbies(now time.Time, ttl time.Duration) ([]game.Match, error) {
	cutoff := now.Add(-ttl)
	var matches []game.Match
	err := r.db.Preload("Sides").
		Where("phase IN ? AND updated_at < ?", []game.MatchPhase{game.PhaseWaiting, game.PhasePendingAcceptance, game.PhaseReady}, cutoff).
		Find(&matches).Error
	return matches, err
}
