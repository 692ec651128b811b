package storage

import (
	"time"

	"github.com/kingsholm/duel-server/internal/game"
)

type Repository interface {
	CreateMatch(m *game.Match) error
	GetMatchByID(id uint) (*game.Match, error)
	FindMatchByJoinCode(code string) (*game.Match, error)
	// GetOpenMatches returns public wager matches still waiting for an
	// opponent, for the lobby list.
	GetOpenMatches() ([]game.Match, error)
	UpdateMatch(m *game.Match) error

	// GetEventsAfter returns a match's outbox entries with Seq > afterSeq in
	// ascending Seq order, for replay on (re)connect.
	GetEventsAfter(matchID uint, afterSeq uint64) ([]game.Event, error)

	UpsertProfile(uuid, email, name string, startingGold int) error
	GetProfileByUUID(uuid string) (*game.User, error)
	GetProfileByEmail(email string) (*game.User, error)
	// SettleMatchEnd persists the terminal match and settles the wager
	// (zero-sum) with win/loss counters in one transaction; forfeitedUUID
	// additionally counts a forfeit. Match state and gold never diverge.
	SettleMatchEnd(m *game.Match, forfeitedUUID string) error
	// Leaderboard
	GetTopPlayers(limit int) ([]game.User, error)

	// FindStaleLobbies returns matches that never reached fighting and have
	// been idle past the TTL, so the janitor can cancel them.
	FindStaleLobbies(now time.Time, ttl time.Duration) ([]game.Match, error)
}
