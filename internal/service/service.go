package service

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/kingsholm/duel-server/internal/game"
)

// Sentinel errors returned by the engine's operations. Handlers map these to
// HTTP statuses; none are retried by the engine itself.
var (
	ErrUnknownMatch       = errors.New("unknown match")
	ErrInvalidState       = errors.New("operation not valid in the current phase")
	ErrAlreadyLocked      = errors.New("style already locked this round")
	ErrUnknownStyle       = errors.New("unknown attack style")
	ErrBudgetExhausted    = errors.New("swing budget exhausted")
	ErrNotYourTurnOrPhase = errors.New("not your turn or phase")
	ErrTooEarly           = errors.New("opponent's deadline has not passed")
	ErrMatchAlreadyEnded  = errors.New("match already ended")
	ErrPlayerNotInMatch   = errors.New("player not in match")
	ErrNotJoinable        = errors.New("match is not open for joining")
	ErrChallengeNotForYou = errors.New("challenge was sent to another player")
	ErrOwnMatch           = errors.New("cannot join your own match")
	ErrInsufficientGold   = errors.New("not enough gold for the wager")
	ErrNotEnoughPlayers   = errors.New("both players must be present to start")
)

// MatchRepo is the subset of the storage repository the duel operations
// need. Declared here so tests can supply small mocks.
type MatchRepo interface {
	CreateMatch(m *game.Match) error
	GetMatchByID(id uint) (*game.Match, error)
	FindMatchByJoinCode(code string) (*game.Match, error)
	UpdateMatch(m *game.Match) error
	GetProfileByUUID(uuid string) (*game.User, error)
	// SettleMatchEnd persists the terminal match and applies the zero-sum
	// payout in one transaction; state and gold commit or fail together.
	SettleMatchEnd(m *game.Match, forfeitedUUID string) error
}

// Broadcaster delivers a match's freshly appended outbox entries to its
// participants, in order. Publish is called only after the state mutation
// that produced the events has been persisted.
type Broadcaster interface {
	Publish(m *game.Match, events []game.Event)
}

// matchLocks serializes mutating operations per match. Two players acting on
// the same match never interleave; operations on different matches never
// contend.
type matchLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

var locks = &matchLocks{locks: make(map[uint]*sync.Mutex)}

func (l *matchLocks) lock(matchID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[matchID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[matchID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// emit appends one event to the match outbox with the next sequence number.
// Only ever called under the per-match lock.
func emit(m *game.Match, typ string, detail interface{}) {
	payload := "{}"
	if detail != nil {
		if b, err := json.Marshal(detail); err == nil {
			payload = string(b)
		}
	}
	m.EventSeq++
	m.Events = append(m.Events, game.Event{
		MatchID: m.ID,
		Seq:     m.EventSeq,
		Type:    typ,
		Payload: payload,
	})
}

// mutate runs fn against a freshly loaded match under its lock, persists the
// result and publishes any events fn emitted. A match already in a terminal
// phase fails fast with ErrMatchAlreadyEnded before fn runs.
func mutate(repo MatchRepo, bc Broadcaster, code string, allowTerminal bool, fn func(m *game.Match) error) (*game.Match, error) {
	probe, err := repo.FindMatchByJoinCode(code)
	if err != nil || probe == nil {
		return nil, ErrUnknownMatch
	}
	unlock := locks.lock(probe.ID)
	defer unlock()

	// Reload under the lock so fn always sees committed state.
	m, err := repo.GetMatchByID(probe.ID)
	if err != nil || m == nil {
		return nil, ErrUnknownMatch
	}
	if m.Terminal() && !allowTerminal {
		return nil, ErrMatchAlreadyEnded
	}
	wasSettled := m.WagerSettled
	if err := fn(m); err != nil {
		return nil, err
	}
	// A settlement marked by fn must commit atomically with the match state:
	// a matched pair of gold transfers with a still-fighting stored match
	// would allow a second settlement on the next resolution.
	if m.WagerSettled && !wasSettled {
		if err := repo.SettleMatchEnd(m, m.ForfeitedBy); err != nil {
			return nil, err
		}
	} else if err := repo.UpdateMatch(m); err != nil {
		return nil, err
	}
	if bc != nil && len(m.Events) > 0 {
		bc.Publish(m, m.Events)
	}
	return m, nil
}
