package service

import (
	"time"

	"github.com/kingsholm/duel-server/internal/game"
)

// Forfeit ends the match immediately with the caller as loser. Allowed at
// any point while the fight is on; unconditional and irrevocable.
func Forfeit(repo MatchRepo, bc Broadcaster, code, callerUUID string) (*game.Match, error) {
	return mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.Phase != game.PhaseFighting {
			return ErrInvalidState
		}
		side := m.SideOf(callerUUID)
		if side == nil {
			return ErrPlayerNotInMatch
		}
		winner := m.OpponentOf(side)
		endFight(m, winner, side, game.EndReasonForfeit, side.PlayerName+" forfeited the duel.")
		return nil
	})
}

// ClaimTimeout resolves an unresponsive opponent. The claim succeeds only if
// the opposing side's deadline for the current stage has passed and the
// caller has already done their part (locked or submitted). Validated
// against the stored deadline at call time; nothing polls.
func ClaimTimeout(repo MatchRepo, bc Broadcaster, code, callerUUID string) (*game.Match, error) {
	return mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.Phase != game.PhaseFighting {
			return ErrInvalidState
		}
		side := m.SideOf(callerUUID)
		if side == nil {
			return ErrPlayerNotInMatch
		}
		other := m.OpponentOf(side)
		now := time.Now()

		var deadline time.Time
		var callerDone, otherDone bool
		switch m.Stage {
		case game.StageStyleSelect:
			deadline = m.StyleExpiresAt
			callerDone = side.StyleLocked
			otherDone = other.StyleLocked
		case game.StageSwinging:
			deadline = m.SwingExpiresAt
			callerDone = side.Submitted
			otherDone = other.Submitted
		default:
			return ErrInvalidState
		}
		if !callerDone || otherDone || deadline.IsZero() || now.Before(deadline) {
			return ErrTooEarly
		}

		endFight(m, side, other, game.EndReasonTimeout, other.PlayerName+" ran out of time.")
		return nil
	})
}

// endFight marks the match complete with the given winner, marks the wager
// for settlement and emits the ended event. Runs under the per-match lock.
func endFight(m *game.Match, winner, loser *game.Side, reason, message string) {
	m.Phase = game.PhaseComplete
	m.Stage = game.StageNone
	m.WinnerUUID = winner.PlayerUUID
	m.EndReason = reason
	m.Message = message
	m.StyleExpiresAt = time.Time{}
	m.SwingExpiresAt = time.Time{}
	settleWager(m, loser.PlayerUUID)
	emit(m, game.EventEnded, endedDetail{WinnerUUID: m.WinnerUUID, Reason: reason})
}
