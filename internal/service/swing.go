package service

import (
	"time"

	"github.com/kingsholm/duel-server/internal/engine"
	"github.com/kingsholm/duel-server/internal/game"
)

// SwingResult is the response to one swing.
type SwingResult struct {
	Roll            int          `json:"roll"`
	Outcome         game.Outcome `json:"outcome"`
	SwingsRemaining int          `json:"swings_remaining"`
	Submitted       bool         `json:"submitted"`
	RoundResolved   bool         `json:"round_resolved"`
}

type swingDetail struct {
	ActorUUID       string       `json:"actor_uuid"`
	Seq             int          `json:"seq"`
	Roll            int          `json:"roll"`
	Outcome         game.Outcome `json:"outcome"`
	SwingsRemaining int          `json:"swings_remaining"`
}

type submittedDetail struct {
	ActorUUID string `json:"actor_uuid"`
	Stopped   bool   `json:"stopped"`
}

type roundResolvedDetail struct {
	Number       int    `json:"number"`
	WinnerUUID   string `json:"winner_uuid,omitempty"`
	Parried      bool   `json:"parried"`
	TiebreakType string `json:"tiebreak_type,omitempty"`
}

type endedDetail struct {
	WinnerUUID string `json:"winner_uuid"`
	Reason     string `json:"reason"`
}

// Swing executes one attack attempt for the caller. Consuming the last
// budgeted swing submits the side; when both sides are submitted the round
// resolves inside the same critical section.
func Swing(repo MatchRepo, bc Broadcaster, rules *game.Rules, code, callerUUID string) (*game.Match, *SwingResult, error) {
	var result *SwingResult
	m, err := mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.Phase != game.PhaseFighting || m.Stage != game.StageSwinging {
			return ErrNotYourTurnOrPhase
		}
		side := m.SideOf(callerUUID)
		if side == nil {
			return ErrPlayerNotInMatch
		}
		if side.Submitted || side.SwingsUsed >= side.SwingBudget {
			return ErrBudgetExhausted
		}

		sw := engine.PerformSwing(m, side)
		remaining := side.SwingBudget - side.SwingsUsed
		emit(m, game.EventSwing, swingDetail{
			ActorUUID:       callerUUID,
			Seq:             sw.Seq,
			Roll:            sw.Roll,
			Outcome:         sw.Outcome,
			SwingsRemaining: remaining,
		})
		if side.Submitted {
			emit(m, game.EventPlayerSubmitted, submittedDetail{ActorUUID: callerUUID})
		}
		result = &SwingResult{
			Roll:            sw.Roll,
			Outcome:         sw.Outcome,
			SwingsRemaining: remaining,
			Submitted:       side.Submitted,
		}
		result.RoundResolved = resolveIfReady(m, rules)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return m, result, nil
}

// Stop lets a player end their swinging early and bank their best outcome.
// Stopping before the first swing is not allowed.
func Stop(repo MatchRepo, bc Broadcaster, rules *game.Rules, code, callerUUID string) (*game.Match, error) {
	return mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.Phase != game.PhaseFighting || m.Stage != game.StageSwinging {
			return ErrNotYourTurnOrPhase
		}
		side := m.SideOf(callerUUID)
		if side == nil {
			return ErrPlayerNotInMatch
		}
		if side.Submitted {
			return ErrInvalidState
		}
		if side.SwingsUsed == 0 {
			return ErrInvalidState
		}
		side.Submitted = true
		emit(m, game.EventPlayerSubmitted, submittedDetail{ActorUUID: callerUUID, Stopped: true})
		resolveIfReady(m, rules)
		return nil
	})
}

// resolveIfReady resolves the round when both sides have submitted. It runs
// inside the caller's critical section, so the round resolves exactly once:
// the reset performed by the resolver means no later call can see both
// sides submitted for the same round again.
func resolveIfReady(m *game.Match, rules *game.Rules) bool {
	ch := m.Challenger()
	op := m.OpponentOf(ch)
	if ch == nil || op == nil || !ch.Submitted || !op.Submitted {
		return false
	}

	res := engine.ResolveRound(m, rules, time.Now())
	detail := roundResolvedDetail{Number: res.Number, Parried: res.Parried}
	if res.Tiebreak != nil {
		detail.TiebreakType = res.Tiebreak.Type
	}
	switch res.Winner {
	case game.SideChallenger:
		detail.WinnerUUID = ch.PlayerUUID
	case game.SideOpponent:
		detail.WinnerUUID = op.PlayerUUID
	}
	emit(m, game.EventRoundResolved, detail)

	if res.MatchComplete {
		settleWager(m, "")
		emit(m, game.EventEnded, endedDetail{WinnerUUID: m.WinnerUUID, Reason: m.EndReason})
	}
	return true
}

// settleWager marks the zero-sum payout due, exactly once per match. The
// transfer itself happens in the same repository transaction that persists
// the terminal match (see mutate).
func settleWager(m *game.Match, forfeitedUUID string) {
	if m.WagerSettled || m.WinnerUUID == "" {
		return
	}
	m.WagerSettled = true
	m.ForfeitedBy = forfeitedUUID
}
