package service

import (
	"time"

	"github.com/kingsholm/duel-server/internal/engine"
	"github.com/kingsholm/duel-server/internal/game"
)

// LockStyleResult is the response to a style lock. Final odds and the swing
// budget are only known once both sides have locked; the earlier locker
// receives them via the styles_revealed event instead.
type LockStyleResult struct {
	BaseOdds    game.Odds  `json:"base_odds"`
	FinalOdds   *game.Odds `json:"final_odds,omitempty"`
	SwingBudget int        `json:"swing_budget,omitempty"`
	Feint       bool       `json:"feint"`
	Revealed    bool       `json:"revealed"`
}

type styleLockedDetail struct {
	ActorUUID string `json:"actor_uuid"`
}

// LockStyle records a player's attack style choice for the current round.
// Once both sides have locked, the styles are revealed: final odds and
// swing budgets are computed and the match moves to the swinging stage.
func LockStyle(repo MatchRepo, bc Broadcaster, rules *game.Rules, code, callerUUID string, styleID uint) (*game.Match, *LockStyleResult, error) {
	var result *LockStyleResult
	m, err := mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.Phase != game.PhaseFighting || m.Stage != game.StageStyleSelect {
			return ErrInvalidState
		}
		side := m.SideOf(callerUUID)
		if side == nil {
			return ErrPlayerNotInMatch
		}
		if side.StyleLocked {
			return ErrAlreadyLocked
		}
		st := rules.StyleByID(styleID)
		if st == nil {
			return ErrUnknownStyle
		}

		id := styleID
		side.StyleID = &id
		side.StyleLocked = true
		side.BaseOdds = rules.BaseOdds
		emit(m, game.EventStyleLocked, styleLockedDetail{ActorUUID: callerUUID})

		result = &LockStyleResult{BaseOdds: side.BaseOdds, Feint: st.Feint}

		other := m.OpponentOf(side)
		if other != nil && other.StyleLocked {
			engine.RevealStyles(m, rules, time.Now())
			m.Message = "Styles revealed. Swing!"
			// The snapshot carried with the event exposes both sides' base
			// and final odds and budgets for symmetric display.
			emit(m, game.EventStylesRevealed, nil)
			final := side.FinalOdds
			result.FinalOdds = &final
			result.SwingBudget = side.SwingBudget
			result.Revealed = true
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return m, result, nil
}
