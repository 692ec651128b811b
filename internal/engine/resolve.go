package engine

import (
	"time"

	"github.com/kingsholm/duel-server/internal/game"
)

// TiebreakDetail records how an outcome tie was broken.
type TiebreakDetail struct {
	Type string `json:"type"`
	// Rolls are only present for a feint_vs_feint comparison.
	ChallengerRoll *int `json:"challenger_roll,omitempty"`
	OpponentRoll   *int `json:"opponent_roll,omitempty"`
}

// RoundResult summarises one resolved round. Winner is a side label, empty
// for a parried round. Push is signed from the challenger's perspective.
type RoundResult struct {
	Number         int             `json:"number"`
	ChallengerBest game.Outcome    `json:"challenger_best"`
	OpponentBest   game.Outcome    `json:"opponent_best"`
	Winner         string          `json:"winner"`
	Parried        bool            `json:"parried"`
	Push           int             `json:"push"`
	Tiebreak       *TiebreakDetail `json:"tiebreak,omitempty"`
	Bar            int             `json:"bar"`
	MatchComplete  bool            `json:"match_complete"`
}

// breakTie decides a round where both sides achieved the same best outcome.
// Exactly one feint wins outright. Otherwise both rolls are compared and the
// lower one wins (same low-is-better convention as swings); exact equality
// is an explicit parry, never a silent default.
func breakTie(chFeint, opFeint bool, chRoll, opRoll int) (winner string, detail *TiebreakDetail) {
	if chFeint != opFeint {
		d := &TiebreakDetail{Type: game.TiebreakFeintWins}
		if chFeint {
			return game.SideChallenger, d
		}
		return game.SideOpponent, d
	}
	d := &TiebreakDetail{Type: game.TiebreakFeintVsFeint, ChallengerRoll: &chRoll, OpponentRoll: &opRoll}
	switch {
	case chRoll < opRoll:
		return game.SideChallenger, d
	case opRoll < chRoll:
		return game.SideOpponent, d
	default:
		return "", d
	}
}

// ResolveRound compares both sides' best outcomes, breaks ties, applies the
// bar push and either completes the match or resets state for the next
// round. It must only be called once both sides are submitted, inside the
// same critical section as the submission that completed the pair; the
// per-round reset it performs is what makes a duplicate resolution
// impossible.
func ResolveRound(m *game.Match, rules *game.Rules, now time.Time) *RoundResult {
	ch := m.Challenger()
	op := m.OpponentOf(ch)

	res := &RoundResult{
		Number:         m.Round,
		ChallengerBest: ch.BestOutcome,
		OpponentBest:   op.BestOutcome,
	}

	switch {
	case ch.BestOutcome.Rank() > op.BestOutcome.Rank():
		res.Winner = game.SideChallenger
	case op.BestOutcome.Rank() > ch.BestOutcome.Rank():
		res.Winner = game.SideOpponent
	default:
		chRoll := rollPercentile()
		opRoll := rollPercentile()
		res.Winner, res.Tiebreak = breakTie(ch.Feint, op.Feint, chRoll, opRoll)
		if res.Tiebreak.Type == game.TiebreakFeintVsFeint {
			ch.TiebreakRoll = res.Tiebreak.ChallengerRoll
			op.TiebreakRoll = res.Tiebreak.OpponentRoll
		}
		res.Parried = res.Winner == ""
	}

	if res.Winner != "" {
		winSide := ch
		if res.Winner == game.SideOpponent {
			winSide = op
		}
		push := rules.PushFor(winSide.BestOutcome)
		if res.Winner == game.SideOpponent {
			push = -push
		}
		res.Push = push

		applied := ApplyPush(m.Bar, push)
		m.Bar = applied.Bar
		res.Bar = applied.Bar
		if applied.Complete {
			res.MatchComplete = true
			m.Phase = game.PhaseComplete
			m.Stage = game.StageNone
			m.EndReason = game.EndReasonVictory
			if applied.Winner == game.SideChallenger {
				m.WinnerUUID = ch.PlayerUUID
				m.Message = "Victory for " + ch.PlayerName
			} else {
				m.WinnerUUID = op.PlayerUUID
				m.Message = "Victory for " + op.PlayerName
			}
		}
	} else {
		res.Bar = m.Bar
	}

	m.Rounds = append(m.Rounds, game.RoundLog{
		MatchID:            m.ID,
		Number:             m.Round,
		ChallengerStyle:    styleName(ch, rules),
		OpponentStyle:      styleName(op, rules),
		ChallengerBest:     ch.BestOutcome,
		OpponentBest:       op.BestOutcome,
		Winner:             res.Winner,
		Push:               res.Push,
		Parried:            res.Parried,
		TiebreakType:       tiebreakType(res.Tiebreak),
		TiebreakChallenger: ch.TiebreakRoll,
		TiebreakOpponent:   op.TiebreakRoll,
	})

	if !res.MatchComplete {
		startNextRound(m, rules, now)
	} else {
		m.StyleExpiresAt = time.Time{}
		m.SwingExpiresAt = time.Time{}
	}
	return res
}

// startNextRound clears per-round state and opens a new style-selection
// stage. Swing records are kept (they carry their round number); everything
// else resets.
func startNextRound(m *game.Match, rules *game.Rules, now time.Time) {
	m.Round++
	m.Stage = game.StageStyleSelect
	m.StyleExpiresAt = now.Add(rules.StyleTimeout)
	m.SwingExpiresAt = time.Time{}
	for i := range m.Sides {
		s := &m.Sides[i]
		s.StyleID = nil
		s.StyleLocked = false
		s.BaseOdds = game.Odds{}
		s.FinalOdds = game.Odds{}
		s.SwingBudget = 0
		s.SwingsUsed = 0
		s.Submitted = false
		s.BestOutcome = game.OutcomeNone
		s.Feint = false
		s.TiebreakRoll = nil
	}
	m.Message = "New round. Choose your attack style."
}

func styleName(s *game.Side, rules *game.Rules) string {
	if s.StyleID == nil {
		return ""
	}
	if st := rules.StyleByID(*s.StyleID); st != nil {
		return st.Name
	}
	return ""
}

func tiebreakType(d *TiebreakDetail) string {
	if d == nil {
		return ""
	}
	return d.Type
}
