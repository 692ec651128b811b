package engine

import (
	"math/rand"

	"github.com/kingsholm/duel-server/internal/game"
)

// rollPercentile draws a uniform value in [0,100]. Low rolls are favorable.
func rollPercentile() int {
	return rand.Intn(101)
}

// ClassifyRoll maps a raw percentile roll onto the bands derived from the
// locked odds. Because low rolls are favorable, the crit band occupies the
// low end [0, crit), hit the middle [crit, crit+hit) and miss the high end.
// The edge value 100 falls into the highest band with non-zero width, so a
// roll of 100 is never a crit while miss or hit have any share.
func ClassifyRoll(roll int, odds game.Odds) game.Outcome {
	switch {
	case roll < odds.Crit:
		return game.OutcomeCritical
	case roll < odds.Crit+odds.Hit:
		return game.OutcomeHit
	case odds.Miss > 0:
		return game.OutcomeMiss
	case odds.Hit > 0:
		return game.OutcomeHit
	default:
		return game.OutcomeCritical
	}
}

// BetterOutcome returns the higher-ranked of two outcomes.
func BetterOutcome(a, b game.Outcome) game.Outcome {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// PerformSwing executes one swing for the given side: draws a roll,
// classifies it against the side's final odds, appends the immutable swing
// record and updates the side's budget and best outcome. When the last
// budgeted swing is consumed the side is marked submitted. The caller is
// responsible for phase/budget preconditions and for triggering round
// resolution once both sides are submitted.
func PerformSwing(m *game.Match, s *game.Side) *game.Swing {
	roll := rollPercentile()
	sw := game.Swing{
		SideID:  s.ID,
		Round:   m.Round,
		Seq:     s.SwingsUsed + 1,
		Roll:    roll,
		Outcome: ClassifyRoll(roll, s.FinalOdds),
	}
	s.Swings = append(s.Swings, sw)
	s.SwingsUsed++
	s.BestOutcome = BetterOutcome(s.BestOutcome, sw.Outcome)
	if s.SwingsUsed >= s.SwingBudget {
		s.Submitted = true
	}
	return &s.Swings[len(s.Swings)-1]
}
