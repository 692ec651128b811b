package engine

import (
	"time"

	"github.com/kingsholm/duel-server/internal/game"
)

// ComposeOdds applies style deltas to a side's base odds. Deltas are
// directional: the side's own style contributes its Self* deltas, the
// opposing side's style contributes its Enemy* deltas.
//
// Redistribution policy: hit and crit are adjusted first and clamped at
// zero; miss is whatever remains to reach 100. When hit+crit would exceed
// 100 (miss negative), hit is reduced before crit until the triple sums to
// 100 again. The result always satisfies miss+hit+crit == 100 with every
// component >= 0.
func ComposeOdds(base game.Odds, own, enemy *game.AttackStyle) game.Odds {
	hit := base.Hit
	crit := base.Crit
	if own != nil {
		hit += own.SelfHitDelta
		crit += own.SelfCritDelta
	}
	if enemy != nil {
		hit += enemy.EnemyHitDelta
		crit += enemy.EnemyCritDelta
	}
	if hit < 0 {
		hit = 0
	}
	if crit < 0 {
		crit = 0
	}
	miss := 100 - hit - crit
	if miss < 0 {
		over := -miss
		if hit >= over {
			hit -= over
		} else {
			crit -= over - hit
			hit = 0
		}
		miss = 0
	}
	return game.Odds{Miss: miss, Hit: hit, Crit: crit}
}

// SwingBudget is the base swing count adjusted by the style's delta,
// floored at one so every side gets at least a single attempt.
func SwingBudget(base int, st *game.AttackStyle) int {
	n := base
	if st != nil {
		n += st.SwingDelta
	}
	if n < 1 {
		n = 1
	}
	return n
}

// RevealStyles finalizes the style-selection stage once both sides locked:
// it computes each side's final odds (own self deltas plus the opponent's
// enemy deltas), swing budgets and feint flags, and moves the match into the
// swinging stage with a fresh deadline. Both sides must already hold a
// locked style.
func RevealStyles(m *game.Match, rules *game.Rules, now time.Time) {
	ch := m.Challenger()
	op := m.OpponentOf(ch)

	chStyle := rules.StyleByID(*ch.StyleID)
	opStyle := rules.StyleByID(*op.StyleID)

	ch.FinalOdds = ComposeOdds(ch.BaseOdds, chStyle, opStyle)
	op.FinalOdds = ComposeOdds(op.BaseOdds, opStyle, chStyle)
	ch.SwingBudget = SwingBudget(rules.BaseSwingCount, chStyle)
	op.SwingBudget = SwingBudget(rules.BaseSwingCount, opStyle)
	ch.Feint = chStyle.Feint
	op.Feint = opStyle.Feint

	m.Stage = game.StageSwinging
	m.StyleExpiresAt = time.Time{}
	m.SwingExpiresAt = now.Add(rules.SwingTimeout)
}
