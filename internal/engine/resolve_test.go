package engine

import (
	"testing"
	"time"

	"github.com/kingsholm/duel-server/internal/game"
)

func testRules() *game.Rules {
	return &game.Rules{
		BaseOdds:       game.Odds{Miss: 60, Hit: 30, Crit: 10},
		BaseSwingCount: 3,
		PushWeights:    game.PushWeights{Miss: 4, Hit: 10},
		CritMultiplier: 1.5,
		StyleTimeout:   45 * time.Second,
		SwingTimeout:   time.Minute,
		Styles: []game.AttackStyle{
			{ID: 1, Name: "Measured"},
			{ID: 2, Name: "Feinting", Feint: true},
		},
	}
}

func fightingMatch(chBest, opBest game.Outcome) *game.Match {
	s1, s2 := uint(1), uint(1)
	return &game.Match{
		Phase: game.PhaseFighting,
		Stage: game.StageSwinging,
		Round: 1,
		Bar:   game.BarStart,
		Sides: []game.Side{
			{PlayerUUID: "p1", PlayerName: "P1", IsChallenger: true, StyleID: &s1, StyleLocked: true, Submitted: true, BestOutcome: chBest},
			{PlayerUUID: "p2", PlayerName: "P2", StyleID: &s2, StyleLocked: true, Submitted: true, BestOutcome: opBest},
		},
	}
}

func TestBreakTie_SingleFeintWins(t *testing.T) {
	winner, detail := breakTie(true, false, 0, 0)
	if winner != game.SideChallenger || detail.Type != game.TiebreakFeintWins {
		t.Fatalf("expected challenger via feint, got %s / %s", winner, detail.Type)
	}
	winner, detail = breakTie(false, true, 0, 0)
	if winner != game.SideOpponent || detail.Type != game.TiebreakFeintWins {
		t.Fatalf("expected opponent via feint, got %s / %s", winner, detail.Type)
	}
	if detail.ChallengerRoll != nil || detail.OpponentRoll != nil {
		t.Fatalf("feint_wins must not carry comparison rolls")
	}
}

func TestBreakTie_LowRollComparison(t *testing.T) {
	winner, detail := breakTie(true, true, 23, 71)
	if winner != game.SideChallenger {
		t.Fatalf("lower roll must win, got %s", winner)
	}
	if detail.Type != game.TiebreakFeintVsFeint {
		t.Fatalf("expected feint_vs_feint, got %s", detail.Type)
	}
	if *detail.ChallengerRoll != 23 || *detail.OpponentRoll != 71 {
		t.Fatalf("detail must carry both rolls")
	}
	// Neither side feinting uses the same comparison.
	winner, _ = breakTie(false, false, 71, 23)
	if winner != game.SideOpponent {
		t.Fatalf("lower roll must win, got %s", winner)
	}
}

func TestBreakTie_EqualRollsParry(t *testing.T) {
	winner, detail := breakTie(true, true, 50, 50)
	if winner != "" {
		t.Fatalf("equal rolls must parry, got winner %s", winner)
	}
	if detail.Type != game.TiebreakFeintVsFeint {
		t.Fatalf("expected feint_vs_feint, got %s", detail.Type)
	}
}

func TestResolveRound_HitBeatsMiss(t *testing.T) {
	rules := testRules()
	m := fightingMatch(game.OutcomeHit, game.OutcomeMiss)

	res := ResolveRound(m, rules, time.Now())

	if res.Winner != game.SideChallenger {
		t.Fatalf("hit must beat miss, got %s", res.Winner)
	}
	if res.Push != 10 {
		t.Fatalf("hit win pushes by the hit weight, got %d", res.Push)
	}
	if m.Bar != 60 {
		t.Fatalf("expected bar 60, got %d", m.Bar)
	}
	if res.MatchComplete || m.Phase != game.PhaseFighting {
		t.Fatalf("match should continue mid-bar")
	}
	if m.Round != 2 || m.Stage != game.StageStyleSelect {
		t.Fatalf("expected next round in style selection, got round=%d stage=%s", m.Round, m.Stage)
	}
	if len(m.Rounds) != 1 || m.Rounds[0].Winner != game.SideChallenger {
		t.Fatalf("round log missing or wrong: %+v", m.Rounds)
	}
}

func TestResolveRound_CritPushUsesMultiplier(t *testing.T) {
	rules := testRules()
	m := fightingMatch(game.OutcomeMiss, game.OutcomeCritical)

	res := ResolveRound(m, rules, time.Now())

	if res.Winner != game.SideOpponent {
		t.Fatalf("critical must beat miss, got %s", res.Winner)
	}
	if res.Push != -15 {
		t.Fatalf("opponent crit must push -15 (10 * 1.5), got %d", res.Push)
	}
	if m.Bar != 35 {
		t.Fatalf("expected bar 35, got %d", m.Bar)
	}
}

func TestResolveRound_MissVsNoneWinsWithSmallPush(t *testing.T) {
	rules := testRules()
	m := fightingMatch(game.OutcomeMiss, game.OutcomeNone)

	res := ResolveRound(m, rules, time.Now())

	if res.Winner != game.SideChallenger {
		t.Fatalf("a miss still outranks no swing, got %s", res.Winner)
	}
	if res.Push != 4 {
		t.Fatalf("miss win pushes by the miss weight, got %d", res.Push)
	}
}

func TestResolveRound_VictoryCompletesMatch(t *testing.T) {
	rules := testRules()
	m := fightingMatch(game.OutcomeCritical, game.OutcomeMiss)
	m.Bar = 92

	res := ResolveRound(m, rules, time.Now())

	if !res.MatchComplete {
		t.Fatalf("crossing 100 must complete the match")
	}
	if m.Bar != 100 {
		t.Fatalf("bar must clamp to 100, got %d", m.Bar)
	}
	if m.Phase != game.PhaseComplete || m.EndReason != game.EndReasonVictory {
		t.Fatalf("unexpected terminal state: phase=%s reason=%s", m.Phase, m.EndReason)
	}
	if m.WinnerUUID != "p1" {
		t.Fatalf("expected challenger as winner, got %s", m.WinnerUUID)
	}
	if !m.StyleExpiresAt.IsZero() || !m.SwingExpiresAt.IsZero() {
		t.Fatalf("deadlines must be cleared on completion")
	}
}

func TestResolveRound_TieWithOneFeint(t *testing.T) {
	rules := testRules()
	m := fightingMatch(game.OutcomeHit, game.OutcomeHit)
	m.Sides[0].Feint = true

	res := ResolveRound(m, rules, time.Now())

	if res.Winner != game.SideChallenger {
		t.Fatalf("the sole feinting side must win ties, got %s", res.Winner)
	}
	if res.Tiebreak == nil || res.Tiebreak.Type != game.TiebreakFeintWins {
		t.Fatalf("expected a feint_wins tiebreak, got %+v", res.Tiebreak)
	}
	if res.Push != 10 {
		t.Fatalf("tie won on hit pushes by the hit weight, got %d", res.Push)
	}
}

func TestResolveRound_NextRoundResetsSides(t *testing.T) {
	rules := testRules()
	m := fightingMatch(game.OutcomeHit, game.OutcomeMiss)
	m.Sides[0].SwingsUsed = 3
	m.Sides[0].SwingBudget = 3
	m.Sides[1].SwingsUsed = 1
	m.Sides[1].SwingBudget = 2
	m.Sides[0].Swings = []game.Swing{{Round: 1, Seq: 1, Roll: 12, Outcome: game.OutcomeHit}}

	now := time.Now()
	ResolveRound(m, rules, now)

	for i := range m.Sides {
		s := &m.Sides[i]
		if s.StyleID != nil || s.StyleLocked || s.Submitted {
			t.Fatalf("side %d per-round state not reset: %+v", i, s)
		}
		if s.SwingsUsed != 0 || s.SwingBudget != 0 || s.BestOutcome != game.OutcomeNone {
			t.Fatalf("side %d counters not reset", i)
		}
	}
	// Swing history survives the reset.
	if len(m.Sides[0].Swings) != 1 {
		t.Fatalf("swing records must be kept across rounds")
	}
	if m.StyleExpiresAt.Before(now) {
		t.Fatalf("new style deadline must be set")
	}
}
