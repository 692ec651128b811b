package engine

import (
	"testing"

	"github.com/kingsholm/duel-server/internal/game"
)

func TestClassifyRoll_Bands(t *testing.T) {
	odds := game.Odds{Miss: 60, Hit: 30, Crit: 10}
	cases := []struct {
		roll int
		want game.Outcome
	}{
		{0, game.OutcomeCritical},
		{9, game.OutcomeCritical},
		{10, game.OutcomeHit},
		{39, game.OutcomeHit},
		{40, game.OutcomeMiss},
		{99, game.OutcomeMiss},
		{100, game.OutcomeMiss},
	}
	for _, c := range cases {
		if got := ClassifyRoll(c.roll, odds); got != c.want {
			t.Fatalf("roll %d: expected %s, got %s", c.roll, c.want, got)
		}
	}
}

func TestClassifyRoll_EdgeFallsToHighestNonZeroBand(t *testing.T) {
	// With no miss share, 100 lands in hit.
	if got := ClassifyRoll(100, game.Odds{Miss: 0, Hit: 90, Crit: 10}); got != game.OutcomeHit {
		t.Fatalf("expected hit, got %s", got)
	}
	// Pure crit odds leave only crit for the edge value.
	if got := ClassifyRoll(100, game.Odds{Miss: 0, Hit: 0, Crit: 100}); got != game.OutcomeCritical {
		t.Fatalf("expected critical, got %s", got)
	}
}

func TestBetterOutcome(t *testing.T) {
	if got := BetterOutcome(game.OutcomeMiss, game.OutcomeHit); got != game.OutcomeHit {
		t.Fatalf("expected hit, got %s", got)
	}
	if got := BetterOutcome(game.OutcomeCritical, game.OutcomeHit); got != game.OutcomeCritical {
		t.Fatalf("expected critical, got %s", got)
	}
	if got := BetterOutcome(game.OutcomeNone, game.OutcomeMiss); got != game.OutcomeMiss {
		t.Fatalf("expected miss, got %s", got)
	}
}

func TestPerformSwing_ConsumesBudgetAndSubmits(t *testing.T) {
	m := &game.Match{Round: 1}
	s := &game.Side{
		PlayerUUID:  "p1",
		FinalOdds:   game.Odds{Miss: 60, Hit: 30, Crit: 10},
		SwingBudget: 2,
	}

	sw := PerformSwing(m, s)
	if sw.Seq != 1 || sw.Round != 1 {
		t.Fatalf("unexpected swing record: %+v", sw)
	}
	if sw.Roll < 0 || sw.Roll > 100 {
		t.Fatalf("roll out of range: %d", sw.Roll)
	}
	if s.SwingsUsed != 1 || s.Submitted {
		t.Fatalf("first swing should not submit a budget of 2")
	}
	if s.BestOutcome != sw.Outcome {
		t.Fatalf("best outcome should track the only swing")
	}

	PerformSwing(m, s)
	if s.SwingsUsed != 2 || !s.Submitted {
		t.Fatalf("consuming the full budget must submit the side")
	}
	if len(s.Swings) != 2 {
		t.Fatalf("expected 2 swing records, got %d", len(s.Swings))
	}
}
