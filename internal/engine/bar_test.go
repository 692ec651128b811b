package engine

import (
	"testing"

	"github.com/kingsholm/duel-server/internal/game"
)

func TestApplyPush_MovesWithinRange(t *testing.T) {
	res := ApplyPush(50, 10)
	if res.Bar != 60 || res.Complete {
		t.Fatalf("unexpected result: %+v", res)
	}
	res = ApplyPush(50, -4)
	if res.Bar != 46 || res.Complete {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestApplyPush_ClampsAndDeclaresWinner(t *testing.T) {
	res := ApplyPush(92, 15)
	if res.Bar != 100 || !res.Complete || res.Winner != game.SideChallenger {
		t.Fatalf("expected challenger victory at clamped 100, got %+v", res)
	}
	res = ApplyPush(3, -10)
	if res.Bar != 0 || !res.Complete || res.Winner != game.SideOpponent {
		t.Fatalf("expected opponent victory at clamped 0, got %+v", res)
	}
}

func TestApplyPush_ExactBoundaryCompletes(t *testing.T) {
	res := ApplyPush(90, 10)
	if !res.Complete || res.Winner != game.SideChallenger {
		t.Fatalf("reaching exactly 100 must complete the match, got %+v", res)
	}
	res = ApplyPush(10, -10)
	if !res.Complete || res.Winner != game.SideOpponent {
		t.Fatalf("reaching exactly 0 must complete the match, got %+v", res)
	}
}
