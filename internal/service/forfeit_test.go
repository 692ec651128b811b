package service

import (
	"errors"
	"testing"
	"time"

	"github.com/kingsholm/duel-server/internal/game"
)

func TestForfeit_OpponentWins(t *testing.T) {
	repo := newMockRepo()
	bc := &mockBroadcaster{}
	rules := testServiceRules()
	m := fightingFixture(t, repo, rules)

	got, err := Forfeit(repo, bc, m.JoinCode, "p2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Phase != game.PhaseComplete || got.EndReason != game.EndReasonForfeit {
		t.Fatalf("unexpected terminal state: %s / %s", got.Phase, got.EndReason)
	}
	if got.WinnerUUID != "p1" {
		t.Fatalf("forfeit must hand victory to the opponent, got %s", got.WinnerUUID)
	}
	if !repo.statsCalled || repo.statsLoser != "p2" {
		t.Fatalf("stats must settle with the forfeiting player as loser")
	}
	if !hasType(bc.lastTypes(), game.EventEnded) {
		t.Fatalf("ended event not published")
	}

	if _, err := Forfeit(repo, bc, m.JoinCode, "p1"); err != ErrMatchAlreadyEnded {
		t.Fatalf("expected ErrMatchAlreadyEnded, got %v", err)
	}
}

// failingSettleRepo rejects the settlement transaction, as a DB error
// during the combined save-and-settle would.
type failingSettleRepo struct {
	*mockRepo
}

func (r *failingSettleRepo) SettleMatchEnd(m *game.Match, forfeitedUUID string) error {
	return errors.New("settle failed")
}

func TestForfeit_FailedSettlementSettlesNothing(t *testing.T) {
	inner := newMockRepo()
	rules := testServiceRules()
	m := fightingFixture(t, inner, rules)
	repo := &failingSettleRepo{mockRepo: inner}

	if _, err := Forfeit(repo, nil, m.JoinCode, "p2"); err == nil {
		t.Fatalf("forfeit must fail when settlement cannot commit")
	}
	// Gold and state commit together: a rejected transaction moves no gold.
	if inner.statsCalled {
		t.Fatalf("no stats may be applied when the settlement transaction fails")
	}
}

func TestForfeit_SettlesAtomicallyWithMatchSave(t *testing.T) {
	repo := newMockRepo()
	rules := testServiceRules()
	m := fightingFixture(t, repo, rules)
	updatesBefore := repo.updated

	if _, err := Forfeit(repo, nil, m.JoinCode, "p2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The terminal transition goes through the combined save-and-settle
	// path, not a separate match update followed by a gold transfer.
	if repo.updated != updatesBefore {
		t.Fatalf("match-ending mutation must not use the plain update path")
	}
	if !repo.statsCalled || repo.statsLoser != "p2" {
		t.Fatalf("settlement must run with the forfeiting player as loser")
	}
	if got := repo.matches[m.ID]; got.Phase != game.PhaseComplete || !got.WagerSettled {
		t.Fatalf("terminal state must be persisted by the settlement: %s / %v", got.Phase, got.WagerSettled)
	}
}

func TestForfeit_OnlyWhileFighting(t *testing.T) {
	repo := newMockRepo()
	creator := &game.User{PlayerUUID: "p1", PlayerName: "P1", Gold: 100}
	m, _ := CreateMatch(repo, nil, creator, 0, "", "CODE0001")

	if _, err := Forfeit(repo, nil, m.JoinCode, "p1"); err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestClaimTimeout_TooEarly(t *testing.T) {
	repo := newMockRepo()
	rules := testServiceRules()
	m := fightingFixture(t, repo, rules)

	// Caller has not locked their own style yet.
	if _, err := ClaimTimeout(repo, nil, m.JoinCode, "p1"); err != ErrTooEarly {
		t.Fatalf("expected ErrTooEarly before doing own part, got %v", err)
	}

	if _, _, err := LockStyle(repo, nil, rules, m.JoinCode, "p1", 1); err != nil {
		t.Fatalf("lock: %v", err)
	}
	// Deadline still in the future.
	if _, err := ClaimTimeout(repo, nil, m.JoinCode, "p1"); err != ErrTooEarly {
		t.Fatalf("expected ErrTooEarly before the deadline, got %v", err)
	}
}

func TestClaimTimeout_StyleDeadline(t *testing.T) {
	repo := newMockRepo()
	bc := &mockBroadcaster{}
	rules := testServiceRules()
	m := fightingFixture(t, repo, rules)

	if _, _, err := LockStyle(repo, bc, rules, m.JoinCode, "p1", 1); err != nil {
		t.Fatalf("lock: %v", err)
	}
	repo.matches[m.ID].StyleExpiresAt = time.Now().Add(-time.Second)

	got, err := ClaimTimeout(repo, bc, m.JoinCode, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Phase != game.PhaseComplete || got.EndReason != game.EndReasonTimeout {
		t.Fatalf("unexpected terminal state: %s / %s", got.Phase, got.EndReason)
	}
	if got.WinnerUUID != "p1" {
		t.Fatalf("claimant must win, got %s", got.WinnerUUID)
	}
	if repo.statsLoser != "p2" {
		t.Fatalf("timed-out player must be recorded as loser")
	}
}

func TestClaimTimeout_SwingDeadline(t *testing.T) {
	repo := newMockRepo()
	rules := testServiceRules()
	m := swingingFixture(t, repo, rules)

	if _, _, err := Swing(repo, nil, rules, m.JoinCode, "p1"); err != nil {
		t.Fatalf("swing: %v", err)
	}
	if _, err := Stop(repo, nil, rules, m.JoinCode, "p1"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	repo.matches[m.ID].SwingExpiresAt = time.Now().Add(-time.Second)

	got, err := ClaimTimeout(repo, nil, m.JoinCode, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WinnerUUID != "p1" || got.EndReason != game.EndReasonTimeout {
		t.Fatalf("unexpected result: winner=%s reason=%s", got.WinnerUUID, got.EndReason)
	}
}

func TestClaimTimeout_RejectedWithoutOwnSubmission(t *testing.T) {
	repo := newMockRepo()
	rules := testServiceRules()
	m := swingingFixture(t, repo, rules)

	repo.matches[m.ID].SwingExpiresAt = time.Now().Add(-time.Second)

	// Neither side has submitted; the claimant must do their part first.
	if _, err := ClaimTimeout(repo, nil, m.JoinCode, "p1"); err != ErrTooEarly {
		t.Fatalf("claim must fail before the caller submits, got %v", err)
	}
}
