package engine

import "github.com/kingsholm/duel-server/internal/game"

// PushResult is the outcome of applying one signed push to the bar.
type PushResult struct {
	Bar      int
	Complete bool
	// Winner is game.SideChallenger or game.SideOpponent when Complete.
	Winner string
}

// ApplyPush moves the challenger-perspective bar by the signed amount and
// clamps it to [0,100]. A push that reaches or crosses either extreme is a
// victory: 100 for the challenger, 0 for the opponent. The clamp guarantees
// the stored bar never leaves its range even when the push exceeds the
// remaining headroom.
func ApplyPush(bar, signed int) PushResult {
	next := bar + signed
	if next >= 100 {
		return PushResult{Bar: 100, Complete: true, Winner: game.SideChallenger}
	}
	if next <= 0 {
		return PushResult{Bar: 0, Complete: true, Winner: game.SideOpponent}
	}
	return PushResult{Bar: next}
}
