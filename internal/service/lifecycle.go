package service

import (
	"time"

	"github.com/kingsholm/duel-server/internal/game"
)

type invitationDetail struct {
	ActorUUID string `json:"actor_uuid"`
	WagerGold int    `json:"wager_gold"`
}

type joinedDetail struct {
	ActorUUID  string `json:"actor_uuid"`
	PlayerName string `json:"player_name"`
}

type cancelledDetail struct {
	ActorUUID string `json:"actor_uuid,omitempty"`
	Reason    string `json:"reason"`
}

// CreateMatch opens a new duel. With an inviteeUUID it is a direct challenge
// waiting for acceptance; otherwise it sits in the open lobby list. The
// creator must be able to cover the wager.
func CreateMatch(repo MatchRepo, bc Broadcaster, creator *game.User, wagerGold int, inviteeUUID, joinCode string) (*game.Match, error) {
	if wagerGold < 0 {
		return nil, ErrInvalidState
	}
	if creator.Gold < wagerGold {
		return nil, ErrInsufficientGold
	}

	m := &game.Match{
		JoinCode:    joinCode,
		WagerGold:   wagerGold,
		InviteeUUID: inviteeUUID,
		Phase:       game.PhaseWaiting,
		Bar:         game.BarStart,
		Sides: []game.Side{
			{PlayerUUID: creator.PlayerUUID, PlayerName: creator.PlayerName, IsChallenger: true},
		},
		Message: "Duel created. Waiting for an opponent.",
	}
	if inviteeUUID != "" {
		m.Phase = game.PhasePendingAcceptance
		m.Message = "Challenge sent. Waiting for a response."
	}
	if err := repo.CreateMatch(m); err != nil {
		return nil, err
	}
	if inviteeUUID != "" {
		// The invitation event exists before the invitee has a side; it is
		// delivered once they connect and replay the outbox.
		if _, err := mutate(repo, bc, m.JoinCode, false, func(mm *game.Match) error {
			emit(mm, game.EventInvitation, invitationDetail{ActorUUID: creator.PlayerUUID, WagerGold: wagerGold})
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// JoinMatch adds a second player to an open match.
func JoinMatch(repo MatchRepo, bc Broadcaster, code string, joiner *game.User) (*game.Match, error) {
	return mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.Phase != game.PhaseWaiting {
			return ErrNotJoinable
		}
		if m.InviteeUUID != "" {
			return ErrChallengeNotForYou
		}
		if m.SideOf(joiner.PlayerUUID) != nil {
			return ErrOwnMatch
		}
		if len(m.Sides) >= 2 {
			return ErrNotJoinable
		}
		if joiner.Gold < m.WagerGold {
			return ErrInsufficientGold
		}
		m.Sides = append(m.Sides, game.Side{
			MatchID:    m.ID,
			PlayerUUID: joiner.PlayerUUID,
			PlayerName: joiner.PlayerName,
		})
		m.Phase = game.PhaseReady
		m.Message = "Opponent found. Ready to fight."
		emit(m, game.EventOpponentJoined, joinedDetail{ActorUUID: joiner.PlayerUUID, PlayerName: joiner.PlayerName})
		return nil
	})
}

// AcceptChallenge lets the invited player take their side of a direct
// challenge.
func AcceptChallenge(repo MatchRepo, bc Broadcaster, code string, caller *game.User) (*game.Match, error) {
	return mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.Phase != game.PhasePendingAcceptance {
			return ErrInvalidState
		}
		if m.InviteeUUID != caller.PlayerUUID {
			return ErrChallengeNotForYou
		}
		if caller.Gold < m.WagerGold {
			return ErrInsufficientGold
		}
		m.Sides = append(m.Sides, game.Side{
			MatchID:    m.ID,
			PlayerUUID: caller.PlayerUUID,
			PlayerName: caller.PlayerName,
		})
		m.Phase = game.PhaseReady
		m.Message = "Challenge accepted. Ready to fight."
		emit(m, game.EventOpponentJoined, joinedDetail{ActorUUID: caller.PlayerUUID, PlayerName: caller.PlayerName})
		return nil
	})
}

// DeclineChallenge cancels a direct challenge before it starts.
func DeclineChallenge(repo MatchRepo, bc Broadcaster, code, callerUUID string) (*game.Match, error) {
	return mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.Phase != game.PhasePendingAcceptance {
			return ErrInvalidState
		}
		if m.InviteeUUID != callerUUID {
			return ErrChallengeNotForYou
		}
		m.Phase = game.PhaseCancelled
		m.EndReason = game.EndReasonDeclined
		m.Message = "Challenge declined."
		emit(m, game.EventCancelled, cancelledDetail{ActorUUID: callerUUID, Reason: game.EndReasonDeclined})
		return nil
	})
}

// CancelMatch cancels a match that has not started fighting. Once swords are
// drawn the only ways out are victory, forfeit or timeout claim.
func CancelMatch(repo MatchRepo, bc Broadcaster, code, callerUUID string) (*game.Match, error) {
	return mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.SideOf(callerUUID) == nil && m.InviteeUUID != callerUUID {
			return ErrPlayerNotInMatch
		}
		if m.Phase == game.PhaseFighting {
			return ErrInvalidState
		}
		m.Phase = game.PhaseCancelled
		m.EndReason = game.EndReasonCancelled
		m.Message = "Duel cancelled."
		emit(m, game.EventCancelled, cancelledDetail{ActorUUID: callerUUID, Reason: game.EndReasonCancelled})
		return nil
	})
}

// StartMatch moves a ready match into the fighting phase and opens the first
// round's style selection.
func StartMatch(repo MatchRepo, bc Broadcaster, rules *game.Rules, code, callerUUID string) (*game.Match, error) {
	return mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.SideOf(callerUUID) == nil {
			return ErrPlayerNotInMatch
		}
		if m.Phase != game.PhaseReady {
			if m.Phase == game.PhaseFighting {
				return ErrInvalidState
			}
			return ErrNotEnoughPlayers
		}
		m.Phase = game.PhaseFighting
		m.Stage = game.StageStyleSelect
		m.Round = 1
		m.Bar = game.BarStart
		m.StyleExpiresAt = time.Now().Add(rules.StyleTimeout)
		m.Message = "The duel has begun. Choose your attack style."
		emit(m, game.EventStarted, map[string]int{"round": m.Round})
		return nil
	})
}

// ExpireLobby is invoked by the lobby janitor for a match that never reached
// fighting within the TTL.
func ExpireLobby(repo MatchRepo, bc Broadcaster, code string) (*game.Match, error) {
	return mutate(repo, bc, code, false, func(m *game.Match) error {
		if m.Phase == game.PhaseFighting {
			return ErrInvalidState
		}
		m.Phase = game.PhaseCancelled
		m.EndReason = game.EndReasonExpired
		m.Message = "Duel expired before it started."
		emit(m, game.EventCancelled, cancelledDetail{Reason: game.EndReasonExpired})
		return nil
	})
}
