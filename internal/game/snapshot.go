package game

import "time"

// SideView is one side of a match as seen by a specific viewer. The same
// struct serves "you" and "opponent"; what gets populated depends on which
// one it is and on the current combat stage.
type SideView struct {
	PlayerUUID   string  `json:"player_uuid"`
	PlayerName   string  `json:"player_name"`
	StyleID      *uint   `json:"style_id,omitempty"`
	StyleName    string  `json:"style_name,omitempty"`
	StyleLocked  bool    `json:"style_locked"`
	BaseOdds     *Odds   `json:"base_odds,omitempty"`
	FinalOdds    *Odds   `json:"final_odds,omitempty"`
	SwingBudget  int     `json:"swing_budget"`
	SwingsUsed   int     `json:"swings_used"`
	Submitted    bool    `json:"submitted"`
	BestOutcome  Outcome `json:"best_outcome"`
	Feint        bool    `json:"feint"`
	Swings       []Swing `json:"swings"`
	TiebreakRoll *int    `json:"tiebreak_roll,omitempty"`
}

// RoundView is a resolved round re-keyed for one viewer: the winner becomes
// "you"/"opponent"/"parried" and the push is signed toward the viewer.
type RoundView struct {
	Number       int     `json:"number"`
	YourStyle    string  `json:"your_style"`
	TheirStyle   string  `json:"their_style"`
	YourBest     Outcome `json:"your_best"`
	TheirBest    Outcome `json:"their_best"`
	Winner       string  `json:"winner"`
	Push         int     `json:"push"`
	TiebreakType string  `json:"tiebreak_type,omitempty"`
	YourRoll     *int    `json:"your_tiebreak_roll,omitempty"`
	TheirRoll    *int    `json:"their_tiebreak_roll,omitempty"`
}

// Snapshot is the full match state from one participant's perspective.
// Every mutating response and every pushed event carries one of these;
// clients never see raw challenger/opponent-keyed data.
type Snapshot struct {
	JoinCode  string      `json:"join_code"`
	Phase     MatchPhase  `json:"phase"`
	Stage     CombatStage `json:"stage"`
	Round     int         `json:"round"`
	WagerGold int         `json:"wager_gold"`
	// Bar is viewer-relative: 100 means the viewer has won.
	Bar int `json:"bar"`

	You      *SideView `json:"you"`
	Opponent *SideView `json:"opponent,omitempty"`

	History []RoundView `json:"history"`

	StyleExpiresAt time.Time `json:"style_expires_at,omitempty"`
	SwingExpiresAt time.Time `json:"swing_expires_at,omitempty"`

	// Winner is "you", "opponent" or empty while the match is running.
	Winner    string `json:"winner,omitempty"`
	EndReason string `json:"end_reason,omitempty"`
	Message   string `json:"message,omitempty"`
}

// BuildSnapshot renders the match from viewerUUID's perspective. Returns nil
// when the viewer is not a participant.
func BuildSnapshot(m *Match, viewerUUID string, rules *Rules) *Snapshot {
	you := m.SideOf(viewerUUID)
	if you == nil {
		return nil
	}
	them := m.OpponentOf(you)

	// Opponent style choices stay hidden until both sides locked.
	revealed := m.Stage == StageSwinging || (them != nil && you.StyleLocked && them.StyleLocked)

	snap := &Snapshot{
		JoinCode:       m.JoinCode,
		Phase:          m.Phase,
		Stage:          m.Stage,
		Round:          m.Round,
		WagerGold:      m.WagerGold,
		Bar:            barFor(m, you),
		You:            sideView(you, m.Round, rules, true, revealed),
		History:        make([]RoundView, 0, len(m.Rounds)),
		StyleExpiresAt: m.StyleExpiresAt,
		SwingExpiresAt: m.SwingExpiresAt,
		EndReason:      m.EndReason,
		Message:        m.Message,
	}
	if them != nil {
		snap.Opponent = sideView(them, m.Round, rules, false, revealed)
	}
	if m.WinnerUUID != "" {
		if m.WinnerUUID == viewerUUID {
			snap.Winner = "you"
		} else {
			snap.Winner = "opponent"
		}
	}
	for i := range m.Rounds {
		snap.History = append(snap.History, roundView(&m.Rounds[i], you.IsChallenger))
	}
	return snap
}

// barFor flips the stored challenger-perspective bar for the opponent side.
func barFor(m *Match, viewer *Side) int {
	if viewer.IsChallenger {
		return m.Bar
	}
	return 100 - m.Bar
}

func sideView(s *Side, round int, rules *Rules, own, revealed bool) *SideView {
	v := &SideView{
		PlayerUUID:   s.PlayerUUID,
		PlayerName:   s.PlayerName,
		StyleLocked:  s.StyleLocked,
		SwingsUsed:   s.SwingsUsed,
		Submitted:    s.Submitted,
		BestOutcome:  s.BestOutcome,
		Swings:       s.RoundSwings(round),
		TiebreakRoll: s.TiebreakRoll,
	}
	if own || revealed {
		v.StyleID = s.StyleID
		v.Feint = s.Feint
		v.SwingBudget = s.SwingBudget
		if s.StyleLocked {
			base := s.BaseOdds
			v.BaseOdds = &base
			if st := styleOf(s, rules); st != nil {
				v.StyleName = st.Name
			}
		}
		if revealed {
			final := s.FinalOdds
			v.FinalOdds = &final
		}
	}
	return v
}

func styleOf(s *Side, rules *Rules) *AttackStyle {
	if s.StyleID == nil || rules == nil {
		return nil
	}
	return rules.StyleByID(*s.StyleID)
}

func roundView(r *RoundLog, viewerIsChallenger bool) RoundView {
	v := RoundView{
		Number:       r.Number,
		TiebreakType: r.TiebreakType,
	}
	if viewerIsChallenger {
		v.YourStyle, v.TheirStyle = r.ChallengerStyle, r.OpponentStyle
		v.YourBest, v.TheirBest = r.ChallengerBest, r.OpponentBest
		v.Push = r.Push
		v.YourRoll, v.TheirRoll = r.TiebreakChallenger, r.TiebreakOpponent
	} else {
		v.YourStyle, v.TheirStyle = r.OpponentStyle, r.ChallengerStyle
		v.YourBest, v.TheirBest = r.OpponentBest, r.ChallengerBest
		v.Push = -r.Push
		v.YourRoll, v.TheirRoll = r.TiebreakOpponent, r.TiebreakChallenger
	}
	switch {
	case r.Parried:
		v.Winner = "parried"
	case r.Winner == "":
		v.Winner = ""
	case (r.Winner == SideChallenger) == viewerIsChallenger:
		v.Winner = "you"
	default:
		v.Winner = "opponent"
	}
	return v
}
