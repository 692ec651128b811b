package game

import (
	"time"

	"gorm.io/gorm"
)

// MatchPhase is the lifecycle phase of a match. Using a dedicated type
// instead of plain string makes transition guards safer and self-documenting.
type MatchPhase string

const (
	PhaseWaiting           MatchPhase = "waiting"
	PhasePendingAcceptance MatchPhase = "pending_acceptance"
	PhaseReady             MatchPhase = "ready"
	PhaseFighting          MatchPhase = "fighting"
	PhaseComplete          MatchPhase = "complete"
	PhaseCancelled         MatchPhase = "cancelled"
)

// CombatStage subdivides the fighting phase: both players pick a style,
// then both swing. Only meaningful while Phase == PhaseFighting.
type CombatStage string

const (
	StageNone        CombatStage = ""
	StageStyleSelect CombatStage = "style_select"
	StageSwinging    CombatStage = "swinging"
)

// Outcome classifies a single swing. Rank order: critical > hit > miss.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomeMiss     Outcome = "miss"
	OutcomeHit      Outcome = "hit"
	OutcomeCritical Outcome = "critical"
)

// Rank returns the comparable strength of an outcome. OutcomeNone ranks
// below miss so a side that never swung can never win a round.
func (o Outcome) Rank() int {
	switch o {
	case OutcomeCritical:
		return 3
	case OutcomeHit:
		return 2
	case OutcomeMiss:
		return 1
	}
	return 0
}

// Odds is a percentage triple. Invariant everywhere in the engine:
// Miss + Hit + Crit == 100 and every component >= 0.
type Odds struct {
	Miss int `json:"miss"`
	Hit  int `json:"hit"`
	Crit int `json:"crit"`
}

func (o Odds) Sum() int { return o.Miss + o.Hit + o.Crit }

// AttackStyle is server-configured reference data (duel_config.json). It is
// never created at runtime and never persisted; matches reference styles by
// config ID only.
type AttackStyle struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	// SwingDelta adjusts the owner's swing budget for the round.
	SwingDelta int `json:"swing_delta"`
	// Self* deltas apply to the owner's own odds; Enemy* deltas apply to the
	// opposing player's odds. Miss has no delta of its own: it absorbs
	// whatever the hit/crit adjustments leave over.
	SelfHitDelta   int `json:"self_hit_delta"`
	SelfCritDelta  int `json:"self_crit_delta"`
	EnemyHitDelta  int `json:"enemy_hit_delta"`
	EnemyCritDelta int `json:"enemy_crit_delta"`
	// Feint grants automatic tie-break priority; feint vs feint falls back to
	// a secondary low-roll comparison.
	Feint bool `json:"feint"`
}

// Swing is an immutable record of one attack attempt. Created by the swing
// engine, appended to its side's roll list, never mutated afterwards.
type Swing struct {
	gorm.Model
	SideID uint `json:"-"`
	// Round is the match round this swing belongs to. Swings are kept across
	// round resets; the current round's swings are selected by number.
	Round int `json:"round"`
	// Seq is the 1-based sequence of this swing within its round and side.
	Seq     int     `json:"seq"`
	Roll    int     `json:"roll"`
	Outcome Outcome `json:"outcome"`
}

// Side is one participant's half of a match, including the per-round state
// that the style and swing engines mutate.
type Side struct {
	gorm.Model
	MatchID      uint   `json:"-"`
	PlayerUUID   string `json:"player_uuid"`
	PlayerName   string `json:"player_name"`
	IsChallenger bool   `json:"is_challenger"`

	// Per-round state, reset when a round resolves.
	StyleID     *uint   `json:"style_id"`
	StyleLocked bool    `json:"style_locked"`
	BaseOdds    Odds    `json:"base_odds" gorm:"embedded;embeddedPrefix:base_"`
	FinalOdds   Odds    `json:"final_odds" gorm:"embedded;embeddedPrefix:final_"`
	SwingBudget int     `json:"swing_budget"`
	SwingsUsed  int     `json:"swings_used"`
	Submitted   bool    `json:"submitted"`
	BestOutcome Outcome `json:"best_outcome"`
	Feint       bool    `json:"feint"`
	// TiebreakRoll is the side's secondary roll when a round tie had to be
	// broken by comparison; exposed so clients can animate both values.
	TiebreakRoll *int `json:"tiebreak_roll"`

	Swings []Swing `json:"swings"`
}

func (Side) TableName() string { return "match_sides" }

// RoundSwings returns this side's swings for the given round, in order.
func (s *Side) RoundSwings(round int) []Swing {
	out := make([]Swing, 0, len(s.Swings))
	for i := range s.Swings {
		if s.Swings[i].Round == round {
			out = append(out, s.Swings[i])
		}
	}
	return out
}

// Tiebreak resolution types. FeintWins: exactly one side locked a feint
// style and wins all outcome ties without rolling. FeintVsFeint: the tie is
// broken by a fresh secondary low-roll comparison (also used when neither
// side feinted).
const (
	TiebreakFeintWins    = "feint_wins"
	TiebreakFeintVsFeint = "feint_vs_feint"
)

// RoundLog is the persisted summary of a resolved round, folded into match
// history when the round's transient state is reset.
type RoundLog struct {
	gorm.Model
	MatchID uint `json:"-"`
	Number  int  `json:"number"`

	ChallengerStyle string  `json:"challenger_style"`
	OpponentStyle   string  `json:"opponent_style"`
	ChallengerBest  Outcome `json:"challenger_best"`
	OpponentBest    Outcome `json:"opponent_best"`

	// Winner is SideChallenger, SideOpponent or empty for a parried round.
	Winner string `json:"winner"`
	// Push is signed from the challenger's perspective.
	Push    int  `json:"push"`
	Parried bool `json:"parried"`

	TiebreakType       string `json:"tiebreak_type"`
	TiebreakChallenger *int   `json:"tiebreak_challenger"`
	TiebreakOpponent   *int   `json:"tiebreak_opponent"`
}

func (RoundLog) TableName() string { return "match_rounds" }

// Side labels used in round results and victory declarations.
const (
	SideChallenger = "challenger"
	SideOpponent   = "opponent"
)

// How a match reached a terminal phase.
const (
	EndReasonVictory   = "victory"
	EndReasonForfeit   = "forfeit"
	EndReasonTimeout   = "timeout"
	EndReasonCancelled = "cancelled"
	EndReasonDeclined  = "declined"
	EndReasonExpired   = "expired"
)

// BarStart is the neutral tug-of-war position. The bar is stored from the
// challenger's perspective: 100 means challenger victory, 0 opponent victory.
const BarStart = 50

// Match is the aggregate root for one duel. All engine mutations happen on a
// loaded Match under the per-match lock and are persisted in one update.
type Match struct {
	gorm.Model
	JoinCode  string `json:"join_code" gorm:"uniqueIndex"`
	WagerGold int    `json:"wager_gold"`
	// InviteeUUID is set for direct challenges; the match waits in
	// pending_acceptance until that player accepts or declines.
	InviteeUUID string `json:"invitee_uuid"`

	Phase MatchPhase  `json:"phase" gorm:"index"`
	Stage CombatStage `json:"stage"`
	Round int         `json:"round"`
	Bar   int         `json:"bar"`

	Sides  []Side     `json:"sides"`
	Rounds []RoundLog `json:"rounds"`

	// Deadlines for the current combat stage; zero when the stage is not
	// active. Checked lazily on claim-timeout, never polled.
	StyleExpiresAt time.Time `json:"style_expires_at"`
	SwingExpiresAt time.Time `json:"swing_expires_at"`

	WinnerUUID   string `json:"winner_uuid"`
	EndReason    string `json:"end_reason"`
	Message      string `json:"message"`
	WagerSettled bool   `json:"-"`
	// ForfeitedBy names the loser of a forfeit or timeout for stat
	// settlement. Transient context for the current update, never persisted.
	ForfeitedBy string `json:"-" gorm:"-"`

	// EventSeq is the last event sequence number issued for this match.
	// Incremented only under the per-match lock, so event order is total.
	EventSeq uint64  `json:"-"`
	Events   []Event `json:"-"`
}

func (Match) TableName() string { return "duel_matches" }

// Terminal reports whether the match reached a state that permits no
// further transitions.
func (m *Match) Terminal() bool {
	return m.Phase == PhaseComplete || m.Phase == PhaseCancelled
}

// SideOf returns the side owned by the given player, or nil.
func (m *Match) SideOf(playerUUID string) *Side {
	for i := range m.Sides {
		if m.Sides[i].PlayerUUID == playerUUID {
			return &m.Sides[i]
		}
	}
	return nil
}

// OpponentOf returns the other side of the match, or nil for a lobby that
// has no second player yet.
func (m *Match) OpponentOf(s *Side) *Side {
	for i := range m.Sides {
		if m.Sides[i].PlayerUUID != s.PlayerUUID {
			return &m.Sides[i]
		}
	}
	return nil
}

// Challenger returns the side that created the match.
func (m *Match) Challenger() *Side {
	for i := range m.Sides {
		if m.Sides[i].IsChallenger {
			return &m.Sides[i]
		}
	}
	return nil
}

// SideLabel returns the result label for a side.
func SideLabel(s *Side) string {
	if s.IsChallenger {
		return SideChallenger
	}
	return SideOpponent
}

// Event is one entry in a match's ordered outbox. Events are appended inside
// the same repository update as the state change that produced them, then
// delivered (at least once, in Seq order) over whatever transport is
// attached. Payload holds the event detail as encoded JSON.
type Event struct {
	gorm.Model
	MatchID uint   `json:"-" gorm:"index:idx_match_events"`
	Seq     uint64 `json:"seq" gorm:"index:idx_match_events"`
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

func (Event) TableName() string { return "match_events" }

// Event types pushed to both participants.
const (
	EventInvitation      = "invitation"
	EventOpponentJoined  = "opponent_joined"
	EventStarted         = "started"
	EventStyleLocked     = "style_locked"
	EventStylesRevealed  = "styles_revealed"
	EventSwing           = "swing"
	EventPlayerSubmitted = "player_submitted"
	EventRoundResolved   = "round_resolved"
	EventEnded           = "ended"
	EventCancelled       = "cancelled"
)

// User stores unique player identity, gold balance and aggregate duel stats.
type User struct {
	gorm.Model
	PlayerUUID string `gorm:"uniqueIndex" json:"player_uuid"`
	PlayerName string `json:"player_name"`
	Email      string `gorm:"uniqueIndex" json:"-"`
	Gold       int    `json:"gold"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Forfeits   int    `json:"forfeits"`
}

func (User) TableName() string { return "player_profiles" }
