package game

import (
	"sync"
	"time"
)

// PushWeights maps a winning side's best outcome to the bar push it earns.
// The critical push is not listed here: it is derived from the hit push and
// the configured critical multiplier.
type PushWeights struct {
	Miss int `json:"miss"`
	Hit  int `json:"hit"`
}

// Rules is the server-configured rule set a match is played under, loaded
// once from duel_config.json. The engine only reads it.
type Rules struct {
	BaseOdds       Odds
	BaseSwingCount int
	PushWeights    PushWeights
	CritMultiplier float64
	StyleTimeout   time.Duration
	SwingTimeout   time.Duration
	Styles         []AttackStyle

	styleOnce sync.Once
	styleByID map[uint]*AttackStyle
}

// StyleByID returns the configured style, or nil for an unknown ID. The
// lookup map is built on first use; a shared *Rules is read by every request
// goroutine and the event hub, so the build is guarded.
func (r *Rules) StyleByID(id uint) *AttackStyle {
	r.styleOnce.Do(func() {
		r.styleByID = make(map[uint]*AttackStyle, len(r.Styles))
		for i := range r.Styles {
			r.styleByID[r.Styles[i].ID] = &r.Styles[i]
		}
	})
	return r.styleByID[id]
}

// CritPush is the bar push for a critical-won round: the hit push scaled by
// the configured multiplier, rounded to the nearest whole point.
func (r *Rules) CritPush() int {
	return int(float64(r.PushWeights.Hit)*r.CritMultiplier + 0.5)
}

// PushFor returns the bar push earned by winning a round with the given
// best outcome.
func (r *Rules) PushFor(best Outcome) int {
	switch best {
	case OutcomeCritical:
		return r.CritPush()
	case OutcomeHit:
		return r.PushWeights.Hit
	default:
		return r.PushWeights.Miss
	}
}
