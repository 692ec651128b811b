package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kingsholm/duel-server/internal/game"
)

type styleEntry struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	SwingDelta     int    `json:"swing_delta"`
	SelfHitDelta   int    `json:"self_hit_delta"`
	SelfCritDelta  int    `json:"self_crit_delta"`
	EnemyHitDelta  int    `json:"enemy_hit_delta"`
	EnemyCritDelta int    `json:"enemy_crit_delta"`
	Feint          bool   `json:"feint"`
}

// UIMeta is display metadata the client consumes verbatim: outcome labels
// and animation timing constants. The server never interprets it.
type UIMeta struct {
	OutcomeLabels map[string]string `json:"outcome_labels"`
	AnimationMS   map[string]int    `json:"animation_ms"`
}

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	BaseOdds            game.Odds        `json:"base_odds"`
	BaseSwingCount      int              `json:"base_swing_count"`
	PushWeights         game.PushWeights `json:"push_weights"`
	CritMultiplier      float64          `json:"crit_multiplier"`
	StyleTimeoutSeconds int              `json:"style_timeout_seconds"`
	SwingTimeoutSeconds int              `json:"swing_timeout_seconds"`
	LobbyTTLMinutes     int              `json:"lobby_ttl_minutes"`
	StartingGold        int              `json:"starting_gold"`
	StyleList           []styleEntry     `json:"style_list"`
	UI                  UIMeta           `json:"ui"`
}

// LoadedConfig holds the parsed rule set plus server-level settings.
type LoadedConfig struct {
	Rules         *game.Rules
	ServerAddress string
	LobbyTTL      time.Duration
	StartingGold  int
	UI            UIMeta
}

// LoadConfig reads the configuration file at path. It requires the key
// `style_list` (snake_case) plus base odds that sum to exactly 100.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if rc.BaseOdds.Sum() != 100 {
		return nil, fmt.Errorf("config file %s: base_odds must sum to 100, got %d", path, rc.BaseOdds.Sum())
	}
	if rc.BaseOdds.Miss < 0 || rc.BaseOdds.Hit < 0 || rc.BaseOdds.Crit < 0 {
		return nil, fmt.Errorf("config file %s: base_odds components must be non-negative", path)
	}
	if rc.BaseSwingCount < 1 {
		return nil, fmt.Errorf("config file %s: base_swing_count must be at least 1", path)
	}
	if rc.CritMultiplier < 1 {
		return nil, fmt.Errorf("config file %s: crit_multiplier must be >= 1", path)
	}
	if rc.PushWeights.Hit <= 0 || rc.PushWeights.Miss < 0 {
		return nil, fmt.Errorf("config file %s: push_weights.hit must be positive", path)
	}
	if len(rc.StyleList) == 0 {
		return nil, fmt.Errorf("config file %s: style_list is empty (provide a 'style_list' array)", path)
	}

	styles := make([]game.AttackStyle, 0, len(rc.StyleList))
	idSet := make(map[uint]struct{}, len(rc.StyleList))
	nameSet := make(map[string]struct{}, len(rc.StyleList))
	for _, e := range rc.StyleList {
		if e.ID == 0 {
			return nil, fmt.Errorf("config file %s: style entry missing 'id'", path)
		}
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("config file %s: style %d missing 'name'", path, e.ID)
		}
		if _, exists := idSet[e.ID]; exists {
			return nil, fmt.Errorf("config file %s: duplicate style id %d", path, e.ID)
		}
		idSet[e.ID] = struct{}{}
		ln := strings.ToLower(strings.TrimSpace(e.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate style name '%s'", path, e.Name)
		}
		nameSet[ln] = struct{}{}
		styles = append(styles, game.AttackStyle{
			ID:             e.ID,
			Name:           e.Name,
			Icon:           e.Icon,
			SwingDelta:     e.SwingDelta,
			SelfHitDelta:   e.SelfHitDelta,
			SelfCritDelta:  e.SelfCritDelta,
			EnemyHitDelta:  e.EnemyHitDelta,
			EnemyCritDelta: e.EnemyCritDelta,
			Feint:          e.Feint,
		})
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}
	styleTimeout := 45 * time.Second
	if rc.StyleTimeoutSeconds > 0 {
		styleTimeout = time.Duration(rc.StyleTimeoutSeconds) * time.Second
	}
	swingTimeout := 60 * time.Second
	if rc.SwingTimeoutSeconds > 0 {
		swingTimeout = time.Duration(rc.SwingTimeoutSeconds) * time.Second
	}
	lobbyTTL := 30 * time.Minute
	if rc.LobbyTTLMinutes > 0 {
		lobbyTTL = time.Duration(rc.LobbyTTLMinutes) * time.Minute
	}
	startingGold := 100
	if rc.StartingGold > 0 {
		startingGold = rc.StartingGold
	}

	return &LoadedConfig{
		Rules: &game.Rules{
			BaseOdds:       rc.BaseOdds,
			BaseSwingCount: rc.BaseSwingCount,
			PushWeights:    rc.PushWeights,
			CritMultiplier: rc.CritMultiplier,
			StyleTimeout:   styleTimeout,
			SwingTimeout:   swingTimeout,
			Styles:         styles,
		},
		ServerAddress: addr,
		LobbyTTL:      lobbyTTL,
		StartingGold:  startingGold,
		UI:            rc.UI,
	}, nil
}
