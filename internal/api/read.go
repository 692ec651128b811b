package api

import (
	"net/http"
	"strconv"

	"github.com/kingsholm/duel-server/internal/constants"

	"github.com/gin-gonic/gin"
)

// ListStyles returns the attack style catalog plus the display metadata the
// client consumes verbatim (outcome labels, animation timings).
func (h *DuelHandler) ListStyles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"styles":          h.rules.Styles,
		"base_odds":       h.rules.BaseOdds,
		"base_swings":     h.rules.BaseSwingCount,
		"push_weights":    h.rules.PushWeights,
		"crit_multiplier": h.rules.CritMultiplier,
		"ui":              h.ui,
	})
}

type openDuelItem struct {
	JoinCode   string `json:"join_code"`
	Challenger string `json:"challenger"`
	WagerGold  int    `json:"wager_gold"`
}

// ListOpenDuels returns open wager lobbies waiting for an opponent.
func (h *DuelHandler) ListOpenDuels(c *gin.Context) {
	matches, err := h.repo.GetOpenMatches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchDuels})
		return
	}
	out := make([]openDuelItem, 0, len(matches))
	for i := range matches {
		ch := matches[i].Challenger()
		if ch == nil {
			continue
		}
		out = append(out, openDuelItem{
			JoinCode:   matches[i].JoinCode,
			Challenger: ch.PlayerName,
			WagerGold:  matches[i].WagerGold,
		})
	}
	c.JSON(http.StatusOK, out)
}

// ListLeaderboard returns the top players by wins (desc), limited to top 10 by default.
func (h *DuelHandler) ListLeaderboard(c *gin.Context) {
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	users, err := h.repo.GetTopPlayers(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaders})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetPlayerStats returns the caller's profile: gold, wins, losses, forfeits.
func (h *DuelHandler) GetPlayerStats(c *gin.Context) {
	u, ok := h.callerProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, u)
}
