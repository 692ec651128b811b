package api

import (
	"net/http"

	"github.com/kingsholm/duel-server/internal/constants"
	"github.com/kingsholm/duel-server/internal/game"
	"github.com/kingsholm/duel-server/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateDuelPayload struct {
	WagerGold   int    `json:"wager_gold"`
	InviteeUUID string `json:"invitee_uuid"`
}

// CreateDuel opens a new duel: an open wager lobby, or a direct challenge
// when invitee_uuid is set.
func (h *DuelHandler) CreateDuel(c *gin.Context) {
	var req CreateDuelPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	creator, ok := h.callerProfile(c)
	if !ok {
		return
	}

	m, err := service.CreateMatch(h.repo, h.hub, creator, req.WagerGold, req.InviteeUUID, generateDuelCode())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"duel_id":   m.ID,
		"join_code": m.JoinCode,
	})
}

type JoinDuelPayload struct {
	JoinCode string `json:"join_code"`
}

// JoinDuel lets a second player take the open side of a wager lobby.
func (h *DuelHandler) JoinDuel(c *gin.Context) {
	var req JoinDuelPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	code := normalizeDuelCode(req.JoinCode)
	if code == "" || !duelCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidDuelCode})
		return
	}
	joiner, ok := h.callerProfile(c)
	if !ok {
		return
	}

	m, err := service.JoinMatch(h.repo, h.hub, code, joiner)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.snapshotResponse(c, http.StatusOK, "Joined duel", m, joiner.PlayerUUID)
}

// duelCode extracts and validates the join code path parameter.
func duelCode(c *gin.Context) (string, bool) {
	code := normalizeDuelCode(c.Param("duelCode"))
	if code == "" || !duelCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidDuelCode})
		return "", false
	}
	return code, true
}

// AcceptDuel accepts a direct challenge.
func (h *DuelHandler) AcceptDuel(c *gin.Context) {
	code, ok := duelCode(c)
	if !ok {
		return
	}
	caller, ok := h.callerProfile(c)
	if !ok {
		return
	}
	m, err := service.AcceptChallenge(h.repo, h.hub, code, caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.snapshotResponse(c, http.StatusOK, "Challenge accepted", m, caller.PlayerUUID)
}

// DeclineDuel declines a direct challenge.
func (h *DuelHandler) DeclineDuel(c *gin.Context) {
	code, ok := duelCode(c)
	if !ok {
		return
	}
	uuid, ok := sessionUUID(c)
	if !ok {
		return
	}
	if _, err := service.DeclineChallenge(h.repo, h.hub, code, uuid); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Challenge declined"})
}

// CancelDuel cancels a duel that has not started fighting.
func (h *DuelHandler) CancelDuel(c *gin.Context) {
	code, ok := duelCode(c)
	if !ok {
		return
	}
	uuid, ok := sessionUUID(c)
	if !ok {
		return
	}
	if _, err := service.CancelMatch(h.repo, h.hub, code, uuid); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Duel cancelled"})
}

// StartDuel begins the fight once both players are present.
func (h *DuelHandler) StartDuel(c *gin.Context) {
	code, ok := duelCode(c)
	if !ok {
		return
	}
	uuid, ok := sessionUUID(c)
	if !ok {
		return
	}
	m, err := service.StartMatch(h.repo, h.hub, h.rules, code, uuid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.snapshotResponse(c, http.StatusOK, "Duel started", m, uuid)
}

// GetDuel returns the caller-perspective snapshot of a duel.
func (h *DuelHandler) GetDuel(c *gin.Context) {
	code, ok := duelCode(c)
	if !ok {
		return
	}
	uuid, ok := sessionUUID(c)
	if !ok {
		return
	}
	m, err := h.repo.FindMatchByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrDuelNotFound})
		return
	}
	snap := game.BuildSnapshot(m, uuid, h.rules)
	if snap == nil {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInThisDuel})
		return
	}
	c.JSON(http.StatusOK, snap)
}
