package api

import (
	"net/http"

	"github.com/kingsholm/duel-server/internal/constants"
	"github.com/kingsholm/duel-server/internal/game"
	"github.com/kingsholm/duel-server/internal/service"

	"github.com/gin-gonic/gin"
)

type LockStylePayload struct {
	StyleID uint `json:"style_id"`
}

// LockStyle records the caller's attack style for the current round.
func (h *DuelHandler) LockStyle(c *gin.Context) {
	code, ok := duelCode(c)
	if !ok {
		return
	}
	uuid, ok := sessionUUID(c)
	if !ok {
		return
	}
	var req LockStylePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	m, result, err := service.LockStyle(h.repo, h.hub, h.rules, code, uuid, req.StyleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyMessage:  "Style locked",
		"result":                  result,
		constants.JSONKeySnapshot: game.BuildSnapshot(m, uuid, h.rules),
	})
}

// Swing executes one attack attempt for the caller.
func (h *DuelHandler) Swing(c *gin.Context) {
	code, ok := duelCode(c)
	if !ok {
		return
	}
	uuid, ok := sessionUUID(c)
	if !ok {
		return
	}

	m, result, err := service.Swing(h.repo, h.hub, h.rules, code, uuid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyMessage:  "Swing",
		"result":                  result,
		constants.JSONKeySnapshot: game.BuildSnapshot(m, uuid, h.rules),
	})
}

// StopSwinging banks the caller's best outcome and submits their side.
func (h *DuelHandler) StopSwinging(c *gin.Context) {
	code, ok := duelCode(c)
	if !ok {
		return
	}
	uuid, ok := sessionUUID(c)
	if !ok {
		return
	}
	m, err := service.Stop(h.repo, h.hub, h.rules, code, uuid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.snapshotResponse(c, http.StatusOK, "Stopped", m, uuid)
}

// Forfeit concedes the duel.
func (h *DuelHandler) Forfeit(c *gin.Context) {
	code, ok := duelCode(c)
	if !ok {
		return
	}
	uuid, ok := sessionUUID(c)
	if !ok {
		return
	}
	m, err := service.Forfeit(h.repo, h.hub, code, uuid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.snapshotResponse(c, http.StatusOK, "Duel forfeited", m, uuid)
}

// ClaimTimeout resolves an unresponsive opponent after their deadline.
func (h *DuelHandler) ClaimTimeout(c *gin.Context) {
	code, ok := duelCode(c)
	if !ok {
		return
	}
	uuid, ok := sessionUUID(c)
	if !ok {
		return
	}
	m, err := service.ClaimTimeout(h.repo, h.hub, code, uuid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.snapshotResponse(c, http.StatusOK, "Timeout claimed", m, uuid)
}
