package api

import (
	"net/http"

	"github.com/kingsholm/duel-server/internal/config"
	"github.com/kingsholm/duel-server/internal/constants"
	"github.com/kingsholm/duel-server/internal/events"
	"github.com/kingsholm/duel-server/internal/game"
	"github.com/kingsholm/duel-server/internal/service"
	"github.com/kingsholm/duel-server/internal/storage"

	"github.com/gin-gonic/gin"
)

// DuelHandler carries the shared dependencies of all duel endpoints.
type DuelHandler struct {
	repo         storage.Repository
	rules        *game.Rules
	hub          *events.Hub
	ui           config.UIMeta
	startingGold int
}

func NewDuelHandler(repo storage.Repository, rules *game.Rules, hub *events.Hub, ui config.UIMeta, startingGold int) *DuelHandler {
	return &DuelHandler{repo: repo, rules: rules, hub: hub, ui: ui, startingGold: startingGold}
}

// sessionUUID returns the authenticated player's UUID or writes a 401.
func sessionUUID(c *gin.Context) (string, bool) {
	v, _ := c.Get("userUUID")
	uuid, _ := v.(string)
	if uuid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return "", false
	}
	return uuid, true
}

// callerProfile loads the authenticated player's profile or writes a 401.
func (h *DuelHandler) callerProfile(c *gin.Context) (*game.User, bool) {
	uuid, ok := sessionUUID(c)
	if !ok {
		return nil, false
	}
	u, err := h.repo.GetProfileByUUID(uuid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
		return nil, false
	}
	return u, true
}

// respondServiceError maps engine sentinel errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch err {
	case service.ErrUnknownMatch:
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrDuelNotFound})
	case service.ErrPlayerNotInMatch:
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInThisDuel})
	case service.ErrChallengeNotForYou:
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrChallengeNotForYou})
	case service.ErrUnknownStyle:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownStyle})
	case service.ErrAlreadyLocked:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrStyleAlreadyLocked})
	case service.ErrBudgetExhausted:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoSwingsRemaining})
	case service.ErrNotYourTurnOrPhase:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrActionNotInPhase})
	case service.ErrTooEarly:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTimeoutTooEarly})
	case service.ErrMatchAlreadyEnded:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrDuelAlreadyEnded})
	case service.ErrNotJoinable, service.ErrOwnMatch:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrDuelNotJoinable})
	case service.ErrInsufficientGold:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrInsufficientGold})
	case service.ErrNotEnoughPlayers:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrDuelNotReady})
	case service.ErrInvalidState:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrActionNotInPhase})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreAction})
	}
}

// snapshotResponse is the standard body for mutating duel endpoints: a
// short message plus the caller-perspective snapshot.
func (h *DuelHandler) snapshotResponse(c *gin.Context, status int, message string, m *game.Match, viewerUUID string) {
	c.JSON(status, gin.H{
		constants.JSONKeyMessage:  message,
		constants.JSONKeySnapshot: game.BuildSnapshot(m, viewerUUID, h.rules),
	})
}
