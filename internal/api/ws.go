package api

import (
	"net/http"
	"strconv"

	"github.com/kingsholm/duel-server/internal/constants"
	"github.com/kingsholm/duel-server/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// DuelEvents upgrades to a WebSocket and streams a match's events to a
// participant. Query params: match=<join code>, after=<last seen seq> for
// resuming after a disconnect.
func (h *DuelHandler) DuelEvents(c *gin.Context) {
	uuid, ok := sessionUUID(c)
	if !ok {
		return
	}

	code := normalizeDuelCode(c.Query("match"))
	if !duelCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidDuelCode})
		return
	}
	m, err := h.repo.FindMatchByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrDuelNotFound})
		return
	}
	if m.SideOf(uuid) == nil {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInThisDuel})
		return
	}

	var afterSeq uint64
	if s := c.Query("after"); s != "" {
		afterSeq, _ = strconv.ParseUint(s, 10, 64)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{
			constants.LogFieldMatchID: m.ID,
			constants.LogFieldPlayer:  uuid,
		})
		return
	}

	h.hub.Subscribe(m, uuid, conn, afterSeq)

	// Drain the read side until the client goes away. Inbound frames carry
	// nothing; all actions arrive over the HTTP endpoints.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.hub.Unsubscribe(m.ID, conn)
}
