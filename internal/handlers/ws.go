package handlers

import (
	"log"
	"net/http"
	"strconv"

	"exam-authoring-backend/internal/services"
	"exam-authoring-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub    *ws.Hub
	drafts *services.DraftService
}

func NewWSHandler(hub *ws.Hub, drafts *services.DraftService) *WSHandler {
	return &WSHandler{hub: hub, drafts: drafts}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket connection for submission progress
// @Description  Connect via WebSocket to receive (completed,total) progress and the final outcome while a draft is being synced
// @Tags         websocket
// @Param        id path int true "Draft ID"
// @Router       /ws/drafts/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	draftID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid draft id"})
		return
	}

	// Progress frames may leak exam content, so only the draft's owner
	// gets to watch.
	authorID := c.GetUint("author_id")
	if _, _, err := h.drafts.Get(uint(draftID), authorID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "draft not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	did := uint(draftID)
	h.hub.AddConnection(did, conn)
	defer h.hub.RemoveConnection(did, conn)

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
