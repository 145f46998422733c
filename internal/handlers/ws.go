package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket connection for live assignment progress
// @Description  Connect via WebSocket to receive progress events as students submit answers
// @Tags         websocket
// @Param        id path int true "Assignment ID"
// @Router       /ws/assignments/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	assignmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid assignment id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	aid := uint(assignmentID)
	h.hub.AddConnection(aid, conn)
	defer h.hub.RemoveConnection(aid, conn)

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
