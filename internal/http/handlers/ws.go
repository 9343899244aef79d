package handlers

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"livestream_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades the request to a websocket subscription on a stream's event
// channel. Auth ran in the JWT middleware; browsers pass the token as a
// query parameter.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		streamID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stream id"})
			return
		}

		// the channel must name an existing stream
		if _, err := h.StreamRepo.GetByID(c.Request.Context(), streamID); err != nil {
			serviceError(c, err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("ws upgrade error:", err)
			return
		}

		client := ws.NewClient(streamID, conn, hub)
		go client.Run()
	}
}
