package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OnlineUsers повертає знімок присутності. Клієнти, що з'єднані через
// WebSocket, отримують той самий знімок подією users:online-list.
func (h *Handler) OnlineUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Hub.OnlineUsers())
}
