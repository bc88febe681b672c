package handler

import (
	"log"
	"net/http"

	"github.com/judelaw007/connectbymanus-sub000/internal/auth"
	"github.com/judelaw007/connectbymanus-sub000/internal/gateway"
	"github.com/judelaw007/connectbymanus-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket. Автентифікація
// відбувається ДО оновлення: відмовлене з'єднання не створює жодного
// стану в шлюзі.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	credential := auth.CredentialFromRequest(c.Request)
	if credential == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	userID, err := auth.VerifyToken(credential, h.Cfg.JWTSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	// Subject з токена мусить існувати у сховищі.
	user, err := h.Store.GetUserByID(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	banned, err := h.Store.IsUserBanned(user.ID)
	if err != nil {
		log.Printf("ERROR: Ban check failed for user %s: %v", user.ID, err)
	}
	if banned {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account suspended"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &gateway.WebSocketClient{
		ConnID: uuid.New().String(),
		UserID: user.ID,
		Name:   user.Name,
		Admin:  user.IsAdmin(),
		Conn:   conn,
		Hub:    h.Hub,
		Send:   make(chan models.Event, 256),
	}

	// Реєстрація з'єднання в Hub (особиста та адмінська кімнати
	// приєднуються автоматично), потім запуск pumps.
	h.Hub.RegisterCh <- client
	client.Run()
}
