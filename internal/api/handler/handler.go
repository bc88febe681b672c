package handler

import (
	"errors"
	"net/http"

	"github.com/judelaw007/connectbymanus-sub000/internal/config"
	"github.com/judelaw007/connectbymanus-sub000/internal/gateway"
	"github.com/judelaw007/connectbymanus-sub000/internal/models"
	"github.com/judelaw007/connectbymanus-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler містить посилання на Hub, сховище та конфігурацію.
type Handler struct {
	Hub   *gateway.Hub
	Store storage.Storage
	Cfg   *config.Config
}

func NewHandler(hub *gateway.Hub, store storage.Storage, cfg *config.Config) *Handler {
	return &Handler{Hub: hub, Store: store, Cfg: cfg}
}

// abortForRoomError maps room authorization failures onto HTTP statuses.
func abortForRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gateway.ErrRoomNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, gateway.ErrAccessDenied):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// currentUser returns the user the auth middleware resolved.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}
