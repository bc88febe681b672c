package handler

import (
	"net/http"
	"strings"

	"github.com/judelaw007/connectbymanus-sub000/internal/auth"
	"github.com/judelaw007/connectbymanus-sub000/internal/config"

	"github.com/gin-gonic/gin"
)

// AuthRequired перевіряє токен сесії для REST-запитів: заголовок
// Authorization Bearer або cookie сесії. Розв'язаний користувач
// кладеться в контекст запиту.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			credential = header[len("Bearer "):]
		} else if cookie, err := c.Cookie(config.SessionCookie); err == nil {
			credential = cookie
		}

		if credential == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		userID, err := auth.VerifyToken(credential, h.Cfg.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		user, err := h.Store.GetUserByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// AdminRequired пропускає лише адміністраторів. Використовується після
// AuthRequired.
func (h *Handler) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}
