package handler

import (
	"net/http"
	"strconv"

	"github.com/judelaw007/connectbymanus-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

const historyLimit = 100

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListChannels повертає канали, видимі поточному користувачу.
func (h *Handler) ListChannels(c *gin.Context) {
	channels, err := h.Store.ListChannelsForUser(currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, channels)
}

// ChannelHistory повертає історію повідомлень каналу. Правило доступу
// те саме, що й для приєднання до живої кімнати: приватні канали —
// лише для учасників, без обходу для адмінів.
func (h *Handler) ChannelHistory(c *gin.Context) {
	channelID, ok := channelParam(c)
	if !ok {
		return
	}

	if err := h.Hub.Authority.CanJoinChannel(currentUser(c).ID, channelID); err != nil {
		abortForRoomError(c, err)
		return
	}

	history, err := h.Store.GetChannelHistory(channelID, historyLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// SendMessage зберігає повідомлення, і лише ПІСЛЯ успішного запису
// розсилає його в кімнату каналу. Клієнт, який отримав broadcast,
// гарантовано може прочитати повідомлення через історію.
func (h *Handler) SendMessage(c *gin.Context) {
	channelID, ok := channelParam(c)
	if !ok {
		return
	}
	user := currentUser(c)

	if err := h.Hub.Authority.CanJoinChannel(user.ID, channelID); err != nil {
		abortForRoomError(c, err)
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := &models.Message{
		ChannelID:  channelID,
		SenderID:   user.ID,
		SenderName: user.Name,
		Content:    req.Content,
	}
	if err := h.Store.SaveMessage(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	h.Hub.NotifyChannelMessage(msg)
	c.JSON(http.StatusCreated, msg)
}

// MarkRead пересуває позначку прочитання каналу (клієнт викликає це,
// коли канал відкрито у вкладці, що не тримає живу кімнату).
func (h *Handler) MarkRead(c *gin.Context) {
	channelID, ok := channelParam(c)
	if !ok {
		return
	}
	if err := h.Store.MarkChannelRead(currentUser(c).ID, channelID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// UnreadCounts — pull-шлях звірки: свіжі АБСОЛЮТНІ лічильники для всіх
// видимих каналів, обчислені з збережених позначок прочитання.
func (h *Handler) UnreadCounts(c *gin.Context) {
	counts, err := h.Store.UnreadCounts(currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	updates := make([]models.UnreadUpdate, 0, len(counts))
	for channelID, count := range counts {
		updates = append(updates, models.UnreadUpdate{ChannelID: channelID, UnreadCount: count})
	}
	c.JSON(http.StatusOK, updates)
}

func channelParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}
