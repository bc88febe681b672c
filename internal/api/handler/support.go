package handler

import (
	"errors"
	"net/http"

	"github.com/judelaw007/connectbymanus-sub000/internal/models"
	"github.com/judelaw007/connectbymanus-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

type createTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

type ticketReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

type ticketStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open pending closed"`
}

// CreateTicket відкриває квиток підтримки з першим повідомленням.
// Після запису адмінська кімната отримує support:new-ticket; особиста
// кімната власника при СТВОРЕННІ не отримує нічого — власник
// сповіщається лише про відповіді та зміни статусу.
func (h *Handler) CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := currentUser(c)

	ticket := &models.SupportTicket{
		OwnerID: user.ID,
		Subject: req.Subject,
		Status:  models.TicketStatusOpen,
	}
	if err := h.Store.SaveTicket(ticket); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
		return
	}

	msg := &models.SupportMessage{
		TicketID: ticket.ID,
		SenderID: user.ID,
		Body:     req.Body,
	}
	if err := h.Store.SaveSupportMessage(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
		return
	}

	h.Hub.NotifyTicketCreated(ticket)
	c.JSON(http.StatusCreated, ticket)
}

// ListTickets повертає власні квитки користувача; адміністратор бачить
// всю скриньку незакритих квитків.
func (h *Handler) ListTickets(c *gin.Context) {
	user := currentUser(c)

	var (
		tickets []models.SupportTicket
		err     error
	)
	if user.IsAdmin() {
		tickets, err = h.Store.ListOpenTickets()
	} else {
		tickets, err = h.Store.ListTicketsForOwner(user.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// TicketMessages повертає розмову квитка. Доступ: власник або адмін.
func (h *Handler) TicketMessages(c *gin.Context) {
	user := currentUser(c)
	ticketID := c.Param("id")

	if err := h.Hub.Authority.CanJoinTicket(user.ID, user.IsAdmin(), ticketID); err != nil {
		abortForRoomError(c, err)
		return
	}

	messages, err := h.Store.GetTicketMessages(ticketID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// ReplyTicket додає повідомлення у квиток. Після запису подія
// розходиться у ТРИ кімнати: кімнату квитка, адмінську кімнату та
// особисту кімнату власника (наздоганяючий канал для клієнтів, які ще
// не приєдналися до кімнати квитка).
func (h *Handler) ReplyTicket(c *gin.Context) {
	user := currentUser(c)
	ticketID := c.Param("id")

	ticket, err := h.Store.GetTicketByID(ticketID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if err := h.Hub.Authority.CanAccessTicket(user.ID, user.IsAdmin(), ticket); err != nil {
		abortForRoomError(c, err)
		return
	}

	var req ticketReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := &models.SupportMessage{
		TicketID:  ticketID,
		SenderID:  user.ID,
		FromStaff: user.IsAdmin(),
		Body:      req.Body,
	}
	if err := h.Store.SaveSupportMessage(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	h.Hub.NotifyTicketMessage(ticket.OwnerID, msg)
	c.JSON(http.StatusCreated, msg)
}

// UpdateTicketStatus змінює статус квитка (лише адміністратор) та
// сповіщає власника через його особисту кімнату.
func (h *Handler) UpdateTicketStatus(c *gin.Context) {
	ticketID := c.Param("id")

	ticket, err := h.Store.GetTicketByID(ticketID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	var req ticketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.SetTicketStatus(ticketID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	h.Hub.NotifyTicketStatus(ticketID, ticket.OwnerID, req.Status)
	c.Status(http.StatusNoContent)
}
