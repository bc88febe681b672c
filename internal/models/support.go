package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Support ticket statuses.
const (
	TicketStatusOpen    = "open"
	TicketStatusPending = "pending"
	TicketStatusClosed  = "closed"
)

// SupportTicket represents one support conversation between a user and
// the admin staff.
type SupportTicket struct {
	// ID is the ticket UUID; it doubles as the ticket room identifier.
	ID string `gorm:"primaryKey" json:"id"`
	// OwnerID is the user who opened the ticket.
	OwnerID string `gorm:"type:text;not null;index" json:"owner_id"`
	// Subject is the short problem description.
	Subject string `gorm:"type:text;not null" json:"subject"`
	// Status is one of "open", "pending", "closed".
	Status    string    `gorm:"not null;default:open" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate генерує UUID для квитка, якщо ID ще не встановлено.
func (t *SupportTicket) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}

// SupportMessage is one message inside a support ticket conversation.
type SupportMessage struct {
	gorm.Model

	TicketID string `gorm:"type:text;not null;index" json:"ticket_id"`
	SenderID string `gorm:"type:text;not null" json:"sender_id"`
	// FromStaff marks replies written by admins.
	FromStaff bool   `gorm:"not null;default:false" json:"from_staff"`
	Body      string `gorm:"type:text;not null" json:"body"`
}
