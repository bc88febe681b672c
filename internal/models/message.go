package models

import "gorm.io/gorm"

// Message represents a persisted chat message in a channel.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, and DeletedAt,
// which serve as the message ID and timestamps.
type Message struct {
	gorm.Model

	// ChannelID is the channel the message was posted to.
	ChannelID uint `gorm:"not null;index:idx_channel_msg" json:"channel_id"`
	// SenderID is the ID of the user who sent the message.
	SenderID string `gorm:"type:text;not null;index:idx_channel_msg" json:"sender_id"`
	// SenderName is denormalized so broadcasts need no extra lookup.
	SenderName string `gorm:"type:text;not null" json:"sender_name"`
	// Content is the message body.
	Content string `gorm:"type:text;not null" json:"content"`
}
