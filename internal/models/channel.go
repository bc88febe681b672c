package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Membership roles inside a channel.
const (
	ChannelRoleOwner  = "owner"
	ChannelRoleMember = "member"
)

// Channel represents a topic channel or a private study group.
// The embedded gorm.Model provides ID (uint primary key) and timestamps.
type Channel struct {
	gorm.Model

	// Name is the human-readable channel title.
	Name string `gorm:"not null" json:"name"`
	// Description is an optional blurb shown in the channel list.
	Description string `json:"description"`
	// IsPrivate marks member-only study groups. Private channels are
	// member-only even for admins.
	IsPrivate bool `gorm:"not null;default:false" json:"is_private"`
	// OwnerID is the user who created the channel.
	OwnerID string `gorm:"type:text;not null;index" json:"owner_id"`
	// Tags are free-form topic tags used by channel discovery.
	Tags pq.StringArray `gorm:"type:text[]" json:"tags"`
}

// ChannelMembership is the user-to-channel relation consulted by the
// access checks. One row per (channel, user).
type ChannelMembership struct {
	ChannelID uint   `gorm:"primaryKey;autoIncrement:false" json:"channel_id"`
	UserID    string `gorm:"primaryKey;type:text" json:"user_id"`
	// Role is either "owner" or "member".
	Role      string    `gorm:"not null;default:member" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ChannelReadState зберігає позначку "прочитано до" для пари (user, channel).
// Кількість непрочитаних повідомлень виводиться з неї, а не зберігається.
type ChannelReadState struct {
	ChannelID  uint      `gorm:"primaryKey;autoIncrement:false" json:"channel_id"`
	UserID     string    `gorm:"primaryKey;type:text" json:"user_id"`
	LastReadAt time.Time `gorm:"not null" json:"last_read_at"`
}
