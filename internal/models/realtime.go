package models

import "encoding/json"

// Wire-level event names. These are part of the client compatibility
// surface and must not be renamed.
const (
	// client -> server
	EventChannelJoin  = "channel:join"
	EventChannelLeave = "channel:leave"
	EventTypingStart  = "typing:start"
	EventTypingStop   = "typing:stop"
	EventSupportJoin  = "support:join"
	EventSupportLeave = "support:leave"

	// server -> client
	EventMessageNew          = "message:new"
	EventUserOnline          = "user:online"
	EventUserOffline         = "user:offline"
	EventOnlineList          = "users:online-list"
	EventUserTyping          = "user:typing"
	EventUserStoppedTyping   = "user:stopped-typing"
	EventChannelUnreadUpdate = "channel:unread-update"
	EventSupportNewTicket    = "support:new-ticket"
	EventSupportNewMessage   = "support:new-message"
	EventSupportTicketUpdate = "support:ticket-updated"
	EventError               = "error"
)

// Event is one server->client frame: an event name plus its payload.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// ClientFrame is one client->server frame. Data stays raw until the
// event name tells us what to decode it into.
type ClientFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChannelRef is the payload of channel:join/leave and typing:start/stop.
type ChannelRef struct {
	ChannelID uint `json:"channel_id"`
}

// TicketRef is the payload of support:join/leave.
type TicketRef struct {
	TicketID string `json:"ticket_id"`
}

// PresencePayload accompanies user:online / user:offline.
type PresencePayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// TypingPayload accompanies user:typing / user:stopped-typing.
type TypingPayload struct {
	UserID    string `json:"user_id"`
	ChannelID uint   `json:"channel_id"`
}

// UnreadUpdate carries the absolute unread count for one channel.
// It is never a delta: the client overwrites, it does not add.
type UnreadUpdate struct {
	ChannelID   uint  `json:"channel_id"`
	UnreadCount int64 `json:"unread_count"`
}

// TicketMessagePayload accompanies support:new-message.
type TicketMessagePayload struct {
	TicketID string         `json:"ticket_id"`
	Message  SupportMessage `json:"message"`
}

// TicketStatusPayload accompanies support:ticket-updated.
type TicketStatusPayload struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
}

// ErrorPayload accompanies the error event.
type ErrorPayload struct {
	Message string `json:"message"`
}
