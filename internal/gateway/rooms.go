package gateway

import (
	"strconv"
	"strings"
)

// AdminRoom is the single well-known broadcast group for admins.
const AdminRoom = "admin-broadcast"

// Room key prefixes. A room is nothing but a string key in the hub's
// live index; it carries no durable state.
const (
	channelRoomPrefix = "channel:"
	userRoomPrefix    = "user:"
	ticketRoomPrefix  = "ticket:"
)

// ChannelRoom повертає ключ кімнати для каналу.
func ChannelRoom(channelID uint) string {
	return channelRoomPrefix + strconv.FormatUint(uint64(channelID), 10)
}

// UserRoom повертає ключ особистої кімнати користувача.
func UserRoom(userID string) string {
	return userRoomPrefix + userID
}

// TicketRoom повертає ключ кімнати квитка підтримки.
func TicketRoom(ticketID string) string {
	return ticketRoomPrefix + ticketID
}

// splitRoomKey breaks a room key into its family prefix and identifier.
// The admin room has no identifier.
func splitRoomKey(roomKey string) (family, id string) {
	if roomKey == AdminRoom {
		return AdminRoom, ""
	}
	idx := strings.IndexByte(roomKey, ':')
	if idx < 0 {
		return "", ""
	}
	return roomKey[:idx], roomKey[idx+1:]
}
