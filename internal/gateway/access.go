package gateway

import (
	"errors"
	"strconv"

	"github.com/judelaw007/connectbymanus-sub000/internal/models"
	"github.com/judelaw007/connectbymanus-sub000/internal/storage"
)

// Room-scoped authorization failures. Both are recoverable: the
// connection stays open and may request a different room.
var (
	// ErrRoomNotFound means the room's channel or ticket does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrAccessDenied means the user is authenticated but not allowed
	// into the room.
	ErrAccessDenied = errors.New("access denied")
)

// Authority вирішує, чи може користувач приєднатися до кімнати.
// Консультується з даними членства у сховищі.
type Authority struct {
	Store storage.Storage
}

// NewAuthority creates an Authority backed by the given store.
func NewAuthority(s storage.Storage) *Authority {
	return &Authority{Store: s}
}

// CanJoin decides admission for one (user, room) pair.
//
// channel:<id> — NotFound if the channel does not exist; public
// channels admit anyone; private study groups admit members only.
// Admins get NO implicit bypass for private channels: study-group
// content is member-only even for staff. The read-history endpoint
// applies the identical rule.
//
// user:<id> — only the user's own room. ticket:<id> — ticket owner or
// an admin. admin-broadcast — admins only.
func (a *Authority) CanJoin(userID string, isAdmin bool, roomKey string) error {
	family, id := splitRoomKey(roomKey)

	switch family {
	case "user":
		if id == userID {
			return nil
		}
		return ErrAccessDenied

	case AdminRoom:
		if isAdmin {
			return nil
		}
		return ErrAccessDenied

	case "channel":
		channelID, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return ErrRoomNotFound
		}
		return a.CanJoinChannel(userID, uint(channelID))

	case "ticket":
		return a.CanJoinTicket(userID, isAdmin, id)
	}

	return ErrRoomNotFound
}

// CanJoinChannel applies the channel admission rule directly by ID.
func (a *Authority) CanJoinChannel(userID string, channelID uint) error {
	channel, err := a.Store.GetChannelByID(channelID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrRoomNotFound
	}
	if err != nil {
		return err
	}
	if !channel.IsPrivate {
		return nil
	}

	member, err := a.Store.IsChannelMember(userID, channelID)
	if err != nil {
		return err
	}
	if !member {
		return ErrAccessDenied
	}
	return nil
}

// CanJoinTicket admits the ticket owner and admins.
func (a *Authority) CanJoinTicket(userID string, isAdmin bool, ticketID string) error {
	ticket, err := a.Store.GetTicketByID(ticketID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrRoomNotFound
	}
	if err != nil {
		return err
	}
	return a.CanAccessTicket(userID, isAdmin, ticket)
}

// CanAccessTicket applies the ticket rule to an already loaded ticket,
// so callers that hold the record do not fetch it a second time.
func (a *Authority) CanAccessTicket(userID string, isAdmin bool, ticket *models.SupportTicket) error {
	if isAdmin || ticket.OwnerID == userID {
		return nil
	}
	return ErrAccessDenied
}
