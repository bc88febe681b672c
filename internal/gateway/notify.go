package gateway

import (
	"log"

	"github.com/judelaw007/connectbymanus-sub000/internal/models"
)

// Broadcast entry points. Callers invoke these only AFTER the domain
// event has been durably written: a client that receives one of these
// broadcasts can immediately query the event through the read side.

// NotifyChannelMessage fans a persisted message out to its channel room
// and then pushes fresh unread counts to members who are not viewing
// the channel.
func (h *Hub) NotifyChannelMessage(msg *models.Message) {
	h.messageCh <- msg
}

// NotifyTicketCreated announces a new ticket to the admin inbox. The
// owner's personal room intentionally receives nothing on creation;
// owners are only notified of replies and status changes.
func (h *Hub) NotifyTicketCreated(ticket *models.SupportTicket) {
	h.BroadcastToRoom(AdminRoom, models.EventSupportNewTicket, ticket)
}

// NotifyTicketMessage fans one ticket reply out to three rooms: the
// ticket room itself, the admin room (inbox refresh), and the owner's
// personal room as a catch-up channel for clients that have not joined
// the ticket room yet. The redundancy is deliberate; the three
// broadcasts are not atomic across rooms.
func (h *Hub) NotifyTicketMessage(ownerID string, msg *models.SupportMessage) {
	payload := models.TicketMessagePayload{TicketID: msg.TicketID, Message: *msg}
	h.BroadcastToRoom(TicketRoom(msg.TicketID), models.EventSupportNewMessage, payload)
	h.BroadcastToRoom(AdminRoom, models.EventSupportNewMessage, payload)
	h.BroadcastToRoom(UserRoom(ownerID), models.EventSupportNewMessage, payload)
}

// NotifyTicketStatus tells the ticket owner about a status change.
func (h *Hub) NotifyTicketStatus(ticketID, ownerID, status string) {
	h.BroadcastToRoom(UserRoom(ownerID), models.EventSupportTicketUpdate,
		models.TicketStatusPayload{TicketID: ticketID, Status: status})
}

// handleChannelMessage runs on the loop: synchronous fan-out first,
// then a snapshot of who is currently viewing the room, taken while we
// still own the index. The unread recomputation itself is I/O and runs
// off-loop.
func (h *Hub) handleChannelMessage(msg *models.Message) {
	roomKey := ChannelRoom(msg.ChannelID)
	h.fanOut(roomKey, models.Event{Name: models.EventMessageNew, Data: msg}, "")

	viewers := make(map[string]struct{})
	for _, client := range h.rooms[roomKey] {
		viewers[client.GetUserID()] = struct{}{}
	}

	go h.pushUnreadUpdates(msg, viewers)
}

// pushUnreadUpdates обчислює АБСОЛЮТНУ кількість непрочитаного для
// кожного учасника каналу, крім відправника та тих, хто зараз
// переглядає кімнату, і надсилає її в особисту кімнату учасника.
// Абсолютне значення, не дельта: повільний клієнт, що пропустив
// оновлення, зійдеться на наступному.
func (h *Hub) pushUnreadUpdates(msg *models.Message, viewers map[string]struct{}) {
	memberIDs, err := h.Store.GetChannelMemberIDs(msg.ChannelID)
	if err != nil {
		log.Printf("ERROR: Failed to load members of channel %d: %v", msg.ChannelID, err)
		return
	}

	for _, memberID := range memberIDs {
		if memberID == msg.SenderID {
			continue
		}
		if _, viewing := viewers[memberID]; viewing {
			continue
		}

		count, err := h.Store.CountUnread(memberID, msg.ChannelID)
		if err != nil {
			log.Printf("ERROR: Failed to count unread for user %s in channel %d: %v",
				memberID, msg.ChannelID, err)
			continue
		}

		h.BroadcastToRoom(UserRoom(memberID), models.EventChannelUnreadUpdate,
			models.UnreadUpdate{ChannelID: msg.ChannelID, UnreadCount: count})
	}
}
