package gateway

import (
	"log"

	"github.com/judelaw007/connectbymanus-sub000/internal/models"
	"github.com/judelaw007/connectbymanus-sub000/internal/storage"
)

// roomChange - команда приєднання/виходу з кімнати.
// channelID != 0 лише для кімнат каналів: після успішного приєднання
// канал асинхронно позначається прочитаним.
type roomChange struct {
	client    Client
	roomKey   string
	channelID uint
}

// roomEvent is one fan-out request: deliver event to every current
// subscriber of roomKey, optionally skipping one connection.
type roomEvent struct {
	roomKey    string
	event      models.Event
	exceptConn string
}

// Hub — диспетчер шлюзу. Всі мутації індексів conns та rooms
// виконуються в одній goroutine (Run), тому блокування не потрібне:
// взаємне виключення структурне. Hub одноосібно володіє
// послідовністю teardown з'єднання, що закривається.
type Hub struct {
	Store     storage.Storage
	Authority *Authority

	presence *PresenceRegistry

	// Live indices. Owned exclusively by the Run goroutine.
	conns  map[string]Client              // conn ID -> client
	rooms  map[string]map[string]Client   // room key -> conn ID -> client
	joined map[string]map[string]struct{} // conn ID -> joined room keys

	// Channels
	RegisterCh   chan Client
	UnregisterCh chan Client

	joinCh      chan roomChange
	leaveCh     chan roomChange
	broadcastCh chan roomEvent
	messageCh   chan *models.Message
}

// NewHub creates a hub. The presence registry is injected rather than
// created internally so the process owns its lifecycle.
func NewHub(s storage.Storage, presence *PresenceRegistry) *Hub {
	return &Hub{
		Store:     s,
		Authority: NewAuthority(s),
		presence:  presence,

		conns:  make(map[string]Client),
		rooms:  make(map[string]map[string]Client),
		joined: make(map[string]map[string]struct{}),

		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		joinCh:       make(chan roomChange),
		leaveCh:      make(chan roomChange),
		broadcastCh:  make(chan roomEvent),
		messageCh:    make(chan *models.Message),
	}
}

// Run запускає головний цикл диспетчера. Викликається один раз,
// в окремій goroutine, при старті процесу.
func (h *Hub) Run() {
	log.Println("Gateway hub started.")

	for {
		select {
		case client := <-h.RegisterCh:
			h.admit(client)

		case client := <-h.UnregisterCh:
			h.teardown(client)

		case change := <-h.joinCh:
			h.subscribe(change)

		case change := <-h.leaveCh:
			h.unsubscribe(change.client, change.roomKey)

		case ev := <-h.broadcastCh:
			h.fanOut(ev.roomKey, ev.event, ev.exceptConn)

		case msg := <-h.messageCh:
			h.handleChannelMessage(msg)
		}
	}
}

// Join subscribes an already authorized connection to a room.
func (h *Hub) Join(c Client, roomKey string) {
	h.joinCh <- roomChange{client: c, roomKey: roomKey}
}

// JoinChannel subscribes to a channel room and, as a side effect of a
// successful join, marks the channel read (joining means viewing it).
func (h *Hub) JoinChannel(c Client, channelID uint) {
	h.joinCh <- roomChange{client: c, roomKey: ChannelRoom(channelID), channelID: channelID}
}

// Leave removes the connection from a room. It never fails; leaving a
// room that was never joined is a no-op.
func (h *Hub) Leave(c Client, roomKey string) {
	h.leaveCh <- roomChange{client: c, roomKey: roomKey}
}

// Typing relays a typing indicator to the channel room minus the
// originating connection. Nothing is persisted.
func (h *Hub) Typing(c Client, channelID uint, started bool) {
	name := models.EventUserTyping
	if !started {
		name = models.EventUserStoppedTyping
	}
	h.broadcastCh <- roomEvent{
		roomKey: ChannelRoom(channelID),
		event: models.Event{Name: name, Data: models.TypingPayload{
			UserID:    c.GetUserID(),
			ChannelID: channelID,
		}},
		exceptConn: c.GetConnID(),
	}
}

// BroadcastToRoom pushes an event to every current subscriber of the
// room; a room with no subscribers is a no-op. Events broadcast to the
// same room are delivered to all subscribers in call order.
func (h *Hub) BroadcastToRoom(roomKey, eventName string, data any) {
	h.broadcastCh <- roomEvent{
		roomKey: roomKey,
		event:   models.Event{Name: eventName, Data: data},
	}
}

// OnlineUsers returns the current presence snapshot.
func (h *Hub) OnlineUsers() []OnlineUser {
	return h.presence.List()
}

// --- loop internals; everything below runs on the Run goroutine ---

// admit реєструє нове з'єднання: особиста кімната, адмінська кімната
// для адмінів, запис у presence та розсилка user:online при першому
// з'єднанні користувача.
func (h *Hub) admit(c Client) {
	connID := c.GetConnID()
	if _, ok := h.conns[connID]; ok {
		return
	}
	h.conns[connID] = c
	h.joined[connID] = make(map[string]struct{})

	h.addToRoom(c, UserRoom(c.GetUserID()))
	if c.IsAdmin() {
		h.addToRoom(c, AdminRoom)
	}

	first := h.presence.Add(c.GetUserID(), c.GetName(), connID)
	if first {
		h.broadcastAll(models.Event{
			Name: models.EventUserOnline,
			Data: models.PresencePayload{UserID: c.GetUserID(), Name: c.GetName()},
		})
	}

	// Seed the newcomer's own view of who is online.
	h.trySend(c, models.Event{Name: models.EventOnlineList, Data: h.presence.List()})

	log.Printf("Connection %s admitted for user %s", connID, c.GetUserID())
}

// teardown — єдине місце, де закривається з'єднання. Порядок:
// видалення з усіх кімнат, потім presence, потім закриття клієнта.
// Повторний виклик — no-op.
func (h *Hub) teardown(c Client) {
	connID := c.GetConnID()
	if _, ok := h.conns[connID]; !ok {
		return
	}

	for roomKey := range h.joined[connID] {
		h.removeFromRoom(connID, roomKey)
	}
	delete(h.joined, connID)
	delete(h.conns, connID)

	last := h.presence.Remove(c.GetUserID(), connID)
	if last {
		h.broadcastAll(models.Event{
			Name: models.EventUserOffline,
			Data: models.PresencePayload{UserID: c.GetUserID(), Name: c.GetName()},
		})
	}

	c.Close()
	log.Printf("Connection %s closed for user %s", connID, c.GetUserID())
}

func (h *Hub) subscribe(change roomChange) {
	connID := change.client.GetConnID()
	if _, ok := h.conns[connID]; !ok {
		// Закрилося раніше, ніж команда дійшла до циклу.
		return
	}
	h.addToRoom(change.client, change.roomKey)

	if change.channelID != 0 {
		// Joining a channel room implies actively viewing it.
		// Best effort: a failed mark-read must not affect delivery.
		go h.markChannelRead(change.client.GetUserID(), change.channelID)
	}
}

func (h *Hub) unsubscribe(c Client, roomKey string) {
	connID := c.GetConnID()
	if _, ok := h.conns[connID]; !ok {
		return
	}
	h.removeFromRoom(connID, roomKey)
}

func (h *Hub) addToRoom(c Client, roomKey string) {
	room, ok := h.rooms[roomKey]
	if !ok {
		room = make(map[string]Client)
		h.rooms[roomKey] = room
	}
	room[c.GetConnID()] = c
	h.joined[c.GetConnID()][roomKey] = struct{}{}
}

func (h *Hub) removeFromRoom(connID, roomKey string) {
	if room, ok := h.rooms[roomKey]; ok {
		delete(room, connID)
		if len(room) == 0 {
			delete(h.rooms, roomKey)
		}
	}
	if joined, ok := h.joined[connID]; ok {
		delete(joined, roomKey)
	}
}

// fanOut доставляє подію всім передплатникам кімнати синхронно,
// тому порядок двох послідовних broadcast зберігається для кожного
// передплатника.
func (h *Hub) fanOut(roomKey string, event models.Event, exceptConn string) {
	for connID, client := range h.rooms[roomKey] {
		if connID == exceptConn {
			continue
		}
		h.trySend(client, event)
	}
}

func (h *Hub) broadcastAll(event models.Event) {
	for _, client := range h.conns {
		h.trySend(client, event)
	}
}

// trySend enqueues without blocking the loop. A slow consumer with a
// full buffer loses the frame; the poll path re-converges its state.
func (h *Hub) trySend(c Client, event models.Event) {
	select {
	case c.GetSendChannel() <- event:
	default:
		log.Printf("WARNING: Dropping %s event for slow connection %s", event.Name, c.GetConnID())
	}
}

func (h *Hub) markChannelRead(userID string, channelID uint) {
	if err := h.Store.MarkChannelRead(userID, channelID); err != nil {
		log.Printf("ERROR: Failed to mark channel %d read for user %s: %v", channelID, userID, err)
	}
}
