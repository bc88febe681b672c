package gateway_test

import (
	"testing"
	"time"

	"github.com/judelaw007/connectbymanus-sub000/internal/gateway"
	"github.com/judelaw007/connectbymanus-sub000/internal/models"

	"github.com/stretchr/testify/assert"
)

const settle = 50 * time.Millisecond

func startHub(storageMock *MockStorage) *gateway.Hub {
	hub := gateway.NewHub(storageMock, gateway.NewPresenceRegistry())
	go hub.Run()
	return hub
}

func TestHub_AdmissionSendsOnlineList(t *testing.T) {
	hub := startHub(new(MockStorage))

	client := newMockClient("conn_1", "user_A", "Alice")
	hub.RegisterCh <- client
	time.Sleep(settle)

	events := client.drain()
	assert.Contains(t, eventNames(events), models.EventOnlineList)
	// The first connection of a user also sees its own user:online.
	assert.Contains(t, eventNames(events), models.EventUserOnline)
}

// One user with several simultaneous connections must produce exactly
// one user:online and, after all of them close, exactly one
// user:offline — transitions are per user, not per connection.
func TestHub_PresenceIdempotence(t *testing.T) {
	hub := startHub(new(MockStorage))

	observer := newMockClient("conn_obs", "user_O", "Observer")
	hub.RegisterCh <- observer
	time.Sleep(settle)
	observer.drain()

	tab1 := newMockClient("conn_A1", "user_A", "Alice")
	tab2 := newMockClient("conn_A2", "user_A", "Alice")

	hub.RegisterCh <- tab1
	hub.RegisterCh <- tab2
	time.Sleep(settle)

	online := 0
	for _, ev := range observer.drain() {
		if ev.Name == models.EventUserOnline {
			online++
			assert.Equal(t, "user_A", ev.Data.(models.PresencePayload).UserID)
		}
	}
	assert.Equal(t, 1, online, "user:online must fire once for N connections")

	hub.UnregisterCh <- tab1
	time.Sleep(settle)
	assert.NotContains(t, eventNames(observer.drain()), models.EventUserOffline,
		"closing one of two tabs is not an offline transition")

	hub.UnregisterCh <- tab2
	time.Sleep(settle)

	offline := 0
	for _, ev := range observer.drain() {
		if ev.Name == models.EventUserOffline {
			offline++
		}
	}
	assert.Equal(t, 1, offline, "user:offline must fire exactly once")
}

// A broadcast to one channel room must never reach a connection that
// is subscribed only to a different room.
func TestHub_RoomIsolation(t *testing.T) {
	hub := startHub(new(MockStorage))

	inRoom := newMockClient("conn_1", "user_A", "Alice")
	elsewhere := newMockClient("conn_2", "user_B", "Bob")
	hub.RegisterCh <- inRoom
	hub.RegisterCh <- elsewhere
	time.Sleep(settle)

	hub.Join(inRoom, gateway.ChannelRoom(1))
	hub.Join(elsewhere, gateway.ChannelRoom(2))
	time.Sleep(settle)
	inRoom.drain()
	elsewhere.drain()

	hub.BroadcastToRoom(gateway.ChannelRoom(1), models.EventMessageNew, "payload")
	time.Sleep(settle)

	assert.Contains(t, eventNames(inRoom.drain()), models.EventMessageNew)
	assert.Empty(t, elsewhere.drain(), "subscriber of channel:2 must not see channel:1 traffic")
}

// Sequential broadcasts to one room arrive at every subscriber in the
// order they were issued.
func TestHub_FanOutOrdering(t *testing.T) {
	hub := startHub(new(MockStorage))

	first := newMockClient("conn_1", "user_A", "Alice")
	second := newMockClient("conn_2", "user_B", "Bob")
	hub.RegisterCh <- first
	hub.RegisterCh <- second
	time.Sleep(settle)

	room := gateway.ChannelRoom(7)
	hub.Join(first, room)
	hub.Join(second, room)
	time.Sleep(settle)
	first.drain()
	second.drain()

	hub.BroadcastToRoom(room, models.EventMessageNew, "one")
	hub.BroadcastToRoom(room, models.EventMessageNew, "two")
	hub.BroadcastToRoom(room, models.EventMessageNew, "three")
	time.Sleep(settle)

	for _, client := range []*mockClient{first, second} {
		events := client.drain()
		if assert.Len(t, events, 3) {
			assert.Equal(t, "one", events[0].Data)
			assert.Equal(t, "two", events[1].Data)
			assert.Equal(t, "three", events[2].Data)
		}
	}
}

// After a connection closes, no room keeps delivering to it, its
// presence entry is gone, and a repeated close is a no-op.
func TestHub_TeardownCompleteness(t *testing.T) {
	hub := startHub(new(MockStorage))

	client := newMockClient("conn_1", "user_A", "Alice")
	hub.RegisterCh <- client
	time.Sleep(settle)

	room := gateway.ChannelRoom(3)
	hub.Join(client, room)
	time.Sleep(settle)

	hub.UnregisterCh <- client
	time.Sleep(settle)

	assert.Empty(t, hub.OnlineUsers(), "presence entry must not outlive the last connection")
	assert.EqualValues(t, 1, client.closes())

	client.drain()
	hub.BroadcastToRoom(room, models.EventMessageNew, "late")
	hub.BroadcastToRoom(gateway.UserRoom("user_A"), models.EventMessageNew, "late")
	time.Sleep(settle)
	assert.Empty(t, client.drain(), "closed connection must be out of every room index")

	// Повторне закриття — no-op, не помилка.
	hub.UnregisterCh <- client
	time.Sleep(settle)
	assert.EqualValues(t, 1, client.closes())
}

func TestHub_AdminAutoJoin(t *testing.T) {
	hub := startHub(new(MockStorage))

	admin := newAdminClient("conn_adm", "user_ADM", "Root")
	member := newMockClient("conn_mem", "user_M", "Mona")
	hub.RegisterCh <- admin
	hub.RegisterCh <- member
	time.Sleep(settle)
	admin.drain()
	member.drain()

	hub.BroadcastToRoom(gateway.AdminRoom, models.EventSupportNewTicket, "ticket")
	time.Sleep(settle)

	assert.Contains(t, eventNames(admin.drain()), models.EventSupportNewTicket)
	assert.Empty(t, member.drain(), "regular members are never in the admin room")
}

func TestHub_UserRoomAutoJoin(t *testing.T) {
	hub := startHub(new(MockStorage))

	client := newMockClient("conn_1", "user_A", "Alice")
	hub.RegisterCh <- client
	time.Sleep(settle)
	client.drain()

	hub.BroadcastToRoom(gateway.UserRoom("user_A"), models.EventChannelUnreadUpdate, "n")
	time.Sleep(settle)

	assert.Contains(t, eventNames(client.drain()), models.EventChannelUnreadUpdate)
}

// Typing indicators reach the room minus the connection that typed.
func TestHub_TypingRelay(t *testing.T) {
	hub := startHub(new(MockStorage))

	typist := newMockClient("conn_1", "user_A", "Alice")
	reader := newMockClient("conn_2", "user_B", "Bob")
	hub.RegisterCh <- typist
	hub.RegisterCh <- reader
	time.Sleep(settle)

	room := gateway.ChannelRoom(4)
	hub.Join(typist, room)
	hub.Join(reader, room)
	time.Sleep(settle)
	typist.drain()
	reader.drain()

	hub.Typing(typist, 4, true)
	hub.Typing(typist, 4, false)
	time.Sleep(settle)

	names := eventNames(reader.drain())
	assert.Contains(t, names, models.EventUserTyping)
	assert.Contains(t, names, models.EventUserStoppedTyping)
	assert.Empty(t, typist.drain(), "the typist must not hear their own indicator")
}

// JoinChannel marks the channel read: joining a room means viewing it.
func TestHub_JoinChannelMarksRead(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("MarkChannelRead", "user_A", uint(9)).Return(nil)
	hub := startHub(storageMock)

	client := newMockClient("conn_1", "user_A", "Alice")
	hub.RegisterCh <- client
	time.Sleep(settle)

	hub.JoinChannel(client, 9)
	time.Sleep(settle)

	storageMock.AssertCalled(t, "MarkChannelRead", "user_A", uint(9))
}

// A connection whose send buffer is full loses the frame; the fan-out
// loop must not stall on it and every other subscriber still receives
// the broadcast.
func TestHub_SlowConsumerDropsFrameWithoutStallingFanOut(t *testing.T) {
	hub := startHub(new(MockStorage))

	slow := newMockClient("conn_slow", "user_S", "Slow")
	slow.send = make(chan models.Event, 1)
	fast := newMockClient("conn_fast", "user_F", "Fast")

	// Admission alone fills the single slot (user:online), so every
	// later frame for the slow connection hits a full buffer.
	hub.RegisterCh <- slow
	hub.RegisterCh <- fast
	time.Sleep(settle)
	fast.drain()

	room := gateway.ChannelRoom(8)
	hub.Join(slow, room)
	hub.Join(fast, room)
	time.Sleep(settle)
	fast.drain()

	done := make(chan struct{})
	go func() {
		hub.BroadcastToRoom(room, models.EventMessageNew, "first")
		hub.BroadcastToRoom(room, models.EventMessageNew, "second")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fan-out blocked on a connection with a full send buffer")
	}
	time.Sleep(settle)

	assert.Equal(t,
		[]string{models.EventMessageNew, models.EventMessageNew},
		eventNames(fast.drain()))
	assert.Len(t, slow.drain(), 1,
		"the slow connection keeps only its admission frame")
}

func TestHub_LeaveRoomStopsDelivery(t *testing.T) {
	hub := startHub(new(MockStorage))

	client := newMockClient("conn_1", "user_A", "Alice")
	hub.RegisterCh <- client
	time.Sleep(settle)

	room := gateway.ChannelRoom(6)
	hub.Join(client, room)
	time.Sleep(settle)
	client.drain()

	hub.Leave(client, room)
	time.Sleep(settle)

	hub.BroadcastToRoom(room, models.EventMessageNew, "after leave")
	time.Sleep(settle)
	assert.Empty(t, client.drain())

	// Вихід з кімнати, до якої не приєднувалися — теж no-op.
	hub.Leave(client, gateway.ChannelRoom(404))
	time.Sleep(settle)
}
