package gateway_test

import (
	"sync/atomic"
	"time"

	"github.com/judelaw007/connectbymanus-sub000/internal/gateway"
	"github.com/judelaw007/connectbymanus-sub000/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a comprehensive mock implementation of the
// storage.Storage interface. It uses testify/mock to allow flexible
// expectation setting in tests.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SetUserRole(userID, role string) error {
	args := m.Called(userID, role)
	return args.Error(0)
}

// Moderation operations
func (m *MockStorage) IsUserBanned(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) BanUser(userID string, duration time.Duration) error {
	args := m.Called(userID, duration)
	return args.Error(0)
}

func (m *MockStorage) UnbanUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// Channel operations
func (m *MockStorage) GetChannelByID(id uint) (*models.Channel, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *MockStorage) ListChannelsForUser(userID string) ([]models.Channel, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Channel), args.Error(1)
}

func (m *MockStorage) IsChannelMember(userID string, channelID uint) (bool, error) {
	args := m.Called(userID, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) GetChannelMemberIDs(channelID uint) ([]string, error) {
	args := m.Called(channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Message operations
func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetChannelHistory(channelID uint, limit int) ([]models.Message, error) {
	args := m.Called(channelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) MarkChannelRead(userID string, channelID uint) error {
	args := m.Called(userID, channelID)
	return args.Error(0)
}

func (m *MockStorage) CountUnread(userID string, channelID uint) (int64, error) {
	args := m.Called(userID, channelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) UnreadCounts(userID string) (map[uint]int64, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int64), args.Error(1)
}

// Ticket operations
func (m *MockStorage) SaveTicket(ticket *models.SupportTicket) error {
	args := m.Called(ticket)
	return args.Error(0)
}

func (m *MockStorage) GetTicketByID(id string) (*models.SupportTicket, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupportTicket), args.Error(1)
}

func (m *MockStorage) ListTicketsForOwner(ownerID string) ([]models.SupportTicket, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SupportTicket), args.Error(1)
}

func (m *MockStorage) ListOpenTickets() ([]models.SupportTicket, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SupportTicket), args.Error(1)
}

func (m *MockStorage) SaveSupportMessage(msg *models.SupportMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetTicketMessages(ticketID string) ([]models.SupportMessage, error) {
	args := m.Called(ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SupportMessage), args.Error(1)
}

func (m *MockStorage) SetTicketStatus(ticketID, status string) error {
	args := m.Called(ticketID, status)
	return args.Error(0)
}

// mockClient is a plain test double for the gateway.Client interface.
// It records everything the hub pushes into its send channel.
type mockClient struct {
	connID string
	userID string
	name   string
	admin  bool

	send       chan models.Event
	closeCount int32
}

func newMockClient(connID, userID, name string) *mockClient {
	return &mockClient{
		connID: connID,
		userID: userID,
		name:   name,
		send:   make(chan models.Event, 64), // Buffered to prevent blocking in tests
	}
}

func newAdminClient(connID, userID, name string) *mockClient {
	c := newMockClient(connID, userID, name)
	c.admin = true
	return c
}

func (c *mockClient) GetConnID() string { return c.connID }

func (c *mockClient) GetUserID() string { return c.userID }

func (c *mockClient) GetName() string { return c.name }

func (c *mockClient) IsAdmin() bool { return c.admin }

func (c *mockClient) GetSendChannel() chan<- models.Event { return c.send }

func (c *mockClient) Run() {}

func (c *mockClient) Close() {
	atomic.AddInt32(&c.closeCount, 1)
}

func (c *mockClient) closes() int32 {
	return atomic.LoadInt32(&c.closeCount)
}

// drain collects every event currently buffered for the client.
func (c *mockClient) drain() []models.Event {
	var events []models.Event
	for {
		select {
		case ev := <-c.send:
			events = append(events, ev)
		default:
			return events
		}
	}
}

// eventNames is a small helper for order-insensitive assertions.
func eventNames(events []models.Event) []string {
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	return names
}

var _ gateway.Client = (*mockClient)(nil)
