package storage

import (
	"context"
	"errors"
	"time"

	"github.com/judelaw007/connectbymanus-sub000/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage is the persistence contract the gateway and the HTTP
// handlers depend on. The gateway only ever reads membership data and
// triggers recomputation; it never owns any persisted value.
type Storage interface {
	// Users
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	SetUserRole(userID, role string) error

	// Moderation flags (Redis)
	IsUserBanned(userID string) (bool, error)
	BanUser(userID string, duration time.Duration) error
	UnbanUser(userID string) error

	// Channels and membership
	GetChannelByID(id uint) (*models.Channel, error)
	ListChannelsForUser(userID string) ([]models.Channel, error)
	IsChannelMember(userID string, channelID uint) (bool, error)
	GetChannelMemberIDs(channelID uint) ([]string, error)

	// Messages and read state
	SaveMessage(msg *models.Message) error
	GetChannelHistory(channelID uint, limit int) ([]models.Message, error)
	MarkChannelRead(userID string, channelID uint) error
	CountUnread(userID string, channelID uint) (int64, error)
	UnreadCounts(userID string) (map[uint]int64, error)

	// Support tickets
	SaveTicket(ticket *models.SupportTicket) error
	GetTicketByID(id string) (*models.SupportTicket, error)
	ListTicketsForOwner(ownerID string) ([]models.SupportTicket, error)
	ListOpenTickets() ([]models.SupportTicket, error)
	SaveSupportMessage(msg *models.SupportMessage) error
	GetTicketMessages(ticketID string) ([]models.SupportMessage, error)
	SetTicketStatus(ticketID, status string) error
}

// Service реалізує Storage поверх PostgreSQL (GORM) та Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveUser зберігає користувача в PostgreSQL.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// GetUserByID завантажує користувача за його UUID.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserRole оновлює роль користувача (використовується admin CLI).
func (s *Service) SetUserRole(userID, role string) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}

// IsUserBanned перевіряє статус бану в Redis.
func (s *Service) IsUserBanned(userID string) (bool, error) {
	key := "ban:" + userID
	status, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// BanUser ставить тимчасовий бан. duration == 0 означає безстроковий.
func (s *Service) BanUser(userID string, duration time.Duration) error {
	key := "ban:" + userID
	return s.Redis.Set(s.Ctx, key, "banned", duration).Err()
}

func (s *Service) UnbanUser(userID string) error {
	return s.Redis.Del(s.Ctx, "ban:"+userID).Err()
}
