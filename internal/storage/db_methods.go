package storage

import (
	"errors"
	"log"
	"time"

	"github.com/judelaw007/connectbymanus-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetChannelByID завантажує канал за ID.
func (s *Service) GetChannelByID(id uint) (*models.Channel, error) {
	var channel models.Channel
	err := s.DB.First(&channel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

// ListChannelsForUser повертає канали, видимі користувачу: всі публічні
// плюс приватні, в яких він є учасником.
func (s *Service) ListChannelsForUser(userID string) ([]models.Channel, error) {
	var channels []models.Channel
	err := s.DB.
		Where("is_private = ?", false).
		Or("id IN (?)", s.DB.Model(&models.ChannelMembership{}).
			Select("channel_id").
			Where("user_id = ?", userID)).
		Order("name asc").
		Find(&channels).Error
	if err != nil {
		return nil, err
	}
	return channels, nil
}

// IsChannelMember перевіряє наявність активного запису членства.
func (s *Service) IsChannelMember(userID string, channelID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ChannelMembership{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetChannelMemberIDs повертає ID всіх учасників каналу.
func (s *Service) GetChannelMemberIDs(channelID uint) ([]string, error) {
	var ids []string
	err := s.DB.Model(&models.ChannelMembership{}).
		Where("channel_id = ?", channelID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SaveMessage зберігає повідомлення в PostgreSQL. msg.ID заповнюється GORM.
func (s *Service) SaveMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for channel %d: %v", msg.ChannelID, err)
		return err
	}
	return nil
}

// GetChannelHistory отримує останні повідомлення каналу, найстаріші першими.
func (s *Service) GetChannelHistory(channelID uint, limit int) ([]models.Message, error) {
	var history []models.Message
	err := s.DB.Where("channel_id = ?", channelID).
		Order("created_at desc").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		log.Printf("ERROR: Failed to get history for channel %d: %v", channelID, err)
		return nil, err
	}
	// Завантажено у зворотному порядку; розгортаємо для клієнта.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

// MarkChannelRead пересуває позначку "прочитано до" на теперішній час.
func (s *Service) MarkChannelRead(userID string, channelID uint) error {
	state := models.ChannelReadState{
		ChannelID:  channelID,
		UserID:     userID,
		LastReadAt: time.Now(),
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_read_at"}),
	}).Create(&state).Error
}

// CountUnread рахує повідомлення, новіші за позначку прочитання.
// Власні повідомлення користувача не рахуються непрочитаними.
func (s *Service) CountUnread(userID string, channelID uint) (int64, error) {
	var state models.ChannelReadState
	err := s.DB.Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&state).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	query := s.DB.Model(&models.Message{}).
		Where("channel_id = ? AND sender_id <> ?", channelID, userID)
	if err == nil {
		query = query.Where("created_at > ?", state.LastReadAt)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UnreadCounts обчислює непрочитане для всіх видимих каналів користувача.
func (s *Service) UnreadCounts(userID string) (map[uint]int64, error) {
	channels, err := s.ListChannelsForUser(userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(channels))
	for _, channel := range channels {
		n, err := s.CountUnread(userID, channel.ID)
		if err != nil {
			return nil, err
		}
		counts[channel.ID] = n
	}
	return counts, nil
}

// SaveTicket зберігає квиток підтримки.
func (s *Service) SaveTicket(ticket *models.SupportTicket) error {
	return s.DB.Save(ticket).Error
}

func (s *Service) GetTicketByID(id string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := s.DB.Where("id = ?", id).First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *Service) ListTicketsForOwner(ownerID string) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := s.DB.Where("owner_id = ?", ownerID).
		Order("updated_at desc").
		Find(&tickets).Error
	return tickets, err
}

// ListOpenTickets повертає всі незакриті квитки (для адмінської скриньки).
func (s *Service) ListOpenTickets() ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := s.DB.Where("status <> ?", models.TicketStatusClosed).
		Order("updated_at desc").
		Find(&tickets).Error
	return tickets, err
}

func (s *Service) SaveSupportMessage(msg *models.SupportMessage) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save support message for ticket %s: %v", msg.TicketID, err)
		return err
	}
	return nil
}

func (s *Service) GetTicketMessages(ticketID string) ([]models.SupportMessage, error) {
	var messages []models.SupportMessage
	err := s.DB.Where("ticket_id = ?", ticketID).
		Order("created_at asc").
		Find(&messages).Error
	return messages, err
}

// SetTicketStatus оновлює статус квитка.
func (s *Service) SetTicketStatus(ticketID, status string) error {
	return s.DB.Model(&models.SupportTicket{}).
		Where("id = ?", ticketID).
		Update("status", status).Error
}
