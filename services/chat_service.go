package services

import (
	"strings"

	"quizdeck/models"

	"gorm.io/gorm"
)

type ChatService struct {
	db     *gorm.DB
	access *AccessService
}

func NewChatService(db *gorm.DB, access *AccessService) *ChatService {
	return &ChatService{db: db, access: access}
}

// SaveMessage persists a chat message in a class room. The sender must be
// able to read the class.
func (s *ChatService) SaveMessage(userID, classID uint, body string) (*models.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrBadRequest
	}

	readable, err := s.access.CanReadClass(userID, classID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, ErrForbidden
	}

	message := models.ChatMessage{
		ClassID: classID,
		UserID:  userID,
		Body:    body,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").First(&message, message.ID).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetRecentMessages returns the latest messages for a class room, oldest first.
func (s *ChatService) GetRecentMessages(userID, classID uint, limit int) ([]models.ChatMessage, error) {
	readable, err := s.access.CanReadClass(userID, classID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, ErrForbidden
	}
	if limit <= 0 {
		limit = 50
	}

	var messages []models.ChatMessage
	err = s.db.Where("class_id = ?", classID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse to chronological order for display.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
