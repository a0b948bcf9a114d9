package repository

import (
	"time"

	"github.com/user/reelbot/internal/model"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create 追加一条消息日志
func (r *MessageRepository) Create(userID, sessionID int, messageID int64, text, messageType string) error {
	if messageType == "" {
		messageType = "text"
	}
	return r.db.Create(&model.Message{
		MessageID:   messageID,
		UserID:      userID,
		SessionID:   sessionID,
		Text:        text,
		MessageType: messageType,
		CreatedAt:   time.Now(),
	}).Error
}

// ListByUser 获取用户最近的消息
func (r *MessageRepository) ListByUser(userID, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	var msgs []*model.Message
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&msgs).Error
	return msgs, err
}

// Count 获取消息总数
func (r *MessageRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).Count(&count).Error
	return count, err
}
