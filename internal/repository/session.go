package repository

import (
	"errors"
	"time"

	"github.com/user/reelbot/internal/model"
	"gorm.io/gorm"
)

// 超过该时长没有互动就视为新会话
const sessionIdleTimeout = 30 * time.Minute

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Touch 返回用户当前会话，空闲超时则结束旧会话并开启新会话
func (r *SessionRepository) Touch(userID int) (*model.Session, error) {
	var sess model.Session
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("started_at DESC").First(&sess).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		// 会话仍然新鲜，直接复用
		var last model.Message
		msgErr := r.db.Where("session_id = ?", sess.ID).Order("id DESC").First(&last).Error
		if msgErr == nil && time.Since(last.CreatedAt) < sessionIdleTimeout {
			return &sess, nil
		}
		if msgErr != nil && !errors.Is(msgErr, gorm.ErrRecordNotFound) {
			return nil, msgErr
		}
		if msgErr == nil {
			if endErr := r.End(sess.ID); endErr != nil {
				return nil, endErr
			}
		} else {
			// 会话还没有任何消息，继续使用
			return &sess, nil
		}
	}

	fresh := &model.Session{
		UserID:    userID,
		IsActive:  true,
		StartedAt: time.Now(),
	}
	if err := r.db.Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

// End 结束会话
func (r *SessionRepository) End(sessionID int) error {
	now := time.Now()
	return r.db.Model(&model.Session{}).Where("id = ?", sessionID).Updates(map[string]interface{}{
		"is_active": false,
		"ended_at":  &now,
	}).Error
}

// Count 获取会话总数
func (r *SessionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Session{}).Count(&count).Error
	return count, err
}
