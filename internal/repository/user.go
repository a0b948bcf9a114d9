package repository

import (
	"errors"
	"time"

	"github.com/user/reelbot/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert 按 Telegram ID 创建或更新用户（幂等）
// 首次创建时写入默认偏好，已存在时只刷新资料字段和 last_seen，不覆盖已选偏好
func (r *UserRepository) Upsert(user *model.User) (*model.User, error) {
	now := time.Now()
	user.LastSeen = now

	existing, err := r.FindByTelegramID(user.TelegramID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if user.Genre == "" {
			user.Genre = "action"
		}
		if user.ContentType == "" {
			user.ContentType = model.ContentTypeMovie
		}
		user.IsActive = true
		user.CreatedAt = now
		if err := r.db.Create(user).Error; err != nil {
			return nil, err
		}
		return user, nil
	}

	err = r.db.Model(&model.User{}).Where("telegram_id = ?", user.TelegramID).Updates(map[string]interface{}{
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"username":      user.Username,
		"language_code": user.LanguageCode,
		"is_bot":        user.IsBot,
		"is_active":     true,
		"is_blocked":    false,
		"last_seen":     now,
	}).Error
	if err != nil {
		return nil, err
	}
	return r.FindByTelegramID(user.TelegramID)
}

// FindByTelegramID 根据 Telegram ID 查找用户
func (r *UserRepository) FindByTelegramID(telegramID int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// SetContentType 更新内容类型偏好
func (r *UserRepository) SetContentType(telegramID int64, contentType string) error {
	return r.db.Model(&model.User{}).Where("telegram_id = ?", telegramID).Updates(map[string]interface{}{
		"content_type": contentType,
		"last_seen":    time.Now(),
	}).Error
}

// SetPreference 同时写入题材和内容类型（create-or-update 语义）
func (r *UserRepository) SetPreference(telegramID int64, genre, contentType string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"genre":        genre,
			"content_type": contentType,
			"last_seen":    time.Now(),
		}),
	}).Create(&model.User{
		TelegramID:  telegramID,
		Genre:       genre,
		ContentType: contentType,
		IsActive:    true,
		CreatedAt:   time.Now(),
		LastSeen:    time.Now(),
	}).Error
}

// MarkBlocked 标记用户已屏蔽机器人
func (r *UserRepository) MarkBlocked(telegramID int64) error {
	return r.db.Model(&model.User{}).Where("telegram_id = ?", telegramID).Updates(map[string]interface{}{
		"is_active":  false,
		"is_blocked": true,
	}).Error
}

// Delete 删除用户（退订）
// 返回是否真的删除了记录，退订不存在的用户是 no-op
func (r *UserRepository) Delete(telegramID int64) (bool, error) {
	res := r.db.Where("telegram_id = ?", telegramID).Delete(&model.User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListActive 获取所有活跃用户（广播用）
func (r *UserRepository) ListActive() ([]*model.User, error) {
	var users []*model.User
	err := r.db.Where("is_active = ? AND is_blocked = ?", true, false).Order("id ASC").Find(&users).Error
	return users, err
}

// Count 获取用户总数
func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}
