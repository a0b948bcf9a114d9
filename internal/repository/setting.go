package repository

import (
	"errors"
	"time"

	"github.com/user/reelbot/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get 读取配置项，不存在时返回空串
func (r *SettingRepository) Get(key string) (string, error) {
	var setting model.BotSetting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// Set 写入配置项（upsert）
func (r *SettingRepository) Set(key, value, description string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":       value,
			"description": description,
			"updated_at":  time.Now(),
		}),
	}).Create(&model.BotSetting{
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedAt:   time.Now(),
	}).Error
}
