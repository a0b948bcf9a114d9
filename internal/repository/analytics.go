package repository

import (
	"time"

	"github.com/user/reelbot/internal/model"
	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Track 记录一个事件
func (r *AnalyticsRepository) Track(event, data string, userID int) error {
	return r.db.Create(&model.Analytics{
		Event:     event,
		Data:      data,
		UserID:    userID,
		CreatedAt: time.Now(),
	}).Error
}

// ListByEvent 按事件名获取最近记录
func (r *AnalyticsRepository) ListByEvent(event string, limit int) ([]*model.Analytics, error) {
	if limit <= 0 {
		limit = 100
	}
	q := r.db.Order("id DESC").Limit(limit)
	if event != "" {
		q = q.Where("event = ?", event)
	}
	var rows []*model.Analytics
	err := q.Find(&rows).Error
	return rows, err
}

// Stats 汇总管理后台统计数据
func (r *AnalyticsRepository) Stats() (*model.Stats, error) {
	var stats model.Stats

	if err := r.db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Message{}).Count(&stats.TotalMessages).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Session{}).Count(&stats.TotalSessions).Error; err != nil {
		return nil, err
	}
	since := time.Now().Add(-24 * time.Hour)
	if err := r.db.Model(&model.User{}).Where("created_at >= ?", since).Count(&stats.RecentUsers).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
