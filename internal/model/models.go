package model

import (
	"time"
)

// 内容类型
const (
	ContentTypeMovie  = "movie"
	ContentTypeSeries = "series"
)

// User Telegram 用户及其偏好
type User struct {
	ID           int       `json:"id" db:"id" gorm:"primaryKey"`
	TelegramID   int64     `json:"telegram_id" db:"telegram_id" gorm:"uniqueIndex"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Username     string    `json:"username" db:"username"`
	LanguageCode string    `json:"language_code" db:"language_code"`
	IsBot        bool      `json:"is_bot" db:"is_bot"`
	IsPremium    bool      `json:"is_premium" db:"is_premium"` // Bot API 暂不下发，保留列位
	Genre        string    `json:"genre" db:"genre"`
	ContentType  string    `json:"content_type" db:"content_type"`
	IsActive     bool      `json:"is_active" db:"is_active" gorm:"default:true"`
	IsBlocked    bool      `json:"is_blocked" db:"is_blocked"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	LastSeen     time.Time `json:"last_seen" db:"last_seen"`
}

// Message 聊天消息日志（仅追加）
type Message struct {
	ID          int       `json:"id" db:"id" gorm:"primaryKey"`
	MessageID   int64     `json:"message_id" db:"message_id"`
	UserID      int       `json:"user_id" db:"user_id" gorm:"index"`
	SessionID   int       `json:"session_id" db:"session_id" gorm:"index"`
	Text        string    `json:"text" db:"text"`
	MessageType string    `json:"message_type" db:"message_type"` // text / command / callback
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Session 粗粒度会话边界
type Session struct {
	ID        int        `json:"id" db:"id" gorm:"primaryKey"`
	UserID    int        `json:"user_id" db:"user_id" gorm:"index"`
	IsActive  bool       `json:"is_active" db:"is_active" gorm:"index"`
	StartedAt time.Time  `json:"started_at" db:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" db:"ended_at"`
}

// Analytics 事件埋点
type Analytics struct {
	ID        int       `json:"id" db:"id" gorm:"primaryKey"`
	Event     string    `json:"event" db:"event" gorm:"index"`
	Data      string    `json:"data" db:"data"`
	UserID    int       `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BotSetting 键值配置
type BotSetting struct {
	ID          int       `json:"id" db:"id" gorm:"primaryKey"`
	Key         string    `json:"key" db:"key" gorm:"uniqueIndex;column:key"`
	Value       string    `json:"value" db:"value"`
	Description string    `json:"description" db:"description"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Stats 管理后台统计数据
type Stats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	TotalMessages int64 `json:"total_messages"`
	TotalSessions int64 `json:"total_sessions"`
	RecentUsers   int64 `json:"recent_users"` // 最近 24 小时新增
}
