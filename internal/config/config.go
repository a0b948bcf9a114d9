package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env           string
	AppSecret     string
	BotToken      string
	TMDBAPIKey    string
	ChannelID     int64
	DatabaseURL   string
	WebhookURL    string
	JWTExpiry     time.Duration
	BroadcastHour int
	Port          string
	BotName       string
}

// Load 加载配置
func Load() *Config {
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "reelbot")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := getEnv("DATABASE_URL", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL))

	appSecret := getEnv("APP_SECRET", "your-secret-key-change-in-production")

	if getEnv("APP_ENV", "development") == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	// 广播时间（UTC 小时），默认每天 9 点
	broadcastHour, err := strconv.Atoi(getEnv("BROADCAST_HOUR", "9"))
	if err != nil || broadcastHour < 0 || broadcastHour > 23 {
		broadcastHour = 9
	}

	channelID, _ := strconv.ParseInt(os.Getenv("CHANNEL_ID"), 10, 64)

	return &Config{
		Env:           getEnv("APP_ENV", "development"),
		AppSecret:     appSecret,
		BotToken:      os.Getenv("BOT_TOKEN"),
		TMDBAPIKey:    os.Getenv("TMDB_API_KEY"),
		ChannelID:     channelID,
		DatabaseURL:   dbURL,
		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		JWTExpiry:     time.Duration(expiryHours) * time.Hour,
		BroadcastHour: broadcastHour,
		Port:          getEnv("PORT", "5005"),
		BotName:       getEnv("BOT_NAME", "Daily Movie & TV Series Bot"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
