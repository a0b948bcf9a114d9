package main

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/user/reelbot/internal/config"
)

// 把 Telegram webhook 指向 WEBHOOK_URL，部署后执行一次即可
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatal("缺少 BOT_TOKEN 环境变量")
	}
	if cfg.WebhookURL == "" {
		log.Fatal("缺少 WEBHOOK_URL 环境变量")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Telegram Bot 初始化失败: %v", err)
	}

	wh, err := tgbotapi.NewWebhook(cfg.WebhookURL)
	if err != nil {
		log.Fatalf("构造 webhook 配置失败: %v", err)
	}

	if _, err := bot.Request(wh); err != nil {
		log.Fatalf("设置 webhook 失败: %v", err)
	}

	info, err := bot.GetWebhookInfo()
	if err != nil {
		log.Fatalf("查询 webhook 状态失败: %v", err)
	}

	log.Printf("webhook 已设置: %s", info.URL)
	if info.LastErrorDate != 0 {
		log.Printf("上次投递错误: %s", info.LastErrorMessage)
	}
	log.Printf("待投递更新数: %d", info.PendingUpdateCount)
}
