package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/user/reelbot/internal/config"
	"github.com/user/reelbot/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// 设置管理后台密码，执行一次即可
// 用法: ADMIN_PASSWORD=xxx go run ./cmd/setadmin
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	password := os.Getenv("ADMIN_PASSWORD")

	validate := validator.New()
	if err := validate.Var(password, "required,min=8,max=72"); err != nil {
		log.Fatal("ADMIN_PASSWORD 必须为 8-72 个字符")
	}

	cfg := config.Load()
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	repos := repository.NewRepositories(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("生成密码哈希失败: %v", err)
	}

	if err := repos.Setting.Set("admin_password_hash", string(hash), "管理后台登录密码哈希"); err != nil {
		log.Fatalf("保存密码失败: %v", err)
	}

	log.Println("管理员密码已更新")
}
