package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/user/reelbot/internal/config"
)

// 部署前的数据库连通性检查
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("打开数据库失败: %v", err)
	}
	defer db.Close()

	db.SetConnMaxLifetime(time.Minute)

	start := time.Now()
	if err := db.Ping(); err != nil {
		log.Fatalf("数据库 Ping 失败: %v", err)
	}

	var version string
	if err := db.QueryRow("SELECT version()").Scan(&version); err != nil {
		log.Fatalf("查询版本失败: %v", err)
	}

	log.Printf("数据库连接正常 (%v)", time.Since(start))
	log.Printf("服务器版本: %s", version)
}
