package main

import (
	"flag"
	"log"

	"quizzku_backend/internal/app"
	"quizzku_backend/internal/config"
	"quizzku_backend/pkg/configwatcher"
	"quizzku_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	// 热加载测验参数（尝试上限、二元题缓存 TTL）
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		application.ApplyQuizConfig(reloaded.Quiz)
		logger.Log.Info("Quiz config reloaded",
			zap.Int("attempt_cap", reloaded.Quiz.AttemptCap),
			zap.Duration("binary_flag_ttl", reloaded.Quiz.BinaryFlagTTL))
	})

	application.Run()
}
