// 手动重算全部提交成绩的脚本
//
// 评分公式调整后，历史提交存的成绩会与新公式不一致。
// 此脚本按当前公式重新计算并覆盖所有提交的成绩。
//
// 用法: go run scripts/backfill_grades.go

package main

import (
	"log"
	"os"

	"quizzku_backend/internal/config"
	"quizzku_backend/internal/repository"
	"quizzku_backend/internal/service"
	"quizzku_backend/pkg/database"
	"quizzku_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	submissions := service.NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewLessonRepository(db),
	)

	log.Println("开始重算提交成绩...")
	n, err := submissions.BackfillGrades()
	if err != nil {
		log.Fatalf("重算失败: %v", err)
	}
	log.Printf("完成！共更新 %d 条提交", n)
}
