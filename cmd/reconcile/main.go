package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/6z6z6z6z/flag-guard-system/config"
	"github.com/6z6z6z6z/flag-guard-system/internal/repository"
	"github.com/6z6z6z6z/flag-guard-system/internal/service"
	"github.com/6z6z6z6z/flag-guard-system/pkg/database"
	applogger "github.com/6z6z6z6z/flag-guard-system/pkg/logger"
)

// 对账工具：全量重算用户积分缓存，修复 total_points 与积分历史的漂移。
// 用法: reconcile [配置文件路径]
func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	repo := repository.NewRepository(db)
	pointsSvc := service.NewPointsService(repo, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := pointsSvc.Reconcile(ctx)
	if err != nil {
		logger.Fatal("积分对账失败", zap.Error(err))
	}

	fmt.Printf("积分对账完成: 检查 %d 个用户, 修复 %d 个\n", result.Checked, result.Fixed)
}
