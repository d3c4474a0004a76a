package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/travian22/aksa-2/config"
	"github.com/travian22/aksa-2/internal/api/handler"
	"github.com/travian22/aksa-2/internal/api/router"
	"github.com/travian22/aksa-2/internal/job"
	"github.com/travian22/aksa-2/internal/repository"
	"github.com/travian22/aksa-2/internal/service"
	"github.com/travian22/aksa-2/pkg/database"
	"github.com/travian22/aksa-2/pkg/jwt"
	applogger "github.com/travian22/aksa-2/pkg/logger"
	"github.com/travian22/aksa-2/pkg/redis"
	"github.com/travian22/aksa-2/pkg/storage"
)

func main() {
	// 1. 加载配置（HRD_CONFIG 指定配置文件路径，缺省时查找 ./config/config.yaml）
	cfg, err := config.Load(os.Getenv("HRD_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 吊销与登录限流将不可用", zap.Error(err))
		rdb = nil
	}
	// nil 的 *redis.Client 不能直接赋给接口
	var revoker service.TokenRevoker
	if rdb != nil {
		revoker = rdb
	}

	// 5. 文件存储
	store, err := storage.NewLocal(&cfg.Storage, logger)
	if err != nil {
		logger.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, revoker, store, logger)
	h := handler.NewHandler(svc, cfg.Server.BaseURL)

	if err := svc.Auth.EnsureBootstrapAdmin(context.Background()); err != nil {
		logger.Fatal("创建初始管理员失败", zap.Error(err))
	}

	// 8. 后台任务
	reaper := job.NewImageReaper(store, repo.Employee, service.EmployeeImageDir, cfg.Job.ImageReaperGrace, logger)
	if cfg.Job.ImageReaperSpec != "" {
		if err := reaper.Start(cfg.Job.ImageReaperSpec); err != nil {
			logger.Fatal("启动孤儿图片清理任务失败", zap.Error(err))
		}
	}

	// 9. 初始化路由
	engine, err := router.Setup(cfg, h, jwtMgr, rdb, store, logger)
	if err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	reaper.Stop(ctx)

	// 关闭数据库连接
	if err := sqlDB.Close(); err != nil {
		logger.Error("关闭数据库连接失败", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
