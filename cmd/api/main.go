package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/xiebiao/library/docs"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// @title                       Library API
// @version                     1.0
// @description                 图书馆借阅系统接口：目录、借还书、个人借阅与管理报表
// @host                        localhost:8080
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer {access_token}
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志、指标、链路追踪
	logger.SetDefault(logger.New(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Output:    cfg.Log.Output,
		Component: "api",
	}))
	metrics.InitMetrics()

	shutdownTracer := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdownTracer, err = tracing.InitTracer(tracing.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Insecure:    true,
		})
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
	}

	// 3. 依赖注入(wire_gen.go)
	engine, cleanup, err := InitializeApp(cfg)
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.L().Info("服务启动成功", "addr", srv.Addr, "mode", cfg.Server.Mode, "db", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 4. 优雅关闭：先停止接收请求，再释放连接
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("关闭HTTP服务失败", "error", err)
	}
	cleanup()
	if err := shutdownTracer(ctx); err != nil {
		logger.L().Error("关闭链路追踪失败", "error", err)
	}
	logger.L().Info("服务已关闭")
}
