package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/storage"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/mq"
)

// 有些构造函数的参数需要从Config中提取，Wire无法自动推断，这里手写Provider

// provideDB 数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := rdb.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedisClient Redis连接
func provideRedisClient(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideUserService bcrypt成本与管理员邮箱来自auth配置
func provideUserService(repo user.Repository, cfg *config.Config) user.Service {
	return user.NewService(repo, cfg.Auth.BcryptCost, cfg.Auth.AdminEmails)
}

func provideLoanPolicy(cfg *config.Config) loan.Policy {
	return loan.Policy{
		MaxActiveLoans: cfg.Loan.MaxActiveLoans,
		LoanPeriod:     cfg.Loan.LoanPeriod,
		DueSoonWindow:  cfg.Loan.DueSoonWindow,
	}
}

// provideReportRepository 报表查询按驱动选择SQL方言
func provideReportRepository(db *gorm.DB, cfg *config.Config) (loan.ReportRepository, error) {
	return rdb.NewReportRepository(db, cfg.Database.Driver)
}

func provideBookCache(client *goredis.Client, cfg *config.Config) *redis.BookCache {
	return redis.NewBookCache(client, cfg.Cache.BookTTL)
}

// provideCoverStore 启动时确认bucket存在
func provideCoverStore(cfg *config.Config) (*storage.CoverStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return storage.NewCoverStore(ctx, cfg.Storage)
}

// provideLoanPublisher mq未启用时借阅事件只写调试日志
func provideLoanPublisher(cfg *config.Config) (loan.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		logger.L().Info("消息队列未启用，借阅事件不发布")
		return messaging.NoopPublisher{}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, messaging.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	return messaging.NewLoanEventPublisher(pub), func() { _ = pub.Close() }, nil
}

// provideRecoverUseCase 非release模式在响应里返回重置凭证，方便本地联调
func provideRecoverUseCase(
	userRepo user.Repository,
	tokens *redis.SessionStore,
	events user.AuthEventBus,
	cfg *config.Config,
) *appuser.RecoverPasswordUseCase {
	return appuser.NewRecoverPasswordUseCase(
		userRepo,
		tokens,
		events,
		cfg.Auth.RecoveryTokenTTL,
		cfg.Server.Mode != gin.ReleaseMode,
	)
}
