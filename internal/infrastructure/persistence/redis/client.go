// Package redis 会话、Token黑名单、找回密码凭证、图书详情缓存与认证事件推送
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
)

// NewClient 创建Redis客户端
//  1. 连接池参数(PoolSize、MinIdleConns)
//  2. 超时参数(DialTimeout、ReadTimeout、WriteTimeout)
//  3. 启动时Ping一次，连不上直接失败
func NewClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	logger.L().Info("Redis连接成功", "addr", cfg.Redis.Addr(), "db", cfg.Redis.DB)
	return client, nil
}
