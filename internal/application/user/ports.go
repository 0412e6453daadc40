package user

import (
	"context"
	"time"
)

// SessionStore 登录会话与Token黑名单(Redis实现)
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// RecoveryTokenStore 找回密码的一次性凭证
type RecoveryTokenStore interface {
	SaveRecoveryToken(ctx context.Context, token string, userID uint, ttl time.Duration) error

	// ConsumeRecoveryToken 取出并删除凭证，不存在或已过期返回user.ErrInvalidRecoveryToken
	ConsumeRecoveryToken(ctx context.Context, token string) (uint, error)
}
