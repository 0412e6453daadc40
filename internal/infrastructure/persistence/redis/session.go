package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Key设计：
//   - session:{user_id}     登录会话(Hash)，TTL与Refresh Token一致
//   - blacklist:{token}     已注销的Token，TTL为Token剩余有效期
//   - recovery:{token}      找回密码凭证，值为user_id，一次性
func sessionKey(userID uint) string   { return fmt.Sprintf("session:%d", userID) }
func blacklistKey(token string) string { return fmt.Sprintf("blacklist:%s", token) }
func recoveryKey(token string) string  { return fmt.Sprintf("recovery:%s", token) }

// SessionStore 会话存储
// JWT本身无状态，登出和重置密码靠黑名单与删除会话让Token失效
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SaveSession 保存登录会话(登录时间、IP等)
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, data)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}
	return nil
}

// GetSession 读取会话，不存在返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除会话(登出、重置密码)
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单，ttl<=0时不写入(Token已过期)
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否已注销
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}
	return exists > 0, nil
}

// SaveRecoveryToken 保存找回密码凭证
func (s *SessionStore) SaveRecoveryToken(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	if err := s.client.Set(ctx, recoveryKey(token), userID, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "保存重置凭证失败")
	}
	return nil
}

// ConsumeRecoveryToken GETDEL原子取出并删除，同一凭证只能用一次
func (s *SessionStore) ConsumeRecoveryToken(ctx context.Context, token string) (uint, error) {
	val, err := s.client.GetDel(ctx, recoveryKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, user.ErrInvalidRecoveryToken
		}
		return 0, apperrors.Wrap(err, "读取重置凭证失败")
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, user.ErrInvalidRecoveryToken
	}
	return uint(id), nil
}
