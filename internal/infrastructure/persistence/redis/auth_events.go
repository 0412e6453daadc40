package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

func authChannel(userID uint) string { return fmt.Sprintf("auth-events:%d", userID) }

// AuthEventBus 基于Redis Pub/Sub的认证事件总线
// 每个用户一个频道，多实例部署时任一实例发布，所有实例上该用户的WebSocket都能收到
type AuthEventBus struct {
	client *redis.Client
}

// NewAuthEventBus 创建事件总线
func NewAuthEventBus(client *redis.Client) *AuthEventBus {
	return &AuthEventBus{client: client}
}

func (b *AuthEventBus) Publish(ctx context.Context, event user.AuthEvent) error {
	payload, err := json.MarshalToString(event)
	if err != nil {
		return apperrors.Wrap(err, "序列化认证事件失败")
	}
	if err := b.client.Publish(ctx, authChannel(event.UserID), payload).Err(); err != nil {
		return apperrors.Wrap(err, "发布认证事件失败")
	}
	return nil
}

// Subscribe 订阅用户频道
// ctx结束或调用cancel后关闭订阅，返回的channel随之关闭
func (b *AuthEventBus) Subscribe(ctx context.Context, userID uint) (<-chan user.AuthEvent, func(), error) {
	ps := b.client.Subscribe(ctx, authChannel(userID))
	// 等待订阅确认，保证返回后发布的事件不会丢
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, apperrors.Wrap(err, "订阅认证事件失败")
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() { _ = ps.Close() })
	}

	msgs := ps.Channel()
	out := make(chan user.AuthEvent, 16)
	go func() {
		defer close(out)
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event user.AuthEvent
				if err := json.UnmarshalFromString(msg.Payload, &event); err != nil {
					logger.Ctx(ctx).WithError(err).Warn("丢弃无法解析的认证事件", "channel", msg.Channel)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, cancel, nil
}
