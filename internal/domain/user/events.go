package user

import (
	"context"
	"time"
)

// AuthEventType 认证事件类型
type AuthEventType string

const (
	EventSignedIn         AuthEventType = "SIGNED_IN"
	EventSignedOut        AuthEventType = "SIGNED_OUT"
	EventPasswordRecovery AuthEventType = "PASSWORD_RECOVERY"
)

// AuthEvent 推送给该用户所有在线会话的认证事件
type AuthEvent struct {
	Type       AuthEventType `json:"type"`
	UserID     uint          `json:"user_id"`
	Email      string        `json:"email"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// AuthEventBus 认证事件总线
type AuthEventBus interface {
	// Publish 发布事件，没有订阅者时直接丢弃
	Publish(ctx context.Context, event AuthEvent) error

	// Subscribe 订阅某个用户的事件，调用返回的函数取消订阅并关闭channel
	Subscribe(ctx context.Context, userID uint) (<-chan AuthEvent, func(), error)
}
