// Package messaging 借阅事件的发布与消费(RabbitMQ)
package messaging

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/mq"
)

// ExchangeType 借阅事件使用Topic Exchange，路由键即事件类型
const ExchangeType = "topic"

// RoutingKeys worker绑定的路由键
var RoutingKeys = []string{string(loan.EventBorrowed), string(loan.EventReturned)}

type publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// LoanEventPublisher 借阅事件发布者
type LoanEventPublisher struct {
	pub publisher
}

// NewLoanEventPublisher 包装mq.Publisher
func NewLoanEventPublisher(pub *mq.Publisher) *LoanEventPublisher {
	return &LoanEventPublisher{pub: pub}
}

func (p *LoanEventPublisher) PublishLoanEvent(ctx context.Context, event loan.Event) error {
	return p.pub.Publish(ctx, string(event.Type), event)
}

// NoopPublisher mq未启用时使用，事件只记录日志
type NoopPublisher struct{}

func (NoopPublisher) PublishLoanEvent(ctx context.Context, event loan.Event) error {
	logger.Ctx(ctx).Debug("mq未启用，跳过借阅事件", "type", event.Type, "loan_id", event.LoanID)
	return nil
}

// AuditRecorder 借阅审计记录
type AuditRecorder interface {
	Record(ctx context.Context, event loan.Event) error
}

// LogAuditRecorder 把借阅事件写入结构化日志
type LogAuditRecorder struct {
	now func() time.Time
}

// NewLogAuditRecorder 创建日志审计
func NewLogAuditRecorder() *LogAuditRecorder {
	return &LogAuditRecorder{now: time.Now}
}

func (r *LogAuditRecorder) Record(ctx context.Context, event loan.Event) error {
	attrs := []any{
		"type", event.Type,
		"loan_id", event.LoanID,
		"user_id", event.UserID,
		"book_id", event.BookID,
		"due_date", event.DueDate,
		"lag_ms", r.now().Sub(event.OccurredAt).Milliseconds(),
	}
	if event.ReturnDate != nil {
		attrs = append(attrs,
			"return_date", *event.ReturnDate,
			"overdue", event.ReturnDate.After(event.DueDate),
		)
	}
	logger.Ctx(ctx).Info("借阅审计", attrs...)
	return nil
}

// NewAuditHandler worker的消息处理函数
// 无法解析或类型未知的消息直接丢弃，不重新入队
func NewAuditHandler(recorder AuditRecorder) mq.Handler {
	return func(ctx context.Context, d mq.Delivery) error {
		var event loan.Event
		if err := jsoniter.Unmarshal(d.Body, &event); err != nil {
			return fmt.Errorf("解析借阅事件失败: %v: %w", err, mq.ErrDiscard)
		}
		switch event.Type {
		case loan.EventBorrowed, loan.EventReturned:
		default:
			return fmt.Errorf("未知的借阅事件类型%q: %w", event.Type, mq.ErrDiscard)
		}
		return recorder.Record(ctx, event)
	}
}
