package loan

import (
	"context"
	"time"
)

// EventType 借阅事件类型，同时作为消息路由键
type EventType string

const (
	EventBorrowed EventType = "loan.borrowed"
	EventReturned EventType = "loan.returned"
)

// Event 借阅事件，在事务提交后发布
type Event struct {
	Type       EventType  `json:"type"`
	LoanID     uint       `json:"loan_id"`
	UserID     uint       `json:"user_id"`
	BookID     uint       `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewEvent 由借阅记录生成事件
func NewEvent(t EventType, l *Loan, now time.Time) Event {
	return Event{
		Type:       t,
		LoanID:     l.ID,
		UserID:     l.UserID,
		BookID:     l.BookID,
		BorrowDate: l.BorrowDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		OccurredAt: now,
	}
}

// EventPublisher 借阅事件发布者
// 发布失败不影响已提交的借还书结果
type EventPublisher interface {
	PublishLoanEvent(ctx context.Context, event Event) error
}
