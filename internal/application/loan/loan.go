// Package loan 借还书用例
//
// 借书、还书是系统里仅有的两个会修改共享计数(available_copies、个人未归还数)的操作，
// 都在一个数据库事务内完成"加锁 → 检查 → 修改"，任何一步失败整体回滚。
// 事务提交后的副作用(清理图书缓存、发布借阅事件)是尽力而为的，失败只记日志。
package loan

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/logger"
)

const tracerName = "library/loan"

// LoanItem 借阅记录DTO
// 时间字段保持time.Time(RFC3339)，客户端用同一套规则推导状态
type LoanItem struct {
	ID            uint        `json:"id"`
	BookID        uint        `json:"book_id"`
	BookTitle     string      `json:"book_title"`
	BookISBN      string      `json:"book_isbn,omitempty"`
	AuthorName    string      `json:"author_name,omitempty"`
	CoverURL      string      `json:"cover_url,omitempty"`
	BorrowDate    time.Time   `json:"borrow_date"`
	DueDate       time.Time   `json:"due_date"`
	ReturnDate    *time.Time  `json:"return_date,omitempty"`
	Status        loan.Status `json:"status"`
	DaysRemaining int         `json:"days_remaining"`
	DaysOverdue   int         `json:"days_overdue"`
	DueSoon       bool        `json:"due_soon"`
}

func toLoanItem(l *loan.Loan, now time.Time, policy loan.Policy) LoanItem {
	item := LoanItem{
		ID:         l.ID,
		BookID:     l.BookID,
		BookTitle:  l.BookTitle,
		BookISBN:   l.BookISBN,
		AuthorName: l.AuthorName,
		CoverURL:   l.BookCoverURL,
		BorrowDate: l.BorrowDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		Status:     l.StatusAt(now),
	}
	if !l.IsReturned() {
		item.DaysRemaining = loan.DaysRemaining(l.DueDate, now)
		item.DaysOverdue = loan.DaysOverdue(l.DueDate, now)
		item.DueSoon = loan.IsDueSoon(l.DueDate, l.ReturnDate, now, policy.DueSoonWindow)
	}
	return item
}

// afterCommit 事务提交后的副作用
type afterCommit struct {
	cache     book.Cache
	publisher loan.EventPublisher
}

func (a afterCommit) run(ctx context.Context, event loan.Event) {
	log := logger.Ctx(ctx)

	// 可借数变了，详情缓存必须失效，下一次读回源数据库
	if err := a.cache.Delete(ctx, event.BookID); err != nil {
		log.Warn("清理图书缓存失败", "book_id", event.BookID, "error", err)
	}

	if err := a.publisher.PublishLoanEvent(ctx, event); err != nil {
		log.Warn("发布借阅事件失败", "type", event.Type, "loan_id", event.LoanID, "error", err)
	}
}
