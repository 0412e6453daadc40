package loan

import (
	"context"
)

// Repository 借阅仓储接口
// 写操作(Create/LockByID/MarkReturned)只在借还书事务内调用
type Repository interface {
	// Create 插入借阅记录并回填ID
	Create(ctx context.Context, loan *Loan) error

	// LockByID 悲观锁查询(SELECT ... FOR UPDATE)，重复归还在这里串行化
	LockByID(ctx context.Context, id uint) (*Loan, error)

	// MarkReturned 写入归还时间与状态
	// 条件更新(return_date IS NULL)，没有行被更新时返回ErrAlreadyReturned
	MarkReturned(ctx context.Context, loan *Loan) error

	// CountActiveByUser 用户未归还(active+overdue)的借阅数
	CountActiveByUser(ctx context.Context, userID uint) (int64, error)

	// FindActiveByUserAndBook 用户对某本书的未归还借阅，没有时返回(nil, nil)
	FindActiveByUserAndBook(ctx context.Context, userID, bookID uint) (*Loan, error)

	// ListActiveByUser 未归还借阅，按到期日升序
	ListActiveByUser(ctx context.Context, userID uint) ([]*Loan, error)

	// ListReturnedByUser 借阅历史，按归还时间降序
	ListReturnedByUser(ctx context.Context, userID uint) ([]*Loan, error)
}
