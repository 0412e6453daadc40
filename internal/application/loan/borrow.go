package loan

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// BorrowUseCase 借书用例
type BorrowUseCase struct {
	txManager domain.TxManager
	userRepo  user.Repository
	bookRepo  book.Repository
	loanRepo  loan.Repository
	policy    loan.Policy
	after     afterCommit
	now       func() time.Time
}

// NewBorrowUseCase 创建借书用例
func NewBorrowUseCase(
	txManager domain.TxManager,
	userRepo user.Repository,
	bookRepo book.Repository,
	loanRepo loan.Repository,
	cache book.Cache,
	publisher loan.EventPublisher,
	policy loan.Policy,
) *BorrowUseCase {
	return &BorrowUseCase{
		txManager: txManager,
		userRepo:  userRepo,
		bookRepo:  bookRepo,
		loanRepo:  loanRepo,
		policy:    policy,
		after:     afterCommit{cache: cache, publisher: publisher},
		now:       time.Now,
	}
}

// BorrowRequest 借书请求
type BorrowRequest struct {
	UserID uint // 从JWT中提取
	BookID uint
}

// BorrowResponse 借书成功的响应
type BorrowResponse struct {
	Success bool      `json:"success"`
	LoanID  uint      `json:"loan_id"`
	DueDate time.Time `json:"due_date"`
}

// Execute 执行借书
//
// 检查与修改在同一事务、同一组行锁下完成，避免"先查后改"的竞态：
//  1. 锁定借阅人(用户行)：同一用户的并发借书排队，上限检查不会被并发绕过
//  2. 锁定图书行：同一本书的并发借书排队，不会借出同一个最后副本
//  3. 按顺序检查：可借副本 → 借阅上限 → 重复借阅
//  4. 可借数减1(条件更新兜底)，插入借阅记录(到期日 = 现在 + 借期)
//
// 失败时返回的错误携带Reason(NOT_FOUND/OUT_OF_STOCK/LOAN_LIMIT_REACHED/DUPLICATE_LOAN/UNKNOWN)，
// 这些都是业务拒绝，调用方不应重试。
func (uc *BorrowUseCase) Execute(ctx context.Context, req BorrowRequest) (*BorrowResponse, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "loan.Borrow")
	span.SetAttributes(
		attribute.Int64("user_id", int64(req.UserID)),
		attribute.Int64("book_id", int64(req.BookID)),
	)

	var created *loan.Loan
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if _, err := uc.userRepo.LockByID(ctx, req.UserID); err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return apperrors.ErrUserNotFound.WithReason(apperrors.ReasonNotFound)
			}
			return err
		}

		b, err := uc.bookRepo.LockByID(ctx, req.BookID)
		if err != nil {
			return err
		}

		active, err := uc.loanRepo.CountActiveByUser(ctx, req.UserID)
		if err != nil {
			return err
		}

		existing, err := uc.loanRepo.FindActiveByUserAndBook(ctx, req.UserID, req.BookID)
		if err != nil {
			return err
		}

		if err := uc.policy.CheckBorrow(loan.BorrowCheck{
			AvailableCopies: b.AvailableCopies,
			ActiveLoans:     active,
			HasSameBook:     existing != nil,
		}); err != nil {
			return err
		}

		if err := uc.bookRepo.DecrementAvailable(ctx, b.ID); err != nil {
			return err
		}

		l := loan.NewLoan(req.UserID, b.ID, uc.now(), uc.policy.LoanPeriod)
		if err := uc.loanRepo.Create(ctx, l); err != nil {
			return err
		}
		created = l
		return nil
	})

	err = classify(err, "借书失败，请稍后重试")
	metrics.ObserveLoanOperation("borrow", err, time.Since(start))
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	uc.after.run(ctx, loan.NewEvent(loan.EventBorrowed, created, uc.now()))

	return &BorrowResponse{
		Success: true,
		LoanID:  created.ID,
		DueDate: created.DueDate,
	}, nil
}

// classify 非业务错误(数据库故障等)统一归为UNKNOWN
// 4xxxx业务错误原样返回，保留错误码与Reason
func classify(err error, message string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsClientError(err) {
		return err
	}
	return apperrors.Wrap(err, message).WithReason(apperrors.ReasonUnknown)
}
