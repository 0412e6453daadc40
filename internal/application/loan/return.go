package loan

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReturnUseCase 还书用例
type ReturnUseCase struct {
	txManager domain.TxManager
	bookRepo  book.Repository
	loanRepo  loan.Repository
	after     afterCommit
	now       func() time.Time
}

// NewReturnUseCase 创建还书用例
func NewReturnUseCase(
	txManager domain.TxManager,
	bookRepo book.Repository,
	loanRepo loan.Repository,
	cache book.Cache,
	publisher loan.EventPublisher,
) *ReturnUseCase {
	return &ReturnUseCase{
		txManager: txManager,
		bookRepo:  bookRepo,
		loanRepo:  loanRepo,
		after:     afterCommit{cache: cache, publisher: publisher},
		now:       time.Now,
	}
}

// ReturnRequest 还书请求
type ReturnRequest struct {
	LoanID  uint
	UserID  uint // 当前登录用户
	IsAdmin bool // 管理员可以代还任何人的借阅
}

// ReturnResponse 还书成功的响应
type ReturnResponse struct {
	Success    bool      `json:"success"`
	LoanID     uint      `json:"loan_id"`
	BookID     uint      `json:"book_id"`
	ReturnDate time.Time `json:"return_date"`
}

// Execute 执行还书
//  1. 锁定借阅记录，不存在返回NOT_FOUND
//  2. 会员只能还自己的借阅
//  3. 已归还返回ALREADY_RETURNED，不会重复增加可借数
//  4. 写入归还时间，可借数加1(不超过总数)
func (uc *ReturnUseCase) Execute(ctx context.Context, req ReturnRequest) (*ReturnResponse, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "loan.Return")
	span.SetAttributes(attribute.Int64("loan_id", int64(req.LoanID)))

	var returned *loan.Loan
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		l, err := uc.loanRepo.LockByID(ctx, req.LoanID)
		if err != nil {
			return err
		}

		if !req.IsAdmin && !l.IsOwnedBy(req.UserID) {
			return loan.ErrNotLoanOwner
		}

		if err := l.MarkReturned(uc.now()); err != nil {
			return err
		}

		if err := uc.loanRepo.MarkReturned(ctx, l); err != nil {
			return err
		}

		if err := uc.bookRepo.IncrementAvailable(ctx, l.BookID); err != nil {
			return err
		}
		returned = l
		return nil
	})

	err = classify(err, "还书失败，请稍后重试")
	metrics.ObserveLoanOperation("return", err, time.Since(start))
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	uc.after.run(ctx, loan.NewEvent(loan.EventReturned, returned, uc.now()))

	return &ReturnResponse{
		Success:    true,
		LoanID:     returned.ID,
		BookID:     returned.BookID,
		ReturnDate: *returned.ReturnDate,
	}, nil
}
