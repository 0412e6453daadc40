package loan

import (
	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
// 每个借还书失败原因对应唯一的错误码和提示语，客户端按Reason分支
var (
	// ErrLoanNotFound 借阅记录不存在
	ErrLoanNotFound = apperrors.New(apperrors.ErrCodeLoanNotFound, "借阅记录不存在").
			WithReason(apperrors.ReasonNotFound)

	// ErrAlreadyReturned 重复归还
	ErrAlreadyReturned = apperrors.New(apperrors.ErrCodeAlreadyReturned, "该书已归还").
				WithReason(apperrors.ReasonAlreadyReturned)

	// ErrOutOfStock 无可借副本，与book.ErrNoAvailableCopies同码同因
	ErrOutOfStock = book.ErrNoAvailableCopies

	// ErrLoanLimitReached 达到借阅上限
	ErrLoanLimitReached = apperrors.New(apperrors.ErrCodeLoanLimitReached, "已达到最大借阅数量").
				WithReason(apperrors.ReasonLoanLimitReached)

	// ErrDuplicateLoan 已借阅同一本书且未归还
	ErrDuplicateLoan = apperrors.New(apperrors.ErrCodeDuplicateLoan, "你已借阅这本书且尚未归还").
				WithReason(apperrors.ReasonDuplicateLoan)

	// ErrNotLoanOwner 归还他人的借阅
	ErrNotLoanOwner = apperrors.New(apperrors.ErrCodeForbidden, "只能归还自己的借阅")

	// ErrInvalidStatusFilter 未知的状态筛选
	ErrInvalidStatusFilter = apperrors.New(apperrors.ErrCodeInvalidParams, "状态筛选只能是all、active、overdue、returned")
)
