package loan

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/loan"
)

// MyLoansUseCase 个人借阅查询
// 每次都查数据库，不走缓存：客户端在借还书之后依赖它刷新
type MyLoansUseCase struct {
	loanRepo loan.Repository
	policy   loan.Policy
	now      func() time.Time
}

// NewMyLoansUseCase 创建个人借阅查询用例
func NewMyLoansUseCase(loanRepo loan.Repository, policy loan.Policy) *MyLoansUseCase {
	return &MyLoansUseCase{loanRepo: loanRepo, policy: policy, now: time.Now}
}

// MyLoansResponse 个人借阅
type MyLoansResponse struct {
	Active         []LoanItem `json:"active"`  // 未归还，按到期日升序
	History        []LoanItem `json:"history"` // 已归还，按归还时间降序
	ActiveCount    int        `json:"active_count"`
	OverdueCount   int        `json:"overdue_count"`
	DueSoonCount   int        `json:"due_soon_count"`
	MaxLoans       int        `json:"max_loans"`
	DueSoonDays    int        `json:"due_soon_days"`
	CanBorrow      bool       `json:"can_borrow"`
	RemainingSlots int        `json:"remaining_slots"`
}

// Execute 查询当前用户的借阅
func (uc *MyLoansUseCase) Execute(ctx context.Context, userID uint) (*MyLoansResponse, error) {
	active, err := uc.loanRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := uc.loanRepo.ListReturnedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	classes := loan.Classify(active, now, uc.policy.DueSoonWindow)

	resp := &MyLoansResponse{
		Active:         make([]LoanItem, 0, len(active)),
		History:        make([]LoanItem, 0, len(history)),
		ActiveCount:    len(active),
		OverdueCount:   len(classes.Overdue),
		DueSoonCount:   len(classes.DueSoon),
		MaxLoans:       uc.policy.MaxActiveLoans,
		DueSoonDays:    uc.policy.DueSoonDays(),
		CanBorrow:      uc.policy.CanBorrow(len(active)),
		RemainingSlots: uc.policy.RemainingSlots(len(active)),
	}
	for _, l := range active {
		resp.Active = append(resp.Active, toLoanItem(l, now, uc.policy))
	}
	for _, l := range history {
		resp.History = append(resp.History, toLoanItem(l, now, uc.policy))
	}
	return resp, nil
}

// CheckExistingLoanUseCase 查询用户是否已借阅某本书且未归还
type CheckExistingLoanUseCase struct {
	loanRepo loan.Repository
	policy   loan.Policy
	now      func() time.Time
}

// NewCheckExistingLoanUseCase 创建用例
func NewCheckExistingLoanUseCase(loanRepo loan.Repository, policy loan.Policy) *CheckExistingLoanUseCase {
	return &CheckExistingLoanUseCase{loanRepo: loanRepo, policy: policy, now: time.Now}
}

// ExistingLoanResponse 查询结果
type ExistingLoanResponse struct {
	HasLoan bool      `json:"has_loan"`
	Loan    *LoanItem `json:"loan,omitempty"`
}

// Execute 执行查询
func (uc *CheckExistingLoanUseCase) Execute(ctx context.Context, userID, bookID uint) (*ExistingLoanResponse, error) {
	l, err := uc.loanRepo.FindActiveByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return &ExistingLoanResponse{HasLoan: false}, nil
	}
	item := toLoanItem(l, uc.now(), uc.policy)
	return &ExistingLoanResponse{HasLoan: true, Loan: &item}, nil
}

// ReadingStatsUseCase 个人阅读统计
type ReadingStatsUseCase struct {
	loanRepo loan.Repository
	now      func() time.Time
}

// NewReadingStatsUseCase 创建用例
func NewReadingStatsUseCase(loanRepo loan.Repository) *ReadingStatsUseCase {
	return &ReadingStatsUseCase{loanRepo: loanRepo, now: time.Now}
}

// Execute 统计已读总数与本月已读
func (uc *ReadingStatsUseCase) Execute(ctx context.Context, userID uint) (*loan.ReadingStats, error) {
	history, err := uc.loanRepo.ListReturnedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := loan.ComputeReadingStats(history, uc.now())
	return &stats, nil
}
