package loan

import (
	"time"
)

// 借阅策略默认值
const (
	DefaultMaxActiveLoans = 3
	DefaultLoanPeriod     = 14 * 24 * time.Hour
	DefaultDueSoonWindow  = 3 * 24 * time.Hour
)

// Policy 借阅策略
type Policy struct {
	MaxActiveLoans int           // 每人最多同时借阅(未归还)的数量
	LoanPeriod     time.Duration // 借期
	DueSoonWindow  time.Duration // 即将到期提醒窗口
}

// DefaultPolicy 默认策略：最多3本，借期14天，到期前3天提醒
func DefaultPolicy() Policy {
	return Policy{
		MaxActiveLoans: DefaultMaxActiveLoans,
		LoanPeriod:     DefaultLoanPeriod,
		DueSoonWindow:  DefaultDueSoonWindow,
	}
}

// BorrowCheck 借书前置条件的输入，必须来自同一个事务内加锁后的读取
type BorrowCheck struct {
	AvailableCopies int
	ActiveLoans     int64
	HasSameBook     bool
}

// CheckBorrow 按固定顺序检查借书前置条件
// 1. 可借副本 > 0，否则OUT_OF_STOCK
// 2. 未归还数 < 上限，否则LOAN_LIMIT_REACHED
// 3. 没有同一本书的未归还借阅，否则DUPLICATE_LOAN
func (p Policy) CheckBorrow(c BorrowCheck) error {
	if c.AvailableCopies <= 0 {
		return ErrOutOfStock
	}
	if c.ActiveLoans >= int64(p.MaxActiveLoans) {
		return ErrLoanLimitReached
	}
	if c.HasSameBook {
		return ErrDuplicateLoan
	}
	return nil
}

// RemainingSlots 剩余可借数量
func (p Policy) RemainingSlots(active int) int {
	if remaining := p.MaxActiveLoans - active; remaining > 0 {
		return remaining
	}
	return 0
}

// DueSoonDays 提醒窗口的天数，客户端按它划分即将到期
func (p Policy) DueSoonDays() int {
	return int(p.DueSoonWindow / day)
}

// CanBorrow 是否还能借书(仅用于展示，权威判断在借书事务中)
func (p Policy) CanBorrow(active int) bool {
	return active < p.MaxActiveLoans
}
