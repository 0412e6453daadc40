package loan

import (
	"time"
)

// StoredStatus 数据库中存储的状态，只有active和returned两种
// overdue不落库，由DeriveStatus在读取时计算
type StoredStatus string

const (
	StoredActive   StoredStatus = "active"
	StoredReturned StoredStatus = "returned"
)

// Loan 借阅记录(聚合根)
// 生命周期:
// 1. 只能由借书事务创建(status=active, return_date=nil)
// 2. 只能由还书事务修改一次(写入return_date, status=returned)，之后不可变
type Loan struct {
	ID         uint
	UserID     uint
	BookID     uint
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     StoredStatus

	// 查询时联表填充的展示字段
	BookTitle    string
	BookISBN     string
	BookCoverURL string
	AuthorName   string

	CreatedAt time.Time
}

// NewLoan 创建借阅记录，到期日 = 借出时间 + period
func NewLoan(userID, bookID uint, now time.Time, period time.Duration) *Loan {
	return &Loan{
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: now,
		DueDate:    now.Add(period),
		Status:     StoredActive,
		CreatedAt:  now,
	}
}

// IsReturned 是否已归还
func (l *Loan) IsReturned() bool {
	return l.ReturnDate != nil
}

// MarkReturned 归还(领域行为)
// 已归还的记录再次归还返回ErrAlreadyReturned，不做任何修改
func (l *Loan) MarkReturned(now time.Time) error {
	if l.IsReturned() {
		return ErrAlreadyReturned
	}
	returned := now
	l.ReturnDate = &returned
	l.Status = StoredReturned
	return nil
}

// StatusAt 当前时刻的派生状态
func (l *Loan) StatusAt(now time.Time) Status {
	return DeriveStatus(l.DueDate, l.ReturnDate, now)
}

// IsOwnedBy 是否为该用户的借阅
func (l *Loan) IsOwnedBy(userID uint) bool {
	return l.UserID == userID
}
