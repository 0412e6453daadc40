package loan

import (
	"context"
	"time"
)

// Record 管理后台的借阅报表行
type Record struct {
	LoanID      uint
	BookID      uint
	BookTitle   string
	BookISBN    string
	AuthorName  string
	UserID      uint
	MemberName  string
	MemberEmail string
	BorrowDate  time.Time
	DueDate     time.Time
	ReturnDate  *time.Time
}

// StatusAt 派生状态，与DeriveStatus一致
func (r *Record) StatusAt(now time.Time) Status {
	return DeriveStatus(r.DueDate, r.ReturnDate, now)
}

// ReportFilter 报表筛选条件
// Search在书名、会员姓名、作者名上做不区分大小写的子串匹配
type ReportFilter struct {
	Status   StatusFilter
	Search   string
	Page     int
	PageSize int
	Now      time.Time
}

// LibraryStats 管理后台概览
type LibraryStats struct {
	TotalBooks   int64 `json:"total_books"`
	ActiveLoans  int64 `json:"active_loans"`  // 未归还(含逾期)
	OverdueLoans int64 `json:"overdue_loans"` // 未归还且due_date < now
	TotalMembers int64 `json:"total_members"`
}

// ReportRepository 报表读模型
// 逾期边界与DeriveStatus相同：return_date IS NULL AND due_date < now
type ReportRepository interface {
	ListLoans(ctx context.Context, filter ReportFilter) ([]*Record, int64, error)
	Stats(ctx context.Context, now time.Time) (*LibraryStats, error)
}
