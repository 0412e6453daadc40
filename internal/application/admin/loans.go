// Package admin 管理后台的只读报表用例
package admin

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/loan"
)

// ListLoansUseCase 借阅报表查询
type ListLoansUseCase struct {
	reports loan.ReportRepository
	now     func() time.Time
}

// NewListLoansUseCase 创建报表查询用例
func NewListLoansUseCase(reports loan.ReportRepository) *ListLoansUseCase {
	return &ListLoansUseCase{reports: reports, now: time.Now}
}

// ListLoansRequest 报表查询请求
type ListLoansRequest struct {
	Status   string // all/active/overdue/returned，空串为all
	Search   string // 书名、会员姓名、作者名
	Page     int
	PageSize int
}

// LoanRecord 报表行DTO
type LoanRecord struct {
	ID          uint        `json:"id"`
	BookID      uint        `json:"book_id"`
	BookTitle   string      `json:"book_title"`
	BookISBN    string      `json:"book_isbn"`
	AuthorName  string      `json:"author_name"`
	UserID      uint        `json:"user_id"`
	MemberName  string      `json:"member_name"`
	MemberEmail string      `json:"member_email"`
	BorrowDate  time.Time   `json:"borrow_date"`
	DueDate     time.Time   `json:"due_date"`
	ReturnDate  *time.Time  `json:"return_date,omitempty"`
	Status      loan.Status `json:"status"`
	DaysOverdue int         `json:"days_overdue"`
}

// ListLoansResponse 报表分页结果
type ListLoansResponse struct {
	List       []LoanRecord `json:"list"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// Execute 执行查询
// 状态筛选下推到SQL，返回的每一行再用DeriveStatus计算展示状态，两边使用同一个now
func (uc *ListLoansUseCase) Execute(ctx context.Context, req ListLoansRequest) (*ListLoansResponse, error) {
	status, err := loan.ParseStatusFilter(req.Status)
	if err != nil {
		return nil, err
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	now := uc.now()
	records, total, err := uc.reports.ListLoans(ctx, loan.ReportFilter{
		Status:   status,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
		Now:      now,
	})
	if err != nil {
		return nil, err
	}

	list := make([]LoanRecord, 0, len(records))
	for _, r := range records {
		item := LoanRecord{
			ID:          r.LoanID,
			BookID:      r.BookID,
			BookTitle:   r.BookTitle,
			BookISBN:    r.BookISBN,
			AuthorName:  r.AuthorName,
			UserID:      r.UserID,
			MemberName:  r.MemberName,
			MemberEmail: r.MemberEmail,
			BorrowDate:  r.BorrowDate,
			DueDate:     r.DueDate,
			ReturnDate:  r.ReturnDate,
			Status:      r.StatusAt(now),
		}
		if item.Status == loan.StatusOverdue {
			item.DaysOverdue = loan.DaysOverdue(r.DueDate, now)
		}
		list = append(list, item)
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListLoansResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// StatsUseCase 管理后台概览统计
type StatsUseCase struct {
	reports loan.ReportRepository
	now     func() time.Time
}

// NewStatsUseCase 创建统计用例
func NewStatsUseCase(reports loan.ReportRepository) *StatsUseCase {
	return &StatsUseCase{reports: reports, now: time.Now}
}

// Execute 统计图书总数、未归还数、逾期数、会员数
func (uc *StatsUseCase) Execute(ctx context.Context) (*loan.LibraryStats, error) {
	return uc.reports.Stats(ctx, uc.now())
}
