package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/loan"
)

type mockReports struct {
	mock.Mock
}

func (m *mockReports) ListLoans(ctx context.Context, f loan.ReportFilter) ([]*loan.Record, int64, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]*loan.Record)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *mockReports) Stats(ctx context.Context, now time.Time) (*loan.LibraryStats, error) {
	args := m.Called(ctx, now)
	s, _ := args.Get(0).(*loan.LibraryStats)
	return s, args.Error(1)
}

func TestListLoans(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	returned := now.Add(-24 * time.Hour)

	records := []*loan.Record{
		{LoanID: 1, BookTitle: "A", DueDate: now.Add(48 * time.Hour)},
		{LoanID: 2, BookTitle: "B", DueDate: now.Add(-36 * time.Hour)},
		{LoanID: 3, BookTitle: "C", DueDate: now.Add(-72 * time.Hour), ReturnDate: &returned},
	}

	reports := new(mockReports)
	reports.On("ListLoans", ctx, mock.MatchedBy(func(f loan.ReportFilter) bool {
		return f.Status == loan.FilterAll && f.Page == 1 && f.PageSize == 20 && f.Now.Equal(now) && f.Search == "gatsby"
	})).Return(records, int64(3), nil)

	uc := NewListLoansUseCase(reports)
	uc.now = func() time.Time { return now }

	resp, err := uc.Execute(ctx, ListLoansRequest{Search: "gatsby"})
	require.NoError(t, err)
	require.Len(t, resp.List, 3)

	assert.Equal(t, loan.StatusActive, resp.List[0].Status)
	assert.Equal(t, loan.StatusOverdue, resp.List[1].Status)
	assert.Equal(t, 2, resp.List[1].DaysOverdue)
	assert.Equal(t, loan.StatusReturned, resp.List[2].Status, "已归还的逾期借阅显示为returned")
	assert.Equal(t, 1, resp.TotalPages)
	reports.AssertExpectations(t)
}

func TestListLoans_InvalidStatus(t *testing.T) {
	reports := new(mockReports)
	uc := NewListLoansUseCase(reports)

	_, err := uc.Execute(context.Background(), ListLoansRequest{Status: "lost"})
	assert.ErrorIs(t, err, loan.ErrInvalidStatusFilter)
	reports.AssertNotCalled(t, "ListLoans", mock.Anything, mock.Anything)
}

func TestListLoans_Paging(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		req          ListLoansRequest
		wantPageSize int
		total        int64
		wantPages    int
	}{
		{name: "默认分页", req: ListLoansRequest{}, wantPageSize: 20, total: 41, wantPages: 3},
		{name: "每页上限100", req: ListLoansRequest{PageSize: 500}, wantPageSize: 100, total: 100, wantPages: 1},
		{name: "空结果", req: ListLoansRequest{Status: "overdue", PageSize: 10}, wantPageSize: 10, total: 0, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := new(mockReports)
			reports.On("ListLoans", ctx, mock.MatchedBy(func(f loan.ReportFilter) bool {
				return f.PageSize == tt.wantPageSize
			})).Return([]*loan.Record{}, tt.total, nil)

			resp, err := NewListLoansUseCase(reports).Execute(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPages, resp.TotalPages)
			assert.Equal(t, tt.wantPageSize, resp.PageSize)
		})
	}
}
