package loan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestBorrow_LastCopy(t *testing.T) {
	// 只有1个副本：A借到，B被拒绝OUT_OF_STOCK
	ctx := context.Background()
	f := newFixture()
	f.store.addUser(1)
	f.store.addUser(2)
	f.store.addBook(10, 1, 1)

	resp, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 10})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, f.clock.Add(14*24*time.Hour), resp.DueDate, "到期日应为借出时间+14天")
	assert.Equal(t, 0, f.store.book(10).AvailableCopies)

	_, err = f.borrow.Execute(ctx, BorrowRequest{UserID: 2, BookID: 10})
	require.Error(t, err)
	assert.Equal(t, apperrors.ReasonOutOfStock, apperrors.ReasonOf(err))
	assert.Equal(t, 1, f.store.loanCount(), "被拒绝的借书不应产生借阅记录")
	assert.Equal(t, 0, f.store.book(10).AvailableCopies)
}

func TestBorrow_LoanLimitReached(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addUser(1)
	for id := uint(1); id <= 4; id++ {
		f.store.addBook(id, 2, 2)
	}
	for id := uint(1); id <= 3; id++ {
		_, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: id})
		require.NoError(t, err)
	}

	_, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 4})
	require.Error(t, err)
	assert.Equal(t, apperrors.ReasonLoanLimitReached, apperrors.ReasonOf(err))
	assert.Equal(t, 2, f.store.book(4).AvailableCopies, "达到上限时不应扣减库存")
	assert.Equal(t, 3, f.store.loanCount())
}

func TestBorrow_RejectionOrder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		setup  func(f *fixture)
		bookID uint
		reason apperrors.Reason
	}{
		{
			name:   "图书不存在",
			setup:  func(f *fixture) {},
			bookID: 99,
			reason: apperrors.ReasonNotFound,
		},
		{
			name: "重复借阅同一本书",
			setup: func(f *fixture) {
				f.store.addBook(10, 3, 3)
				_, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 10})
				require.NoError(t, err)
			},
			bookID: 10,
			reason: apperrors.ReasonDuplicateLoan,
		},
		{
			name: "无库存优先于达到上限",
			setup: func(f *fixture) {
				for id := uint(1); id <= 3; id++ {
					f.store.addBook(id, 1, 1)
					_, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: id})
					require.NoError(t, err)
				}
				f.store.addBook(10, 1, 0)
			},
			bookID: 10,
			reason: apperrors.ReasonOutOfStock,
		},
		{
			name: "达到上限优先于重复借阅",
			setup: func(f *fixture) {
				f.store.addBook(10, 2, 2)
				for _, id := range []uint{10, 11, 12} {
					if id != 10 {
						f.store.addBook(id, 1, 1)
					}
					_, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: id})
					require.NoError(t, err)
				}
			},
			bookID: 10,
			reason: apperrors.ReasonLoanLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.store.addUser(1)
			tt.setup(f)

			_, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: tt.bookID})
			require.Error(t, err)
			assert.Equal(t, tt.reason, apperrors.ReasonOf(err))
		})
	}
}

func TestBorrow_UnknownUser(t *testing.T) {
	// 借阅人不存在同样是NOT_FOUND，且不扣减库存
	ctx := context.Background()
	f := newFixture()
	f.store.addBook(10, 1, 1)

	_, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 42, BookID: 10})
	require.Error(t, err)
	assert.Equal(t, apperrors.ReasonNotFound, apperrors.ReasonOf(err))
	assert.Equal(t, apperrors.ErrCodeUserNotFound, apperrors.GetAppError(err).Code)
	assert.Equal(t, 1, f.store.book(10).AvailableCopies)
	assert.Equal(t, 0, f.store.loanCount())
}

func TestBorrow_ConcurrentLastCopy(t *testing.T) {
	// N个用户同时借最后一本：恰好1个成功，库存不会变成负数
	ctx := context.Background()
	f := newFixture()
	f.store.addBook(10, 1, 1)
	const n = 20
	for id := uint(1); id <= n; id++ {
		f.store.addUser(id)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		reasons   = map[apperrors.Reason]int{}
	)
	for id := uint(1); id <= n; id++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := f.borrow.Execute(ctx, BorrowRequest{UserID: userID, BookID: 10})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			reasons[apperrors.ReasonOf(err)]++
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, reasons[apperrors.ReasonOutOfStock])
	assert.Equal(t, 0, f.store.book(10).AvailableCopies)
	assert.Equal(t, 1, f.store.loanCount())
}

func TestBorrow_ConcurrentSameUserRespectsLimit(t *testing.T) {
	// 同一用户并发借不同的书，未归还数不会超过上限
	ctx := context.Background()
	f := newFixture()
	f.store.addUser(1)
	const n = 10
	for id := uint(1); id <= n; id++ {
		f.store.addBook(id, 1, 1)
	}

	var wg sync.WaitGroup
	for id := uint(1); id <= n; id++ {
		wg.Add(1)
		go func(bookID uint) {
			defer wg.Done()
			_, _ = f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: bookID})
		}(id)
	}
	wg.Wait()

	assert.Equal(t, loan.DefaultMaxActiveLoans, f.store.loanCount())
}

func TestBorrow_RollbackOnStorageFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addUser(1)
	f.store.addBook(10, 2, 2)
	f.store.failLoanCreate = errDBDown

	_, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 10})
	require.Error(t, err)
	assert.Equal(t, apperrors.ReasonUnknown, apperrors.ReasonOf(err))
	assert.True(t, errors.Is(err, errDBDown), "应保留底层错误用于日志")
	assert.Equal(t, 2, f.store.book(10).AvailableCopies, "插入失败时库存扣减应回滚")
	assert.Empty(t, f.publisher.events, "失败的借书不应发布事件")
}

func TestBorrow_AfterCommit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addUser(1)
	f.store.addBook(10, 1, 1)
	f.publisher.err = errors.New("broker unavailable")

	resp, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 10})
	require.NoError(t, err, "事件发布失败不影响借书结果")

	assert.Equal(t, []uint{10}, f.cache.deleted)
	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, loan.EventBorrowed, event.Type)
	assert.Equal(t, resp.LoanID, event.LoanID)
	assert.Nil(t, event.ReturnDate)
}

func TestReturn_RoundTrip(t *testing.T) {
	// 借书后归还，库存恢复，状态变为returned
	ctx := context.Background()
	f := newFixture()
	f.store.addUser(1)
	f.store.addBook(10, 2, 2)

	borrowed, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.book(10).AvailableCopies)

	f.clock = f.clock.Add(5 * 24 * time.Hour)
	returned, err := f.ret.Execute(ctx, ReturnRequest{LoanID: borrowed.LoanID, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, f.clock, returned.ReturnDate)
	assert.Equal(t, 2, f.store.book(10).AvailableCopies)

	stored := f.store.loan(borrowed.LoanID)
	assert.Equal(t, loan.StoredReturned, stored.Status)
	assert.Equal(t, loan.StatusReturned, stored.StatusAt(f.clock))

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, loan.EventReturned, f.publisher.events[1].Type)
}

func TestReturn_Twice(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addUser(1)
	f.store.addBook(10, 2, 2)
	f.store.addBook(11, 1, 1)

	borrowed, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 10})
	require.NoError(t, err)
	_, err = f.ret.Execute(ctx, ReturnRequest{LoanID: borrowed.LoanID, UserID: 1})
	require.NoError(t, err)

	_, err = f.ret.Execute(ctx, ReturnRequest{LoanID: borrowed.LoanID, UserID: 1})
	require.Error(t, err)
	assert.Equal(t, apperrors.ReasonAlreadyReturned, apperrors.ReasonOf(err))
	assert.Equal(t, 2, f.store.book(10).AvailableCopies, "重复归还不应再次增加库存")
}

func TestReturn_ConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addUser(1)
	f.store.addBook(10, 3, 3)

	borrowed, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 10})
	require.NoError(t, err)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		already   int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ret.Execute(ctx, ReturnRequest{LoanID: borrowed.LoanID, UserID: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperrors.ReasonOf(err) == apperrors.ReasonAlreadyReturned:
				already++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, already)
	assert.Equal(t, 3, f.store.book(10).AvailableCopies)
}

func TestReturn_Ownership(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     func(loanID uint) ReturnRequest
		wantErr error
	}{
		{
			name:    "本人归还",
			req:     func(id uint) ReturnRequest { return ReturnRequest{LoanID: id, UserID: 1} },
			wantErr: nil,
		},
		{
			name:    "其他会员不能归还",
			req:     func(id uint) ReturnRequest { return ReturnRequest{LoanID: id, UserID: 2} },
			wantErr: loan.ErrNotLoanOwner,
		},
		{
			name:    "管理员可以代还",
			req:     func(id uint) ReturnRequest { return ReturnRequest{LoanID: id, UserID: 2, IsAdmin: true} },
			wantErr: nil,
		},
		{
			name:    "借阅记录不存在",
			req:     func(uint) ReturnRequest { return ReturnRequest{LoanID: 999, UserID: 1} },
			wantErr: loan.ErrLoanNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.store.addUser(1)
			f.store.addUser(2)
			f.store.addBook(10, 1, 1)
			borrowed, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 10})
			require.NoError(t, err)

			_, err = f.ret.Execute(ctx, tt.req(borrowed.LoanID))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, f.store.book(10).AvailableCopies, "被拒绝的还书不应修改库存")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, f.store.book(10).AvailableCopies)
		})
	}
}

func TestMyLoans(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addUser(1)
	for id := uint(1); id <= 3; id++ {
		f.store.addBook(id, 1, 1)
	}

	// 第1本已还，第2本已逾期，第3本即将到期
	first, err := f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 1})
	require.NoError(t, err)
	_, err = f.ret.Execute(ctx, ReturnRequest{LoanID: first.LoanID, UserID: 1})
	require.NoError(t, err)

	_, err = f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 2})
	require.NoError(t, err)
	f.clock = f.clock.Add(5 * 24 * time.Hour)
	_, err = f.borrow.Execute(ctx, BorrowRequest{UserID: 1, BookID: 3})
	require.NoError(t, err)

	// 第2本借出16天(逾期2天)，第3本还剩3天，进入提醒窗口
	f.clock = f.clock.Add(11 * 24 * time.Hour)

	resp, err := f.myLoans.Execute(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.ActiveCount)
	assert.Len(t, resp.History, 1)
	assert.Equal(t, 1, resp.OverdueCount)
	assert.Equal(t, 1, resp.DueSoonCount)
	assert.Equal(t, 3, resp.MaxLoans)
	assert.Equal(t, 3, resp.DueSoonDays)
	assert.Equal(t, 1, resp.RemainingSlots)
	assert.True(t, resp.CanBorrow)

	require.Len(t, resp.Active, 2)
	assert.Equal(t, loan.StatusOverdue, resp.Active[0].Status)
	assert.Equal(t, 2, resp.Active[0].DaysOverdue)
	assert.Equal(t, loan.StatusActive, resp.Active[1].Status)
	assert.True(t, resp.Active[1].DueSoon)
	assert.Equal(t, loan.StatusReturned, resp.History[0].Status)
}
