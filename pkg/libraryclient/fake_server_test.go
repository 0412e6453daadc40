package libraryclient

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	apploan "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAPI 内存版借阅接口，只实现客户端用到的路由
type fakeAPI struct {
	mu        sync.Mutex
	now       time.Time
	maxLoans  int
	dueSoon   int
	available map[uint]int
	loans     []apploan.LoanItem
	nextID    uint

	borrowErr error // 非nil时借书返回该业务错误

	borrowCalls  atomic.Int32
	returnCalls  atomic.Int32
	myLoansCalls atomic.Int32
	bookCalls    atomic.Int32
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		now:       time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC),
		maxLoans:  loan.DefaultMaxActiveLoans,
		dueSoon:   3,
		available: map[uint]int{1: 2, 2: 1, 3: 1, 4: 1},
	}
}

func (f *fakeAPI) start(t *testing.T) *Client {
	t.Helper()
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/loans/me", f.myLoans)
	v1.POST("/loans", f.borrow)
	v1.POST("/loans/:id/return", f.giveBack)
	v1.GET("/books/:id", f.book)
	v1.GET("/books/:id/loan-status", f.loanStatus)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, RetryBackoff: time.Millisecond})
}

// seedActive 预置n条未归还借阅
func (f *fakeAPI) seedActive(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		f.nextID++
		f.loans = append(f.loans, apploan.LoanItem{
			ID:         f.nextID,
			BookID:     100 + f.nextID,
			BorrowDate: f.now,
			DueDate:    f.now.Add(loan.DefaultLoanPeriod),
			Status:     loan.StatusActive,
		})
	}
}

func (f *fakeAPI) activeCount() int {
	n := 0
	for _, l := range f.loans {
		if l.ReturnDate == nil {
			n++
		}
	}
	return n
}

func (f *fakeAPI) myLoans(c *gin.Context) {
	f.myLoansCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()

	resp := apploan.MyLoansResponse{
		Active:      []apploan.LoanItem{},
		History:     []apploan.LoanItem{},
		MaxLoans:    f.maxLoans,
		DueSoonDays: f.dueSoon,
	}
	for _, l := range f.loans {
		if l.ReturnDate == nil {
			resp.Active = append(resp.Active, l)
		} else {
			resp.History = append(resp.History, l)
		}
	}
	resp.ActiveCount = len(resp.Active)
	resp.CanBorrow = resp.ActiveCount < f.maxLoans
	resp.RemainingSlots = f.maxLoans - resp.ActiveCount
	response.Success(c, resp)
}

func (f *fakeAPI) borrow(c *gin.Context) {
	f.borrowCalls.Add(1)
	var req struct {
		BookID uint `json:"book_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.borrowErr != nil {
		response.Error(c, f.borrowErr)
		return
	}
	if f.available[req.BookID] <= 0 {
		response.Error(c, loan.ErrOutOfStock)
		return
	}
	if f.activeCount() >= f.maxLoans {
		response.Error(c, loan.ErrLoanLimitReached)
		return
	}
	f.available[req.BookID]--
	f.nextID++
	item := apploan.LoanItem{
		ID:         f.nextID,
		BookID:     req.BookID,
		BorrowDate: f.now,
		DueDate:    f.now.Add(loan.DefaultLoanPeriod),
		Status:     loan.StatusActive,
	}
	f.loans = append(f.loans, item)
	response.Success(c, apploan.BorrowResponse{Success: true, LoanID: item.ID, DueDate: item.DueDate})
}

func (f *fakeAPI) giveBack(c *gin.Context) {
	f.returnCalls.Add(1)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.loans {
		if f.loans[i].ID != uint(id) {
			continue
		}
		if f.loans[i].ReturnDate != nil {
			response.Error(c, loan.ErrAlreadyReturned)
			return
		}
		rd := f.now
		f.loans[i].ReturnDate = &rd
		f.loans[i].Status = loan.StatusReturned
		f.available[f.loans[i].BookID]++
		response.Success(c, apploan.ReturnResponse{
			Success:    true,
			LoanID:     uint(id),
			BookID:     f.loans[i].BookID,
			ReturnDate: rd,
		})
		return
	}
	response.Error(c, loan.ErrLoanNotFound)
}

func (f *fakeAPI) book(c *gin.Context) {
	f.bookCalls.Add(1)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	f.mu.Lock()
	defer f.mu.Unlock()
	response.Success(c, appbook.BookDetail{BookListItem: appbook.BookListItem{
		ID:              uint(id),
		Title:           "book-" + c.Param("id"),
		TotalCopies:     2,
		AvailableCopies: f.available[uint(id)],
	}})
}

func (f *fakeAPI) loanStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.loans {
		if l.BookID == uint(id) && l.ReturnDate == nil {
			item := l
			response.Success(c, apploan.ExistingLoanResponse{HasLoan: true, Loan: &item})
			return
		}
	}
	response.Success(c, apploan.ExistingLoanResponse{HasLoan: false})
}
