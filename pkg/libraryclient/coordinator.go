package libraryclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appbook "github.com/xiebiao/library/internal/application/book"
	apploan "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/user"
)

var (
	// ErrLoanLimitReached 本地计数已达上限，请求没有发出
	ErrLoanLimitReached = errors.New("libraryclient: loan limit reached")

	// ErrRefreshFailed 借还书已成功，但随后刷新借阅视图失败，本地视图仍是旧数据
	ErrRefreshFailed = errors.New("libraryclient: refresh after mutation failed")
)

// Coordinator 当前用户的借阅视图
//
// 本地计数只用于提前拦截，服务端的LOAN_LIMIT_REACHED才是准确结果。
// 借还书成功后总是重新拉取借阅列表与图书，从不在本地加减计数；
// 借还书失败时视图保持不变。同一个Coordinator上的变更操作串行执行。
type Coordinator struct {
	client *Client

	opMu sync.Mutex

	mu          sync.RWMutex
	active      []apploan.LoanItem
	history     []apploan.LoanItem
	activeCount int
	maxLoans    int
	dueSoon     time.Duration
	books       map[uint]appbook.BookDetail
}

// NewCoordinator 创建借阅协调器，Refresh之前上限和提醒窗口按默认值计算
func NewCoordinator(client *Client) *Coordinator {
	return &Coordinator{
		client:   client,
		maxLoans: loan.DefaultMaxActiveLoans,
		dueSoon:  loan.DefaultDueSoonWindow,
		books:    make(map[uint]appbook.BookDetail),
	}
}

// Refresh 从服务端重新加载借阅列表，失败时视图不变
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.refresh(ctx)
}

func (c *Coordinator) refresh(ctx context.Context) error {
	mine, err := c.client.MyLoans(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = mine.Active
	c.history = mine.History
	c.activeCount = mine.ActiveCount
	if mine.MaxLoans > 0 {
		c.maxLoans = mine.MaxLoans
	}
	if mine.DueSoonDays > 0 {
		c.dueSoon = time.Duration(mine.DueSoonDays) * 24 * time.Hour
	}
	return nil
}

// refreshBook 重新拉取图书(可借数在借还书后变化)
func (c *Coordinator) refreshBook(ctx context.Context, bookID uint) (*appbook.BookDetail, error) {
	b, err := c.client.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.books[bookID] = *b
	c.mu.Unlock()
	return b, nil
}

// Reset 清空视图(登出)
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	c.history = nil
	c.activeCount = 0
	c.books = make(map[uint]appbook.BookDetail)
}

// BorrowResult 借书结果
type BorrowResult struct {
	LoanID  uint
	DueDate time.Time
	Book    *appbook.BookDetail // 刷新后的图书，刷新失败时为nil
}

// Borrow 借书
// 本地计数已满时直接返回ErrLoanLimitReached，不发请求
func (c *Coordinator) Borrow(ctx context.Context, bookID uint) (*BorrowResult, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if !c.CanBorrow() {
		return nil, ErrLoanLimitReached
	}

	resp, err := c.client.Borrow(ctx, bookID)
	if err != nil {
		return nil, err
	}

	result := &BorrowResult{LoanID: resp.LoanID, DueDate: resp.DueDate}
	if err := c.refresh(ctx); err != nil {
		return result, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	b, err := c.refreshBook(ctx, bookID)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	result.Book = b
	return result, nil
}

// Return 还书，成功后刷新借阅列表与对应图书
// 图书ID取自服务端响应，本地视图里没有这条借阅(未Refresh、管理员代还)时同样刷新
func (c *Coordinator) Return(ctx context.Context, loanID uint) (*apploan.ReturnResponse, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	resp, err := c.client.Return(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := c.refresh(ctx); err != nil {
		return resp, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if _, err := c.refreshBook(ctx, resp.BookID); err != nil {
		return resp, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	return resp, nil
}

// CheckExistingLoan 总是询问服务端，不使用本地视图
func (c *Coordinator) CheckExistingLoan(ctx context.Context, bookID uint) (*apploan.ExistingLoanResponse, error) {
	return c.client.LoanStatus(ctx, bookID)
}

// ActiveLoans 未归还的借阅(按到期日升序)
func (c *Coordinator) ActiveLoans() []apploan.LoanItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]apploan.LoanItem(nil), c.active...)
}

// LoanHistory 已归还的借阅
func (c *Coordinator) LoanHistory() []apploan.LoanItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]apploan.LoanItem(nil), c.history...)
}

func (c *Coordinator) ActiveLoanCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeCount
}

func (c *Coordinator) MaxLoans() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxLoans
}

// CanBorrow 本地判断是否还能借书
func (c *Coordinator) CanBorrow() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeCount < c.maxLoans
}

// RemainingSlots 剩余可借数量
func (c *Coordinator) RemainingSlots() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n := c.maxLoans - c.activeCount; n > 0 {
		return n
	}
	return 0
}

// Book 最近一次拉取到的图书
func (c *Coordinator) Book(id uint) (appbook.BookDetail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.books[id]
	return b, ok
}

// Classification 按当前时间重新划分的未归还借阅
type Classification struct {
	Overdue []apploan.LoanItem
	DueSoon []apploan.LoanItem
}

// Classify 用now重新计算状态，不依赖服务端返回时的status字段
// 提醒窗口取服务端最近一次返回的due_soon_days
func (c *Coordinator) Classify(now time.Time) Classification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out Classification
	for _, l := range c.active {
		switch {
		case loan.DeriveStatus(l.DueDate, l.ReturnDate, now) == loan.StatusOverdue:
			out.Overdue = append(out.Overdue, l)
		case loan.IsDueSoon(l.DueDate, l.ReturnDate, now, c.dueSoon):
			out.DueSoon = append(out.DueSoon, l)
		}
	}
	return out
}

// Follow 跟随会话：登录时刷新，登出时清空，ctx取消或会话关闭时返回
func (c *Coordinator) Follow(ctx context.Context, s *Session) {
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			switch event.Type {
			case user.EventSignedOut:
				c.Reset()
			case user.EventSignedIn:
				_ = c.Refresh(ctx)
			}
		}
	}
}
