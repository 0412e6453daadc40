package loan

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// memStore 内存存储
// txMu串行化整个事务(等价于行锁下的串行执行)，dataMu保护单次读写；
// 事务函数返回错误时恢复快照，模拟回滚
type memStore struct {
	txMu   sync.Mutex
	dataMu sync.Mutex

	users  map[uint]*user.User
	books  map[uint]*book.Book
	loans  map[uint]*loan.Loan
	nextID uint

	failLoanCreate error
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[uint]*user.User),
		books: make(map[uint]*book.Book),
		loans: make(map[uint]*loan.Loan),
	}
}

type snapshot struct {
	books  map[uint]book.Book
	loans  map[uint]loan.Loan
	nextID uint
}

func (s *memStore) snapshot() snapshot {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	snap := snapshot{books: make(map[uint]book.Book), loans: make(map[uint]loan.Loan), nextID: s.nextID}
	for id, b := range s.books {
		snap.books[id] = *b
	}
	for id, l := range s.loans {
		snap.loans[id] = *l
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	s.books = make(map[uint]*book.Book)
	for id, b := range snap.books {
		b := b
		s.books[id] = &b
	}
	s.loans = make(map[uint]*loan.Loan)
	for id, l := range snap.loans {
		l := l
		s.loans[id] = &l
	}
	s.nextID = snap.nextID
}

func (s *memStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) addUser(id uint) {
	s.users[id] = &user.User{ID: id, Email: "u@example.com"}
}

func (s *memStore) addBook(id uint, total, available int) {
	s.books[id] = &book.Book{ID: id, Title: "book", TotalCopies: total, AvailableCopies: available}
}

func (s *memStore) book(id uint) book.Book {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	return *s.books[id]
}

func (s *memStore) loan(id uint) loan.Loan {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	return *s.loans[id]
}

func (s *memStore) loanCount() int {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	return len(s.loans)
}

// ---- user.Repository ----

type memUsers struct {
	user.Repository
	s *memStore
}

func (r memUsers) LockByID(_ context.Context, id uint) (*user.User, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// ---- book.Repository ----

type memBooks struct {
	book.Repository
	s *memStore
}

func (r memBooks) LockByID(_ context.Context, id uint) (*book.Book, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	b, ok := r.s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r memBooks) DecrementAvailable(_ context.Context, id uint) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	b := r.s.books[id]
	if b.AvailableCopies <= 0 {
		return book.ErrNoAvailableCopies
	}
	b.AvailableCopies--
	return nil
}

func (r memBooks) IncrementAvailable(_ context.Context, id uint) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	b := r.s.books[id]
	if b.AvailableCopies < b.TotalCopies {
		b.AvailableCopies++
	}
	return nil
}

// ---- loan.Repository ----

type memLoans struct {
	s *memStore
}

func (r memLoans) Create(_ context.Context, l *loan.Loan) error {
	if r.s.failLoanCreate != nil {
		return r.s.failLoanCreate
	}
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.s.nextID++
	l.ID = r.s.nextID
	cp := *l
	r.s.loans[l.ID] = &cp
	return nil
}

func (r memLoans) LockByID(_ context.Context, id uint) (*loan.Loan, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	l, ok := r.s.loans[id]
	if !ok {
		return nil, loan.ErrLoanNotFound
	}
	cp := *l
	return &cp, nil
}

func (r memLoans) MarkReturned(_ context.Context, l *loan.Loan) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	stored := r.s.loans[l.ID]
	if stored.ReturnDate != nil {
		return loan.ErrAlreadyReturned
	}
	rd := *l.ReturnDate
	stored.ReturnDate = &rd
	stored.Status = loan.StoredReturned
	return nil
}

func (r memLoans) CountActiveByUser(_ context.Context, userID uint) (int64, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var n int64
	for _, l := range r.s.loans {
		if l.UserID == userID && l.ReturnDate == nil {
			n++
		}
	}
	return n, nil
}

func (r memLoans) FindActiveByUserAndBook(_ context.Context, userID, bookID uint) (*loan.Loan, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, l := range r.s.loans {
		if l.UserID == userID && l.BookID == bookID && l.ReturnDate == nil {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memLoans) ListActiveByUser(_ context.Context, userID uint) ([]*loan.Loan, error) {
	return r.list(userID, false), nil
}

func (r memLoans) ListReturnedByUser(_ context.Context, userID uint) ([]*loan.Loan, error) {
	return r.list(userID, true), nil
}

func (r memLoans) list(userID uint, returned bool) []*loan.Loan {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*loan.Loan
	for id := uint(1); id <= r.s.nextID; id++ {
		l, ok := r.s.loans[id]
		if !ok || l.UserID != userID || (l.ReturnDate != nil) != returned {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out
}

// ---- 事务后副作用 ----

type recordingCache struct {
	mu      sync.Mutex
	deleted []uint
}

func (c *recordingCache) Get(context.Context, uint) (*book.Book, error) { return nil, nil }
func (c *recordingCache) Set(context.Context, *book.Book) error         { return nil }
func (c *recordingCache) Delete(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []loan.Event
	err    error
}

func (p *recordingPublisher) PublishLoanEvent(_ context.Context, e loan.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

var errDBDown = errors.New("connection reset by peer")

type fixture struct {
	store     *memStore
	cache     *recordingCache
	publisher *recordingPublisher
	borrow    *BorrowUseCase
	ret       *ReturnUseCase
	myLoans   *MyLoansUseCase
	clock     time.Time
}

func newFixture() *fixture {
	s := newMemStore()
	f := &fixture{
		store:     s,
		cache:     &recordingCache{},
		publisher: &recordingPublisher{},
		clock:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	policy := loan.DefaultPolicy()
	now := func() time.Time { return f.clock }

	f.borrow = NewBorrowUseCase(s, memUsers{s: s}, memBooks{s: s}, memLoans{s: s}, f.cache, f.publisher, policy)
	f.borrow.now = now
	f.ret = NewReturnUseCase(s, memBooks{s: s}, memLoans{s: s}, f.cache, f.publisher)
	f.ret.now = now
	f.myLoans = NewMyLoansUseCase(memLoans{s: s}, policy)
	f.myLoans.now = now
	return f
}
