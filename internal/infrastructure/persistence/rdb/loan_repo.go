package rdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// loanRepository 借阅仓储实现
type loanRepository struct {
	conn
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &loanRepository{conn{db: db}}
}

// loanRow 借阅 + 图书展示字段
type loanRow struct {
	ID           uint
	UserID       uint
	BookID       uint
	BorrowDate   time.Time
	DueDate      time.Time
	ReturnDate   *time.Time
	Status       string
	CreatedAt    time.Time
	BookTitle    string
	BookISBN     string
	BookCoverURL string
	AuthorName   string
}

const loanColumns = "l.id, l.user_id, l.book_id, l.borrow_date, l.due_date, l.return_date, l.status, l.created_at, " +
	"b.title AS book_title, b.isbn AS book_isbn, b.cover_url AS book_cover_url, a.name AS author_name"

func (r *loanRepository) joined(ctx context.Context) *gorm.DB {
	return r.getDB(ctx).Table("loans AS l").
		Select(loanColumns).
		Joins("JOIN books b ON b.id = l.book_id").
		Joins("JOIN authors a ON a.id = b.author_id")
}

func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := &LoanModel{
		UserID:     l.UserID,
		BookID:     l.BookID,
		BorrowDate: l.BorrowDate,
		DueDate:    l.DueDate,
		Status:     string(l.Status),
		CreatedAt:  l.CreatedAt,
	}
	if err := r.getDB(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅记录失败")
	}
	l.ID = model.ID
	return nil
}

// LockByID 只锁loans行
func (r *loanRepository) LockByID(ctx context.Context, id uint) (*loan.Loan, error) {
	var model LoanModel
	err := r.getDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrLoanNotFound
		}
		return nil, apperrors.Wrap(err, "锁定借阅记录失败")
	}
	return &loan.Loan{
		ID:         model.ID,
		UserID:     model.UserID,
		BookID:     model.BookID,
		BorrowDate: model.BorrowDate,
		DueDate:    model.DueDate,
		ReturnDate: model.ReturnDate,
		Status:     loan.StoredStatus(model.Status),
		CreatedAt:  model.CreatedAt,
	}, nil
}

// MarkReturned 条件更新(return_date IS NULL)，并发重复归还只有一个能成功
func (r *loanRepository) MarkReturned(ctx context.Context, l *loan.Loan) error {
	result := r.getDB(ctx).Model(&LoanModel{}).
		Where("id = ? AND return_date IS NULL", l.ID).
		Updates(map[string]interface{}{
			"return_date": l.ReturnDate,
			"status":      string(loan.StoredReturned),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新借阅记录失败")
	}
	if result.RowsAffected == 0 {
		return loan.ErrAlreadyReturned
	}
	return nil
}

func (r *loanRepository) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&LoanModel{}).
		Where("user_id = ? AND return_date IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计借阅数量失败")
	}
	return count, nil
}

func (r *loanRepository) FindActiveByUserAndBook(ctx context.Context, userID, bookID uint) (*loan.Loan, error) {
	var rows []loanRow
	err := r.joined(ctx).
		Where("l.user_id = ? AND l.book_id = ? AND l.return_date IS NULL", userID, bookID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}

func (r *loanRepository) ListActiveByUser(ctx context.Context, userID uint) ([]*loan.Loan, error) {
	return r.list(r.joined(ctx).
		Where("l.user_id = ? AND l.return_date IS NULL", userID).
		Order("l.due_date ASC").
		Order("l.id ASC"))
}

func (r *loanRepository) ListReturnedByUser(ctx context.Context, userID uint) ([]*loan.Loan, error) {
	return r.list(r.joined(ctx).
		Where("l.user_id = ? AND l.return_date IS NOT NULL", userID).
		Order("l.return_date DESC").
		Order("l.id DESC"))
}

func (r *loanRepository) list(db *gorm.DB) ([]*loan.Loan, error) {
	var rows []loanRow
	if err := db.Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询借阅列表失败")
	}
	loans := make([]*loan.Loan, len(rows))
	for i := range rows {
		loans[i] = rows[i].toEntity()
	}
	return loans, nil
}

func (row *loanRow) toEntity() *loan.Loan {
	return &loan.Loan{
		ID:           row.ID,
		UserID:       row.UserID,
		BookID:       row.BookID,
		BorrowDate:   row.BorrowDate,
		DueDate:      row.DueDate,
		ReturnDate:   row.ReturnDate,
		Status:       loan.StoredStatus(row.Status),
		BookTitle:    row.BookTitle,
		BookISBN:     row.BookISBN,
		BookCoverURL: row.BookCoverURL,
		AuthorName:   row.AuthorName,
		CreatedAt:    row.CreatedAt,
	}
}
