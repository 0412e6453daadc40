package rdb

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现
type bookRepository struct {
	conn
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{conn{db: db}}
}

// bookRow 联表查询结果(图书 + 作者名 + 分类名)
type bookRow struct {
	ID              uint
	ISBN            string
	Title           string
	AuthorID        uint
	CategoryID      uint
	TotalCopies     int
	AvailableCopies int
	CoverURL        string
	Description     string
	AuthorName      string
	CategoryName    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const bookColumns = "b.id, b.isbn, b.title, b.author_id, b.category_id, b.total_copies, b.available_copies, " +
	"b.cover_url, b.description, b.created_at, b.updated_at, a.name AS author_name, c.name AS category_name"

func (r *bookRepository) joined(ctx context.Context) *gorm.DB {
	return r.getDB(ctx).Table("books AS b").
		Select(bookColumns).
		Joins("JOIN authors a ON a.id = b.author_id").
		Joins("JOIN categories c ON c.id = b.category_id")
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	// 关联字段只用于生成外键，不随图书写入
	if err := r.getDB(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var row bookRow
	if err := r.joined(ctx).Where("b.id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return row.toEntity(), nil
}

func (r *bookRepository) FindStock(ctx context.Context, id uint) (*book.Stock, error) {
	var stock book.Stock
	err := r.getDB(ctx).Model(&BookModel{}).
		Select("total_copies", "available_copies").
		Where("id = ?", id).
		Take(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询副本数失败")
	}
	return &stock, nil
}

func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	if err := r.getDB(ctx).Where("isbn = ?", isbn).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := r.getDB(ctx).Model(&BookModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"isbn":             b.ISBN,
			"title":            b.Title,
			"author_id":        b.AuthorID,
			"category_id":      b.CategoryID,
			"total_copies":     b.TotalCopies,
			"available_copies": b.AvailableCopies,
			"cover_url":        b.CoverURL,
			"description":      b.Description,
			"updated_at":       b.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&BookModel{}, id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return book.ErrBookInUse
		}
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var total int64
	if err := applyBookFilters(r.getDB(ctx).Table("books AS b"), params).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "统计图书数量失败")
	}

	var rows []bookRow
	offset := (params.Page - 1) * params.PageSize
	err := applyBookFilters(r.joined(ctx), params).
		Order("b.created_at DESC").
		Order("b.id DESC").
		Offset(offset).
		Limit(params.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}
	return rowsToBooks(rows), total, nil
}

func (r *bookRepository) Recent(ctx context.Context, limit int) ([]*book.Book, error) {
	var rows []bookRow
	if err := r.joined(ctx).Order("b.created_at DESC").Order("b.id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询最新图书失败")
	}
	return rowsToBooks(rows), nil
}

// LockByID 只锁books行，不联表，避免连带锁住作者和分类
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// DecrementAvailable 条件更新兜底：available_copies > 0
func (r *bookRepository) DecrementAvailable(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Model(&BookModel{}).
		Where("id = ? AND available_copies > 0", id).
		Update("available_copies", gorm.Expr("available_copies - 1"))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "扣减可借数失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrNoAvailableCopies
	}
	return nil
}

// IncrementAvailable 已满时不再增加
func (r *bookRepository) IncrementAvailable(ctx context.Context, id uint) error {
	err := r.getDB(ctx).Model(&BookModel{}).
		Where("id = ? AND available_copies < total_copies", id).
		Update("available_copies", gorm.Expr("available_copies + 1")).Error
	if err != nil {
		return apperrors.Wrap(err, "归还可借数失败")
	}
	return nil
}

func (r *bookRepository) HasLoans(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.getDB(ctx).Model(&LoanModel{}).Where("book_id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return count > 0, nil
}

// applyBookFilters 书名不区分大小写的子串匹配；LOWER在MySQL和PostgreSQL上行为一致
func applyBookFilters(db *gorm.DB, params book.ListParams) *gorm.DB {
	if kw := strings.TrimSpace(params.Keyword); kw != "" {
		db = db.Where("LOWER(b.title) LIKE ?", likePattern(kw))
	}
	if params.AuthorID != 0 {
		db = db.Where("b.author_id = ?", params.AuthorID)
	}
	if params.CategoryID != 0 {
		db = db.Where("b.category_id = ?", params.CategoryID)
	}
	return db
}

// likePattern 小写并转义LIKE通配符
func likePattern(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(keyword)) + "%"
}

func (row *bookRow) toEntity() *book.Book {
	return &book.Book{
		ID:              row.ID,
		ISBN:            row.ISBN,
		Title:           row.Title,
		AuthorID:        row.AuthorID,
		CategoryID:      row.CategoryID,
		TotalCopies:     row.TotalCopies,
		AvailableCopies: row.AvailableCopies,
		CoverURL:        row.CoverURL,
		Description:     row.Description,
		AuthorName:      row.AuthorName,
		CategoryName:    row.CategoryName,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func rowsToBooks(rows []bookRow) []*book.Book {
	books := make([]*book.Book, len(rows))
	for i := range rows {
		books[i] = rows[i].toEntity()
	}
	return books
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		AuthorID:        b.AuthorID,
		CategoryID:      b.CategoryID,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		CoverURL:        b.CoverURL,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:              m.ID,
		ISBN:            m.ISBN,
		Title:           m.Title,
		AuthorID:        m.AuthorID,
		CategoryID:      m.CategoryID,
		TotalCopies:     m.TotalCopies,
		AvailableCopies: m.AvailableCopies,
		CoverURL:        m.CoverURL,
		Description:     m.Description,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
