package book

import (
	"context"
	"errors"
	"strings"

	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/category"
)

// DefaultRecentLimit 首页"最新上架"默认条数
const DefaultRecentLimit = 5

// CreateParams 新书参数
type CreateParams struct {
	ISBN        string
	Title       string
	AuthorID    uint
	CategoryID  uint
	TotalCopies int
	CoverURL    string
	Description string
}

// UpdateParams 更新参数,零值字段表示不修改
type UpdateParams struct {
	ISBN        string
	Title       string
	AuthorID    uint
	CategoryID  uint
	TotalCopies *int
	CoverURL    *string
	Description string
}

// Service 图书领域服务接口
type Service interface {
	// CreateBook 上架新书
	// 业务规则:
	// - 书名、ISBN必填,ISBN格式合法且不重复
	// - 作者、分类必须存在
	// - 副本数>=1,新书全部在架
	CreateBook(ctx context.Context, params CreateParams) (*Book, error)

	// GetBook 根据ID获取图书详情
	GetBook(ctx context.Context, id uint) (*Book, error)

	// GetStock 当前副本数,总是读数据库
	GetStock(ctx context.Context, id uint) (*Stock, error)

	// UpdateBook 更新图书
	// 必须在事务内调用:先锁定图书行,调整副本数时与借还书事务互斥
	UpdateBook(ctx context.Context, id uint, params UpdateParams) (*Book, error)

	// DeleteBook 删除图书
	// 业务规则:存在借阅记录的图书不能删除
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// RecentBooks 最近上架的图书,limit<=0时取默认值
	RecentBooks(ctx context.Context, limit int) ([]*Book, error)
}

type service struct {
	repo       Repository
	authors    author.Repository
	categories category.Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository, authors author.Repository, categories category.Repository) Service {
	return &service{repo: repo, authors: authors, categories: categories}
}

func (s *service) CreateBook(ctx context.Context, params CreateParams) (*Book, error) {
	// 1. 基本校验
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !isValidISBN(params.ISBN) {
		return nil, ErrInvalidISBN
	}
	if params.TotalCopies < 1 {
		return nil, ErrInvalidCopies
	}

	// 2. 引用校验
	if err := s.ensureReferences(ctx, params.AuthorID, params.CategoryID); err != nil {
		return nil, err
	}

	// 3. ISBN唯一(并发时由唯一索引兜底)
	if err := s.ensureISBNFree(ctx, params.ISBN, 0); err != nil {
		return nil, err
	}

	b := NewBook(params.ISBN, params.Title, params.AuthorID, params.CategoryID,
		params.TotalCopies, params.CoverURL, params.Description)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetStock(ctx context.Context, id uint) (*Stock, error) {
	return s.repo.FindStock(ctx, id)
}

func (s *service) UpdateBook(ctx context.Context, id uint, params UpdateParams) (*Book, error) {
	b, err := s.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.ISBN != "" && strings.TrimSpace(params.ISBN) != b.ISBN {
		if !isValidISBN(params.ISBN) {
			return nil, ErrInvalidISBN
		}
		if err := s.ensureISBNFree(ctx, params.ISBN, b.ID); err != nil {
			return nil, err
		}
	}

	authorID, categoryID := b.AuthorID, b.CategoryID
	if params.AuthorID != 0 {
		authorID = params.AuthorID
	}
	if params.CategoryID != 0 {
		categoryID = params.CategoryID
	}
	if authorID != b.AuthorID || categoryID != b.CategoryID {
		if err := s.ensureReferences(ctx, authorID, categoryID); err != nil {
			return nil, err
		}
		b.AuthorID, b.CategoryID = authorID, categoryID
	}

	b.UpdateInfo(params.Title, params.ISBN, params.Description)
	if params.CoverURL != nil {
		b.SetCover(strings.TrimSpace(*params.CoverURL))
	}
	if params.TotalCopies != nil {
		if err := b.ResizeInventory(*params.TotalCopies); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	hasLoans, err := s.repo.HasLoans(ctx, id)
	if err != nil {
		return err
	}
	if hasLoans {
		return ErrBookInUse
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

func (s *service) RecentBooks(ctx context.Context, limit int) ([]*Book, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.repo.Recent(ctx, limit)
}

func (s *service) ensureReferences(ctx context.Context, authorID, categoryID uint) error {
	if _, err := s.authors.FindByID(ctx, authorID); err != nil {
		return err
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return err
	}
	return nil
}

func (s *service) ensureISBNFree(ctx context.Context, isbn string, selfID uint) error {
	existing, err := s.repo.FindByISBN(ctx, strings.TrimSpace(isbn))
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrISBNDuplicate
	}
	return nil
}

// isValidISBN 校验ISBN格式
// 去掉连字符和空格后:13位数字,或9位数字+校验位(数字或X)
// 不校验校验位本身
func isValidISBN(isbn string) bool {
	clean := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn))

	switch len(clean) {
	case 13:
		return allDigits(clean)
	case 10:
		last := clean[9]
		return allDigits(clean[:9]) && (last == 'X' || last == 'x' || (last >= '0' && last <= '9'))
	default:
		return false
	}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
