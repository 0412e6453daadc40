package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// CreateBookUseCase 图书上架用例
// 应用层只负责编排，ISBN格式、引用存在、副本数等规则由领域服务校验
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建上架用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService}
}

// CreateBookRequest 上架请求DTO
type CreateBookRequest struct {
	ISBN        string
	Title       string
	AuthorID    uint
	CategoryID  uint
	TotalCopies int
	CoverURL    string
	Description string
}

// Execute 执行上架
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookDetail, error) {
	b, err := uc.bookService.CreateBook(ctx, book.CreateParams{
		ISBN:        req.ISBN,
		Title:       req.Title,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
		TotalCopies: req.TotalCopies,
		CoverURL:    req.CoverURL,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	// Create不回填联表字段，重新读一次拿作者名、分类名
	full, err := uc.bookService.GetBook(ctx, b.ID)
	if err != nil {
		return toDetail(b), nil
	}
	return toDetail(full), nil
}
