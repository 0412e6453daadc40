package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/logger"
)

// UpdateBookUseCase 修改图书
// 在事务内锁定图书行，调整副本数与借还书事务互斥；提交后删除详情缓存
type UpdateBookUseCase struct {
	txManager   domain.TxManager
	bookService book.Service
	cache       book.Cache
}

// NewUpdateBookUseCase 创建修改用例
func NewUpdateBookUseCase(txManager domain.TxManager, bookService book.Service, cache book.Cache) *UpdateBookUseCase {
	return &UpdateBookUseCase{txManager: txManager, bookService: bookService, cache: cache}
}

// UpdateBookRequest 修改请求，零值表示不修改
type UpdateBookRequest struct {
	ISBN        string
	Title       string
	AuthorID    uint
	CategoryID  uint
	TotalCopies *int
	CoverURL    *string
	Description string
}

// Execute 执行修改
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, req UpdateBookRequest) (*BookDetail, error) {
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		_, err := uc.bookService.UpdateBook(ctx, id, book.UpdateParams{
			ISBN:        req.ISBN,
			Title:       req.Title,
			AuthorID:    req.AuthorID,
			CategoryID:  req.CategoryID,
			TotalCopies: req.TotalCopies,
			CoverURL:    req.CoverURL,
			Description: req.Description,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Delete(ctx, id); err != nil {
		logger.Ctx(ctx).Warn("清理图书缓存失败", "book_id", id, "error", err)
	}

	updated, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDetail(updated), nil
}

// DeleteBookUseCase 删除图书(有借阅记录时拒绝)
type DeleteBookUseCase struct {
	bookService book.Service
	cache       book.Cache
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, cache book.Cache) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService, cache: cache}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}
	if err := uc.cache.Delete(ctx, id); err != nil {
		logger.Ctx(ctx).Warn("清理图书缓存失败", "book_id", id, "error", err)
	}
	return nil
}
