package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

// GetBookUseCase 图书详情(Cache-Aside)
//  1. 先查Redis，命中后用数据库里的副本数覆盖缓存值
//  2. 未命中查数据库，回填缓存
//  3. 缓存故障降级为直接查库，不影响请求
//
// 并发读可能在借书提交前读到旧行、在删除缓存后回填，所以缓存里的副本数永远不直接返回
type GetBookUseCase struct {
	bookService book.Service
	cache       book.Cache
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service, cache book.Cache) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, cache: cache}
}

// Execute 查询图书详情
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetail, error) {
	log := logger.Ctx(ctx)

	cached, err := uc.cache.Get(ctx, id)
	switch {
	case err != nil:
		metrics.ObserveCache("book", "error")
		log.Warn("读取图书缓存失败", "book_id", id, "error", err)
	case cached != nil:
		metrics.ObserveCache("book", "hit")
		stock, err := uc.bookService.GetStock(ctx, id)
		if err != nil {
			return nil, err
		}
		cached.TotalCopies = stock.TotalCopies
		cached.AvailableCopies = stock.AvailableCopies
		return toDetail(cached), nil
	default:
		metrics.ObserveCache("book", "miss")
	}

	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, b); err != nil {
		log.Warn("写入图书缓存失败", "book_id", id, "error", err)
	}
	return toDetail(b), nil
}
