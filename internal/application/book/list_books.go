package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 列表不返回description，不走缓存(可借数要求实时)
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	Keyword    string // 书名子串
	AuthorID   uint
	CategoryID uint
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 执行列表查询
// page默认1，pageSize默认20、最大100
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Keyword:    req.Keyword,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return nil, err
	}

	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = toListItem(b)
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// RecentBooksUseCase 最新上架
type RecentBooksUseCase struct {
	bookService book.Service
}

// NewRecentBooksUseCase 创建用例
func NewRecentBooksUseCase(bookService book.Service) *RecentBooksUseCase {
	return &RecentBooksUseCase{bookService: bookService}
}

// Execute limit<=0时取默认5条
func (uc *RecentBooksUseCase) Execute(ctx context.Context, limit int) ([]BookListItem, error) {
	books, err := uc.bookService.RecentBooks(ctx, limit)
	if err != nil {
		return nil, err
	}
	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = toListItem(b)
	}
	return list, nil
}
