package book

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/xiebiao/library/internal/domain"
	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

// MaxCoverSize 封面图片大小上限(5MB)
const MaxCoverSize = 5 << 20

var allowedCoverTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var (
	ErrCoverTooLarge    = apperrors.New(apperrors.ErrCodeInvalidParams, "封面图片不能超过5MB")
	ErrCoverUnsupported = apperrors.New(apperrors.ErrCodeInvalidParams, "封面只支持jpg、png、webp")
)

// CoverStore 封面对象存储
type CoverStore interface {
	// Put 上传对象，返回可公开访问的URL
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// UploadCoverUseCase 上传封面
// 对象key: covers/{book_id}/{uuid}{ext}，每次上传生成新key，不覆盖旧对象(避免CDN缓存旧图)
type UploadCoverUseCase struct {
	txManager   domain.TxManager
	bookService book.Service
	store       CoverStore
	cache       book.Cache
}

// NewUploadCoverUseCase 创建上传用例
func NewUploadCoverUseCase(txManager domain.TxManager, bookService book.Service, store CoverStore, cache book.Cache) *UploadCoverUseCase {
	return &UploadCoverUseCase{txManager: txManager, bookService: bookService, store: store, cache: cache}
}

// UploadCoverRequest 上传请求
type UploadCoverRequest struct {
	BookID      uint
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Execute 上传并更新cover_url
func (uc *UploadCoverUseCase) Execute(ctx context.Context, req UploadCoverRequest) (*BookDetail, error) {
	if req.Size <= 0 || req.Size > MaxCoverSize {
		return nil, ErrCoverTooLarge
	}
	ext, ok := allowedCoverTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, ErrCoverUnsupported
	}
	if e := strings.ToLower(path.Ext(req.Filename)); e == ext || (e == ".jpeg" && ext == ".jpg") {
		ext = e
	}

	// 先确认图书存在，避免为不存在的图书上传对象
	if _, err := uc.bookService.GetBook(ctx, req.BookID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("covers/%d/%s%s", req.BookID, uuid.NewString(), ext)
	url, err := uc.store.Put(ctx, key, req.Body, req.Size, req.ContentType)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeStorageError, "封面上传失败").WithCause(err)
	}

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		_, err := uc.bookService.UpdateBook(ctx, req.BookID, book.UpdateParams{CoverURL: &url})
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Delete(ctx, req.BookID); err != nil {
		logger.Ctx(ctx).Warn("清理图书缓存失败", "book_id", req.BookID, "error", err)
	}

	updated, err := uc.bookService.GetBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	return toDetail(updated), nil
}
