package author

import (
	"context"
)

// Repository 作者仓储接口
type Repository interface {
	// Create 创建作者
	// 名称重复时返回ErrNameDuplicate
	Create(ctx context.Context, author *Author) error

	// FindByID 不存在时返回ErrAuthorNotFound
	FindByID(ctx context.Context, id uint) (*Author, error)

	// FindByName 按名称精确查找，不存在时返回ErrAuthorNotFound
	FindByName(ctx context.Context, name string) (*Author, error)

	// List 按名称升序返回全部作者
	List(ctx context.Context) ([]*Author, error)

	// Update 更新作者信息
	Update(ctx context.Context, author *Author) error

	// Delete 物理删除
	// 外键约束兜底：仍被图书引用时返回ErrAuthorInUse
	Delete(ctx context.Context, id uint) error

	// HasBooks 是否存在引用该作者的图书
	HasBooks(ctx context.Context, id uint) (bool, error)
}
