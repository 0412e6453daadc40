package category

import (
	"context"
)

// Repository 分类仓储接口
// 名称唯一与删除保护都由数据库约束保证：
//   - Create/Update 违反唯一索引时返回ErrNameDuplicate
//   - Delete 违反外键约束时返回ErrCategoryInUse
type Repository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
}
