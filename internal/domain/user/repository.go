package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/rdb层
type Repository interface {
	// Create 创建用户
	// 注意：如果邮箱已存在，应返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新用户信息（目前只有密码）
	Update(ctx context.Context, user *User) error

	// LockByID 悲观锁锁定用户行
	// 借书事务先锁用户，同一用户的并发借书在这里排队，借阅上限检查不会被绕过
	LockByID(ctx context.Context, id uint) (*User, error)
}

// ProfileRepository 用户资料仓储
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error

	// FindByUserID 不存在时返回ErrProfileNotFound
	FindByUserID(ctx context.Context, userID uint) (*Profile, error)

	Update(ctx context.Context, profile *Profile) error
}
