package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 带Lock/Decrement/Increment的方法必须在TxManager.Transaction内调用
type Repository interface {
	// Create 创建图书,ISBN重复时返回ErrISBNDuplicate
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书(联表填充作者名、分类名)
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindStock 只查副本数,不联表不加锁
	FindStock(ctx context.Context, id uint) (*Stock, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息(含副本数)
	Update(ctx context.Context, book *Book) error

	// Delete 物理删除,仍被借阅记录引用时返回ErrBookInUse
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// Recent 最近上架的图书
	Recent(ctx context.Context, limit int) ([]*Book, error)

	// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
	// 借书事务用它串行化同一本书上的并发借还
	LockByID(ctx context.Context, id uint) (*Book, error)

	// DecrementAvailable 可借数减1
	// 条件更新(available_copies > 0),没有行被更新时返回ErrNoAvailableCopies
	DecrementAvailable(ctx context.Context, id uint) error

	// IncrementAvailable 可借数加1,不超过total_copies
	IncrementAvailable(ctx context.Context, id uint) error

	// HasLoans 是否存在引用该书的借阅记录(含已归还)
	HasLoans(ctx context.Context, id uint) (bool, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	Keyword    string // 书名子串
	AuthorID   uint   // 0表示不过滤
	CategoryID uint   // 0表示不过滤
}

// Stock 副本数
type Stock struct {
	TotalCopies     int
	AvailableCopies int
}

// Cache 图书详情缓存(Cache-Aside)
// 缓存里的副本数不可信:读取时由FindStock覆盖,借还书事务提交后仍要Delete
type Cache interface {
	// Get 未命中返回(nil, nil)
	Get(ctx context.Context, id uint) (*Book, error)
	Set(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id uint) error
}
