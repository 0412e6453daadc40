package rdb

import (
	"context"

	"gorm.io/gorm"
)

// txKey 事务DB在context中的key
type txKey struct{}

// TxManager 事务管理器
// 通过context传递事务DB，fn内所有仓储操作都在同一事务中执行；
// fn返回error时ROLLBACK，返回nil时COMMIT，嵌套调用由GORM使用Savepoint
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    book, err := bookRepo.LockByID(ctx, bookID) // SELECT ... FOR UPDATE
//	    if err != nil {
//	        return err
//	    }
//	    if err := bookRepo.DecrementAvailable(ctx, book.ID); err != nil {
//	        return err // 自动回滚
//	    }
//	    return loanRepo.Create(ctx, loan)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn 仓储的公共部分
type conn struct {
	db *gorm.DB
}

// getDB 从context获取事务DB，没有则使用默认DB
func (c conn) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return c.db.WithContext(ctx)
}
