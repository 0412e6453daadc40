// Package domain 放各聚合共用的领域抽象
package domain

import "context"

// TxManager 事务管理器接口
// fn内通过ctx取到同一个事务，fn返回error时整体回滚
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
