package shared

import (
	"context"
)

// TxManager 事务边界(由mysql.TxManager实现)
// fn内的Repository调用通过ctx共享同一事务
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
