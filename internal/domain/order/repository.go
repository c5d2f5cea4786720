package order

import (
	"context"
	"time"
)

// Repository 订单仓储接口
// 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建订单，OrderID重复时返回ErrDuplicateOrderID
	Create(ctx context.Context, o *Order) error

	// FindByOrderID 根据订单号查找
	FindByOrderID(ctx context.Context, orderID string) (*Order, error)

	// ListByUserID 用户订单列表(创建时间倒序)
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)

	// List 后台订单列表，status为空表示全部
	List(ctx context.Context, status Status, page, pageSize int) ([]*Order, int64, error)

	// CompareAndSetStatus 仅当当前状态为from时更新为to，否则返回ErrStatusConflict
	CompareAndSetStatus(ctx context.Context, orderID string, from, to Status) error

	// UpdateTracking 局部更新运单信息
	UpdateTracking(ctx context.Context, orderID string, update TrackingUpdate) error
}

// TemporaryRepository 临时订单仓储接口
type TemporaryRepository interface {
	// Create 主键冲突时返回ErrDuplicateOrderID
	Create(ctx context.Context, t *TemporaryOrder) error

	FindByOrderID(ctx context.Context, orderID string) (*TemporaryOrder, error)

	// Delete 删除临时订单，不存在不算错误
	Delete(ctx context.Context, orderID string) error

	// DeleteForUser 删除指定用户的临时订单，返回删除行数
	DeleteForUser(ctx context.Context, userID uint, orderID string) (int64, error)

	// DeleteExpired 分批删除过期记录，返回删除行数
	DeleteExpired(ctx context.Context, before time.Time, limit int) (int64, error)
}

// SequenceRepository 每日订单序号
type SequenceRepository interface {
	// Next 原子递增并返回day当天的序号(从1开始)
	Next(ctx context.Context, day string) (int64, error)
}
