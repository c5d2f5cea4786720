package cart

import (
	"context"
)

// Repository 购物车仓储接口
type Repository interface {
	// GetOrCreate 获取用户购物车，不存在时创建（不加载明细）
	GetOrCreate(ctx context.Context, userID uint) (*Cart, error)

	// FindByUserID 获取用户购物车(含明细)；没有购物车时返回空Cart而不是错误
	FindByUserID(ctx context.Context, userID uint) (*Cart, error)

	// AddOrIncrement 同商品同规格的行已存在时累加数量，否则插入新行
	// 依赖(cart_id, product_id, option)唯一索引保证并发加购不会产生重复行
	// 返回合并后的行(含ID和最新数量)
	AddOrIncrement(ctx context.Context, item *Item) (*Item, error)

	// UpdateQuantity 设置数量，明细不属于该用户时返回ErrCartItemNotFound
	UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) error

	// DeleteItems 删除该用户购物车中的指定明细，返回实际删除行数
	DeleteItems(ctx context.Context, userID uint, itemIDs []uint) (int64, error)
}
