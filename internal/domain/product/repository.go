package product

import (
	"context"
)

// Repository 商品仓储接口
type Repository interface {
	// Create 创建商品（包含图片、分类关联）
	Create(ctx context.Context, p *Product) error

	// FindByID 根据ID查找商品（包含图片）
	FindByID(ctx context.Context, id uint) (*Product, error)

	// FindByIDs 批量查询，结果按ID索引；不存在的ID不出现在map中
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*Product, error)

	// Delete 删除商品（软删除）
	Delete(ctx context.Context, id uint) error

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*Product, int64, error)

	// UpdateStock 原子更新库存
	// delta为负数表示扣减；扣减后库存为负时返回ErrInsufficientStock，商品不存在返回ErrProductNotFound
	// 库存扣减到0时商品状态自动变为soldout，恢复库存时soldout自动变回active
	UpdateStock(ctx context.Context, id uint, delta int) error
}

// Cache 商品详情缓存
type Cache interface {
	Get(ctx context.Context, id uint) (*Product, error) // 未命中返回(nil, nil)
	Set(ctx context.Context, p *Product) error
	Evict(ctx context.Context, ids ...uint) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page          int
	PageSize      int
	CategoryID    uint     // 0表示不过滤
	SubCategoryID uint     // 0表示不过滤
	Statuses      []Status // 为空表示不过滤
	SortBy        string   // newest | price_asc | price_desc
}

// ImageStore 商品图片文件存储
type ImageStore interface {
	// Remove 删除图片文件，文件不存在不算错误
	Remove(path string) error
}
