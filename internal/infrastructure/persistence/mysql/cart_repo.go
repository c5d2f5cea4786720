package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/storefront/internal/domain/cart"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// GetOrCreate 获取或创建用户购物车
// 并发首次加购时user_id唯一索引冲突，冲突方重新查询即可
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uint) (*cart.Cart, error) {
	db := r.getDB(ctx)

	var model CartModel
	err := db.Where("user_id = ?", userID).First(&model).Error
	if err == nil {
		return &cart.Cart{ID: model.ID, UserID: model.UserID, CreatedAt: model.CreatedAt}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapDB(err, "查询购物车失败")
	}

	model = CartModel{UserID: userID}
	if err := db.Create(&model).Error; err != nil {
		if !isDuplicateError(err) {
			return nil, apperrors.WrapDB(err, "创建购物车失败")
		}
		if err := db.Where("user_id = ?", userID).First(&model).Error; err != nil {
			return nil, apperrors.WrapDB(err, "查询购物车失败")
		}
	}
	return &cart.Cart{ID: model.ID, UserID: model.UserID, CreatedAt: model.CreatedAt}, nil
}

// FindByUserID 获取用户购物车(含明细，按加入顺序)
func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	var model CartModel
	err := r.getDB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &cart.Cart{UserID: userID}, nil
		}
		return nil, apperrors.WrapDB(err, "查询购物车失败")
	}

	c := &cart.Cart{ID: model.ID, UserID: model.UserID, CreatedAt: model.CreatedAt}
	for _, it := range model.Items {
		c.Items = append(c.Items, toCartItemEntity(&it))
	}
	return c, nil
}

// AddOrIncrement 插入或累加
// INSERT ... ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)
func (r *cartRepository) AddOrIncrement(ctx context.Context, item *cart.Item) (*cart.Item, error) {
	db := r.getDB(ctx)
	model := CartItemModel{
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Option:    item.Option,
		Quantity:  item.Quantity,
	}

	err := db.Clauses(clause.OnConflict{
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + VALUES(quantity)"),
			"updated_at": gorm.Expr("VALUES(updated_at)"),
		}),
	}).Create(&model).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "加入购物车失败")
	}

	// 冲突更新时自增ID不可靠，按唯一键重新读取
	var merged CartItemModel
	err = db.Where("cart_id = ? AND product_id = ? AND `option` = ?", item.CartID, item.ProductID, item.Option).
		First(&merged).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询购物车明细失败")
	}
	result := toCartItemEntity(&merged)
	return &result, nil
}

// UpdateQuantity 修改数量(只能修改自己购物车中的明细)
func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) error {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&CartItemModel{}).
		Where("id = ? AND cart_id IN (?)", itemID, r.ownedCartIDs(db, userID)).
		Count(&count).Error
	if err != nil {
		return apperrors.WrapDB(err, "查询购物车明细失败")
	}
	if count == 0 {
		return cart.ErrCartItemNotFound
	}

	if err := db.Model(&CartItemModel{}).Where("id = ?", itemID).Update("quantity", quantity).Error; err != nil {
		return apperrors.WrapDB(err, "修改购物车数量失败")
	}
	return nil
}

// DeleteItems 删除明细，不属于该用户的ID会被忽略
func (r *cartRepository) DeleteItems(ctx context.Context, userID uint, itemIDs []uint) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	db := r.getDB(ctx)
	result := db.Where("id IN ? AND cart_id IN (?)", itemIDs, r.ownedCartIDs(db, userID)).
		Delete(&CartItemModel{})
	if result.Error != nil {
		return 0, apperrors.WrapDB(result.Error, "删除购物车明细失败")
	}
	return result.RowsAffected, nil
}

func (r *cartRepository) ownedCartIDs(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&CartModel{}).Select("id").Where("user_id = ?", userID)
}

func (r *cartRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func toCartItemEntity(m *CartItemModel) cart.Item {
	return cart.Item{
		ID:        m.ID,
		CartID:    m.CartID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Option:    m.Option,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
