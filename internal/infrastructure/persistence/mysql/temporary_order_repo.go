package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/order"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

type temporaryOrderRepository struct {
	db *gorm.DB
}

// NewTemporaryOrderRepository 创建临时订单仓储
func NewTemporaryOrderRepository(db *gorm.DB) order.TemporaryRepository {
	return &temporaryOrderRepository{db: db}
}

// Create 保存临时订单
func (r *temporaryOrderRepository) Create(ctx context.Context, t *order.TemporaryOrder) error {
	model := &TemporaryOrderModel{
		OrderID:   t.OrderID,
		UserID:    t.UserID,
		Amount:    t.Amount,
		Snapshot:  t.Snapshot,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return order.ErrDuplicateOrderID
		}
		return apperrors.WrapDB(err, "保存临时订单失败")
	}
	return nil
}

// FindByOrderID 查询临时订单
func (r *temporaryOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*order.TemporaryOrder, error) {
	var model TemporaryOrderModel
	if err := r.getDB(ctx).Where("order_id = ?", orderID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrStagingNotFound
		}
		return nil, apperrors.WrapDB(err, "查询临时订单失败")
	}
	return &order.TemporaryOrder{
		OrderID:   model.OrderID,
		UserID:    model.UserID,
		Amount:    model.Amount,
		Snapshot:  model.Snapshot,
		CreatedAt: model.CreatedAt,
		ExpiresAt: model.ExpiresAt,
	}, nil
}

// Delete 删除临时订单
func (r *temporaryOrderRepository) Delete(ctx context.Context, orderID string) error {
	if err := r.getDB(ctx).Where("order_id = ?", orderID).Delete(&TemporaryOrderModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "删除临时订单失败")
	}
	return nil
}

// DeleteForUser 删除属于指定用户的临时订单
func (r *temporaryOrderRepository) DeleteForUser(ctx context.Context, userID uint, orderID string) (int64, error) {
	result := r.getDB(ctx).Where("order_id = ? AND user_id = ?", orderID, userID).Delete(&TemporaryOrderModel{})
	if result.Error != nil {
		return 0, apperrors.WrapDB(result.Error, "删除临时订单失败")
	}
	return result.RowsAffected, nil
}

// DeleteExpired 删除过期临时订单，每次最多limit行(MySQL DELETE ... LIMIT)
func (r *temporaryOrderRepository) DeleteExpired(ctx context.Context, before time.Time, limit int) (int64, error) {
	result := r.getDB(ctx).Where("expires_at < ?", before).Limit(limit).Delete(&TemporaryOrderModel{})
	if result.Error != nil {
		return 0, apperrors.WrapDB(result.Error, "清理过期临时订单失败")
	}
	return result.RowsAffected, nil
}

func (r *temporaryOrderRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}
