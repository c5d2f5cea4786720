package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/order"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 1. 订单与收货信息是1:1关联，一起保存、一起预加载
// 2. 状态更新使用CAS(WHERE status = 旧状态)，避免并发覆盖
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单(包含收货信息)
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return order.ErrDuplicateOrderID
		}
		return apperrors.WrapDB(err, "创建订单失败")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByOrderID 根据订单号查找订单
func (r *orderRepository) FindByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	var model OrderModel
	err := r.getDB(ctx).Preload("Delivery").Where("order_id = ?", orderID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.WrapDB(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// ListByUserID 查询用户的订单列表
func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	query := r.getDB(ctx).Model(&OrderModel{}).Where("user_id = ?", userID)
	return r.paginate(query, page, pageSize)
}

// List 后台订单列表
func (r *orderRepository) List(ctx context.Context, status order.Status, page, pageSize int) ([]*order.Order, int64, error) {
	query := r.getDB(ctx).Model(&OrderModel{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	return r.paginate(query, page, pageSize)
}

func (r *orderRepository) paginate(query *gorm.DB, page, pageSize int) ([]*order.Order, int64, error) {
	var models []OrderModel
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询订单总数失败")
	}

	page, pageSize = normalizePage(page, pageSize)
	err := query.Preload("Delivery").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, total, nil
}

// CompareAndSetStatus 条件更新订单状态
// UPDATE orders SET status = to WHERE order_id = ? AND status = from
func (r *orderRepository) CompareAndSetStatus(ctx context.Context, orderID string, from, to order.Status) error {
	db := r.getDB(ctx)
	result := db.Model(&OrderModel{}).
		Where("order_id = ? AND status = ?", orderID, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "更新订单状态失败")
	}
	if result.RowsAffected == 0 {
		if err := r.ensureExists(db, orderID); err != nil {
			return err
		}
		return order.ErrStatusConflict
	}
	return nil
}

// UpdateTracking 局部更新运单信息，nil字段不更新
func (r *orderRepository) UpdateTracking(ctx context.Context, orderID string, update order.TrackingUpdate) error {
	db := r.getDB(ctx)

	fields := map[string]interface{}{"updated_at": time.Now()}
	if update.Company != nil {
		fields["tracking_company"] = *update.Company
	}
	if update.Number != nil {
		fields["tracking_number"] = *update.Number
	}

	result := db.Model(&OrderModel{}).Where("order_id = ?", orderID).Updates(fields)
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "更新运单信息失败")
	}
	if result.RowsAffected == 0 {
		return r.ensureExists(db, orderID)
	}
	return nil
}

func (r *orderRepository) ensureExists(db *gorm.DB, orderID string) error {
	var count int64
	if err := db.Model(&OrderModel{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return apperrors.WrapDB(err, "查询订单失败")
	}
	if count == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toOrderModel(o *order.Order) *OrderModel {
	return &OrderModel{
		ID:              o.ID,
		OrderID:         o.OrderID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		PaymentKey:      o.PaymentKey,
		TotalAmount:     o.TotalAmount,
		Content:         o.Content,
		TrackingCompany: o.TrackingCompany,
		TrackingNumber:  o.TrackingNumber,
		Delivery: OrderDeliveryModel{
			RecipientName: o.Delivery.RecipientName,
			Phone:         o.Delivery.Phone,
			PostalCode:    o.Delivery.PostalCode,
			Address:       o.Delivery.Address,
			AddressDetail: o.Delivery.AddressDetail,
			Memo:          o.Delivery.Memo,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOrderEntity(model *OrderModel) *order.Order {
	return &order.Order{
		ID:              model.ID,
		OrderID:         model.OrderID,
		UserID:          model.UserID,
		Status:          order.Status(model.Status),
		PaymentKey:      model.PaymentKey,
		TotalAmount:     model.TotalAmount,
		Content:         model.Content,
		TrackingCompany: model.TrackingCompany,
		TrackingNumber:  model.TrackingNumber,
		Delivery: order.Delivery{
			RecipientName: model.Delivery.RecipientName,
			Phone:         model.Delivery.Phone,
			PostalCode:    model.Delivery.PostalCode,
			Address:       model.Delivery.Address,
			AddressDetail: model.Delivery.AddressDetail,
			Memo:          model.Delivery.Memo,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
