package order

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/application/shared"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/payment"
	"github.com/xiebiao/storefront/internal/domain/product"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/metrics"
)

const refundReason = "관리자 주문 취소"

// RequestCancelUseCase 用户申请取消
// 只有配送准备中的订单可以申请，状态变为취소요청，由后台确认后退款
type RequestCancelUseCase struct {
	orderRepo order.Repository
	events    order.EventPublisher
}

func NewRequestCancelUseCase(orderRepo order.Repository, events order.EventPublisher) *RequestCancelUseCase {
	return &RequestCancelUseCase{orderRepo: orderRepo, events: events}
}

func (uc *RequestCancelUseCase) Execute(ctx context.Context, userID uint, orderID string) (*OrderDetail, error) {
	o, err := uc.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, order.ErrOrderNotFound
	}

	prev, err := o.RequestCancel()
	if err != nil {
		return nil, err
	}
	if err := uc.orderRepo.CompareAndSetStatus(ctx, orderID, prev, o.Status); err != nil {
		return nil, err
	}

	afterTransition(ctx, uc.events, o, prev)
	return toDetail(o, false), nil
}

// ChangeStatusUseCase 后台修改订单状态
// 1. 按状态流转表校验
// 2. CAS更新，并发修改时返回ErrStatusConflict
// 3. 变为취소완료时，在同一事务中恢复库存并向网关退款；退款失败则整体回滚
type ChangeStatusUseCase struct {
	orderRepo   order.Repository
	productRepo product.Repository
	gateway     payment.Gateway
	txManager   shared.TxManager
	events      order.EventPublisher
}

func NewChangeStatusUseCase(
	orderRepo order.Repository,
	productRepo product.Repository,
	gateway payment.Gateway,
	txManager shared.TxManager,
	events order.EventPublisher,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
		txManager:   txManager,
		events:      events,
	}
}

// ChangeStatusRequest 状态修改请求
type ChangeStatusRequest struct {
	OrderID string
	Status  string
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, req ChangeStatusRequest) (*OrderDetail, error) {
	target := order.Status(req.Status)
	if !target.Valid() {
		return nil, order.ErrInvalidStatus
	}

	o, err := uc.orderRepo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	prev, err := o.TransitionTo(target)
	if err != nil {
		return nil, err
	}

	if target == order.StatusCancelled {
		err = uc.cancel(ctx, o, prev)
	} else {
		err = uc.orderRepo.CompareAndSetStatus(ctx, o.OrderID, prev, target)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("订单状态已修改",
		zap.String("order_id", o.OrderID),
		zap.String("from", string(prev)),
		zap.String("to", string(target)),
	)
	afterTransition(ctx, uc.events, o, prev)
	return toDetail(o, true), nil
}

// cancel 取消完成：CAS → 恢复库存 → 网关退款，全部在一个事务里
// 网关调用放在最后，退款失败时状态和库存一起回滚
func (uc *ChangeStatusUseCase) cancel(ctx context.Context, o *order.Order, prev order.Status) error {
	refunded := false
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.CompareAndSetStatus(txCtx, o.OrderID, prev, order.StatusCancelled); err != nil {
			return err
		}

		// 按商品ID顺序加行锁，避免并发取消时死锁
		restores := o.StockRestores()
		for _, productID := range slices.Sorted(maps.Keys(restores)) {
			err := uc.productRepo.UpdateStock(txCtx, productID, restores[productID])
			if errors.Is(err, product.ErrProductNotFound) {
				zap.L().Warn("商品已删除，跳过库存恢复",
					zap.String("order_id", o.OrderID),
					zap.Uint("product_id", productID),
				)
				continue
			}
			if err != nil {
				return err
			}
		}

		if o.PaymentKey == "" {
			return nil
		}
		if err := uc.gateway.Cancel(txCtx, o.PaymentKey, refundReason); err != nil {
			return err
		}
		refunded = true
		return nil
	})
	if err != nil && refunded {
		// 网关已退款但本地事务回滚，订单状态与库存需人工对账
		zap.L().Error("退款成功但取消事务提交失败",
			zap.String("order_id", o.OrderID),
			zap.String("payment_key", o.PaymentKey),
			zap.Int64("amount", o.TotalAmount),
			zap.Error(err),
		)
	}
	return err
}

// UpdateTrackingUseCase 后台录入运单信息(局部更新)
type UpdateTrackingUseCase struct {
	orderRepo order.Repository
}

func NewUpdateTrackingUseCase(orderRepo order.Repository) *UpdateTrackingUseCase {
	return &UpdateTrackingUseCase{orderRepo: orderRepo}
}

// UpdateTrackingRequest 为nil的字段保持不变
type UpdateTrackingRequest struct {
	OrderID         string
	TrackingCompany *string
	TrackingNumber  *string
}

func (uc *UpdateTrackingUseCase) Execute(ctx context.Context, req UpdateTrackingRequest) (*OrderDetail, error) {
	update := order.TrackingUpdate{Company: req.TrackingCompany, Number: req.TrackingNumber}
	if update.IsEmpty() {
		return nil, apperrors.ErrInvalidParams
	}

	if err := uc.orderRepo.UpdateTracking(ctx, req.OrderID, update); err != nil {
		return nil, err
	}

	o, err := uc.orderRepo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	return toDetail(o, true), nil
}

// afterTransition 状态变化后的指标与事件
func afterTransition(ctx context.Context, events order.EventPublisher, o *order.Order, prev order.Status) {
	metrics.ObserveOrderTransition(string(prev), string(o.Status))
	events.StatusChanged(ctx, order.StatusChangedEvent{
		OrderID:    o.OrderID,
		UserID:     o.UserID,
		From:       prev,
		To:         o.Status,
		OccurredAt: time.Now(),
	})
}
