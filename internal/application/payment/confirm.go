package payment

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/application/shared"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/payment"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/user"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/saga"
	"github.com/xiebiao/storefront/pkg/tracing"
)

const (
	stepGatewayConfirm = "gateway-confirm"
	stepCommitOrder    = "commit-order"

	compensateReason = "주문 처리 실패로 인한 자동 취소"
)

// ConfirmPaymentUseCase 支付确认用例(支付网关成功回调)
//
// 流程:
//  1. 按订单号加分布式锁，同一订单的并发回调只有一个能进入
//  2. 幂等检查：订单已存在且paymentKey相同时直接返回
//  3. 校验临时订单(归属、有效期、金额必须完全一致)
//  4. Saga：网关确认扣款 → 本地事务落单；落单失败时向网关发起取消
//  5. 发布order.paid事件
type ConfirmPaymentUseCase struct {
	orderRepo   order.Repository
	tempRepo    order.TemporaryRepository
	productRepo product.Repository
	cartRepo    cart.Repository
	userRepo    user.Repository
	gateway     payment.Gateway
	locker      payment.Locker
	txManager   shared.TxManager
	events      order.EventPublisher
	lockTTL     time.Duration
	now         func() time.Time
}

// NewConfirmPaymentUseCase 创建支付确认用例
func NewConfirmPaymentUseCase(
	orderRepo order.Repository,
	tempRepo order.TemporaryRepository,
	productRepo product.Repository,
	cartRepo cart.Repository,
	userRepo user.Repository,
	gateway payment.Gateway,
	locker payment.Locker,
	txManager shared.TxManager,
	events order.EventPublisher,
	lockTTL time.Duration,
) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{
		orderRepo:   orderRepo,
		tempRepo:    tempRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		locker:      locker,
		txManager:   txManager,
		events:      events,
		lockTTL:     lockTTL,
		now:         time.Now,
	}
}

// ConfirmPaymentRequest 支付确认请求(网关回调的query参数)
type ConfirmPaymentRequest struct {
	UserID     uint
	PaymentKey string
	OrderID    string
	Amount     int64
}

// ConfirmPaymentResponse 支付确认响应
type ConfirmPaymentResponse struct {
	OrderID          string `json:"order_id"`
	OrderName        string `json:"order_name"`
	TotalAmount      int64  `json:"total_amount"`
	Status           string `json:"status"`
	StatusLabel      string `json:"status_label"`
	Method           string `json:"method,omitempty"`
	AlreadyConfirmed bool   `json:"already_confirmed"` // 重复回调时为true
}

// Execute 执行支付确认
func (uc *ConfirmPaymentUseCase) Execute(ctx context.Context, req ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "payment", "ConfirmPayment")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", req.OrderID),
		attribute.Int64("payment.amount", req.Amount),
	)

	resp, err := uc.confirm(ctx, req)

	metrics.ObservePaymentConfirmation(confirmResult(resp, err), time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperrors.GetAppError(err).Message)
		return nil, err
	}
	return resp, nil
}

func (uc *ConfirmPaymentUseCase) confirm(ctx context.Context, req ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	if !order.IsValidOrderID(req.OrderID) {
		return nil, order.ErrInvalidOrderID
	}
	if req.PaymentKey == "" || req.Amount <= 0 {
		return nil, apperrors.ErrInvalidParams
	}

	release, err := uc.locker.Acquire(ctx, req.OrderID, uc.lockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			zap.L().Warn("释放支付锁失败", zap.String("order_id", req.OrderID), zap.Error(err))
		}
	}()

	// 幂等：网关可能重复回调，用户也可能刷新成功页
	existing, err := uc.orderRepo.FindByOrderID(ctx, req.OrderID)
	switch {
	case err == nil:
		if existing.IsOwnedBy(req.UserID) && existing.PaymentKey == req.PaymentKey {
			return toResponse(existing, "", true), nil
		}
		return nil, order.ErrOrderAlreadyExists
	case !errors.Is(err, order.ErrOrderNotFound):
		return nil, err
	}

	tmp, err := uc.loadStaging(ctx, req)
	if err != nil {
		return nil, err
	}
	if !tmp.MatchesAmount(req.Amount) {
		zap.L().Warn("支付金额与临时订单不一致",
			zap.String("order_id", req.OrderID),
			zap.Int64("expected", tmp.Amount),
			zap.Int64("actual", req.Amount),
		)
		return nil, payment.ErrAmountMismatch
	}

	newOrder := order.NewFromStaging(tmp, req.PaymentKey)
	var confirmation *payment.Confirmation

	s := saga.NewSaga("confirm-payment", 0).
		AddStep(stepGatewayConfirm,
			func(ctx context.Context) error {
				c, err := uc.gateway.Confirm(ctx, req.PaymentKey, req.OrderID, req.Amount)
				confirmation = c
				return err
			},
			func(ctx context.Context) error {
				return uc.gateway.Cancel(ctx, req.PaymentKey, compensateReason)
			},
		).
		AddStep(stepCommitOrder,
			func(ctx context.Context) error {
				return uc.commit(ctx, tmp, newOrder)
			},
			nil,
		)

	if err := s.Execute(ctx); err != nil {
		return nil, uc.handleSagaFailure(ctx, req, err)
	}

	uc.events.OrderPaid(ctx, order.PaidEvent{
		OrderID:     newOrder.OrderID,
		UserID:      newOrder.UserID,
		PaymentKey:  newOrder.PaymentKey,
		TotalAmount: newOrder.TotalAmount,
		OccurredAt:  uc.now(),
	})

	zap.L().Info("支付确认完成",
		zap.String("order_id", newOrder.OrderID),
		zap.Uint("user_id", newOrder.UserID),
		zap.Int64("amount", newOrder.TotalAmount),
	)

	method := ""
	if confirmation != nil {
		method = confirmation.Method
	}
	return toResponse(newOrder, method, false), nil
}

// loadStaging 读取临时订单，过期的直接删除
func (uc *ConfirmPaymentUseCase) loadStaging(ctx context.Context, req ConfirmPaymentRequest) (*order.TemporaryOrder, error) {
	tmp, err := uc.tempRepo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !tmp.BelongsTo(req.UserID) {
		return nil, order.ErrStagingNotFound
	}
	if tmp.IsExpired(uc.now()) {
		if err := uc.tempRepo.Delete(ctx, req.OrderID); err != nil {
			zap.L().Warn("删除过期临时订单失败", zap.String("order_id", req.OrderID), zap.Error(err))
		}
		return nil, order.ErrStagingExpired
	}
	return tmp, nil
}

// commit 在同一事务中落单
// 创建订单 → 扣减库存 → 保存默认地址 → 清除已购购物车行 → 删除临时订单
func (uc *ConfirmPaymentUseCase) commit(ctx context.Context, tmp *order.TemporaryOrder, o *order.Order) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Create(txCtx, o); err != nil {
			return err
		}

		// 与取消时相同，按商品ID顺序加行锁
		deductions := tmp.Snapshot.StockDeductions()
		for _, productID := range slices.Sorted(maps.Keys(deductions)) {
			if err := uc.productRepo.UpdateStock(txCtx, productID, -deductions[productID]); err != nil {
				return err
			}
		}

		if tmp.Snapshot.SaveAsDefaultAddress {
			d := tmp.Snapshot.Delivery
			addr := user.Address{
				RecipientName: d.RecipientName,
				Phone:         d.Phone,
				PostalCode:    d.PostalCode,
				Address:       d.Address,
				AddressDetail: d.AddressDetail,
			}
			if err := uc.userRepo.UpdateDefaultAddress(txCtx, tmp.UserID, addr); err != nil {
				return err
			}
		}

		if ids := tmp.Snapshot.CartItemIDs(); len(ids) > 0 {
			if _, err := uc.cartRepo.DeleteItems(txCtx, tmp.UserID, ids); err != nil {
				return err
			}
		}

		return uc.tempRepo.Delete(txCtx, tmp.OrderID)
	})
}

// handleSagaFailure 处理Saga失败
// 网关拒绝时临时订单已无意义，直接删除；超时、熔断等暂时性错误保留，用户可以重试
func (uc *ConfirmPaymentUseCase) handleSagaFailure(ctx context.Context, req ConfirmPaymentRequest, err error) error {
	var execErr *saga.ExecutionError
	if !errors.As(err, &execErr) {
		return err
	}

	if execErr.Step == stepGatewayConfirm && isRejected(execErr.Cause) {
		if _, delErr := uc.tempRepo.DeleteForUser(context.WithoutCancel(ctx), req.UserID, req.OrderID); delErr != nil {
			zap.L().Warn("删除临时订单失败", zap.String("order_id", req.OrderID), zap.Error(delErr))
		}
	}

	if execErr.CompensationErr != nil {
		// 已扣款但退款失败，需要人工处理
		zap.L().Error("支付已确认但订单落库失败且自动取消失败",
			zap.String("order_id", req.OrderID),
			zap.String("payment_key", req.PaymentKey),
			zap.Error(execErr.Cause),
			zap.NamedError("compensation_error", execErr.CompensationErr),
		)
	}
	return execErr.Cause
}

func toResponse(o *order.Order, method string, already bool) *ConfirmPaymentResponse {
	return &ConfirmPaymentResponse{
		OrderID:          o.OrderID,
		OrderName:        o.Content.OrderName,
		TotalAmount:      o.TotalAmount,
		Status:           string(o.Status),
		StatusLabel:      o.Status.Label(),
		Method:           method,
		AlreadyConfirmed: already,
	}
}

// confirmResult 指标标签
func confirmResult(resp *ConfirmPaymentResponse, err error) string {
	switch {
	case err == nil && resp.AlreadyConfirmed:
		return "duplicate"
	case err == nil:
		return "confirmed"
	case errors.Is(err, payment.ErrAmountMismatch):
		return "amount_mismatch"
	case isRejected(err):
		return "rejected"
	case errors.Is(err, payment.ErrPaymentInProgress):
		return "in_progress"
	default:
		return "error"
	}
}

// isRejected 网关拒绝(提示文案可能被替换为网关消息，按错误码判断)
func isRejected(err error) bool {
	return apperrors.IsCode(err, apperrors.ErrCodePaymentRejected)
}
