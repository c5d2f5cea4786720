package payment

import (
	"context"
	"time"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Confirmation 支付网关确认结果
type Confirmation struct {
	PaymentKey  string
	OrderID     string
	Status      string // DONE等网关状态
	Method      string
	TotalAmount int64
	ApprovedAt  time.Time
}

// Gateway 支付网关接口
// 实现位于infrastructure/payment，application层只依赖此接口
type Gateway interface {
	// Confirm 确认支付(真正扣款)，网关拒绝时返回ErrPaymentRejected
	Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*Confirmation, error)

	// Cancel 取消/退款整笔支付
	Cancel(ctx context.Context, paymentKey, reason string) error
}

var (
	ErrPaymentRejected    = apperrors.New(apperrors.ErrCodePaymentRejected, "결제 승인에 실패했습니다.")
	ErrGatewayUnavailable = apperrors.New(apperrors.ErrCodeGatewayUnavail, "결제 시스템이 일시적으로 불안정합니다. 잠시 후 다시 시도해주세요.")
	ErrGateway            = apperrors.New(apperrors.ErrCodeGatewayError, "결제 처리 중 오류가 발생했습니다.")
	ErrPaymentInProgress  = apperrors.New(apperrors.ErrCodePaymentInProgress, "결제가 처리 중입니다.")
	ErrAmountMismatch     = apperrors.New(apperrors.ErrCodeAmountMismatch, "결제 금액이 일치하지 않습니다.")
)

// Locker 订单级分布式锁(防止同一订单被并发确认)
type Locker interface {
	// Acquire 加锁，已被占用时返回ErrPaymentInProgress；返回的release用于解锁
	Acquire(ctx context.Context, orderID string, ttl time.Duration) (release func(context.Context) error, err error)
}
