package order

import (
	"context"
	"time"
)

// 事件路由键
const (
	EventOrderPaid          = "order.paid"
	EventOrderStatusChanged = "order.status_changed"
)

// PaidEvent 支付确认完成
type PaidEvent struct {
	OrderID     string    `json:"orderId"`
	UserID      uint      `json:"userId"`
	PaymentKey  string    `json:"paymentKey"`
	TotalAmount int64     `json:"totalAmount"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// StatusChangedEvent 订单状态变化
type StatusChangedEvent struct {
	OrderID    string    `json:"orderId"`
	UserID     uint      `json:"userId"`
	From       Status    `json:"from"`
	To         Status    `json:"to"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher 订单事件发布
// 事件发布失败不影响主流程，由实现方记录日志
type EventPublisher interface {
	OrderPaid(ctx context.Context, e PaidEvent)
	StatusChanged(ctx context.Context, e StatusChangedEvent)
}
