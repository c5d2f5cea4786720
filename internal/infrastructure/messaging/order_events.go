package messaging

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// publisher pkg/mq.Publisher的发布方法
type publisher interface {
	Publish(ctx context.Context, routingKey, messageID string, message interface{}) error
}

// OrderEvents 订单事件发布到RabbitMQ topic exchange
// publisher为nil时(mq.enabled=false)只记录Debug日志
type OrderEvents struct {
	publisher publisher
	timeout   time.Duration
}

// NewOrderEvents 创建订单事件发布器
func NewOrderEvents(p publisher) *OrderEvents {
	return &OrderEvents{publisher: p, timeout: 3 * time.Second}
}

var _ order.EventPublisher = (*OrderEvents)(nil)

// OrderPaid 发布支付完成事件，messageID取订单号保证消费端可去重
func (e *OrderEvents) OrderPaid(ctx context.Context, evt order.PaidEvent) {
	e.publish(ctx, order.EventOrderPaid, evt.OrderID, evt)
}

// StatusChanged 发布状态变化事件
func (e *OrderEvents) StatusChanged(ctx context.Context, evt order.StatusChangedEvent) {
	messageID := fmt.Sprintf("%s:%s:%s", evt.OrderID, evt.From, evt.To)
	e.publish(ctx, order.EventOrderStatusChanged, messageID, evt)
}

func (e *OrderEvents) publish(ctx context.Context, routingKey, messageID string, evt interface{}) {
	if e.publisher == nil {
		zap.L().Debug("消息队列未启用，跳过事件发布", zap.String("routing_key", routingKey), zap.String("message_id", messageID))
		return
	}

	// 请求结束后事件仍需发出
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	if err := e.publisher.Publish(ctx, routingKey, messageID, evt); err != nil {
		metrics.ObservePublish(routingKey, "error")
		zap.L().Error("订单事件发布失败",
			zap.String("routing_key", routingKey),
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		return
	}
	metrics.ObservePublish(routingKey, "success")
}
