package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

var (
	initOnce sync.Once

	// HTTP
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// 结算/支付
	CheckoutsTotal            *prometheus.CounterVec
	PaymentConfirmationsTotal *prometheus.CounterVec
	PaymentConfirmDuration    prometheus.Histogram
	GatewayRequestsTotal      *prometheus.CounterVec
	CircuitBreakerState       *prometheus.GaugeVec

	// 订单
	OrderStatusTransitionsTotal *prometheus.CounterVec
	StagingOrdersSweptTotal     prometheus.Counter

	// 消息
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标（重复调用安全）
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP请求耗时（秒）",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "正在处理的HTTP请求数",
		})

		CheckoutsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checkouts_total",
				Help:      "结算（临时订单创建）次数",
			},
			[]string{"result"},
		)

		// result: confirmed | idempotent | amount_mismatch | rejected | failed
		PaymentConfirmationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_confirmations_total",
				Help:      "支付确认回调处理次数",
			},
			[]string{"result"},
		)

		PaymentConfirmDuration = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_confirm_duration_seconds",
			Help:      "支付确认全流程耗时（秒）",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		})

		GatewayRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_gateway_requests_total",
				Help:      "支付网关调用次数",
			},
			[]string{"operation", "result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		OrderStatusTransitionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "order_status_transitions_total",
				Help:      "订单状态流转次数",
			},
			[]string{"from", "to"},
		)

		StagingOrdersSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staging_orders_swept_total",
			Help:      "清理的过期临时订单数",
		})

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_published_total",
				Help:      "消息发布次数",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// Handler Prometheus抓取端点
func Handler() http.Handler {
	return promhttp.Handler()
}

// =========================================
// 业务代码使用的快捷函数
// 未调用InitMetrics时（如单元测试）静默跳过
// =========================================

// ObserveCheckout 记录一次结算结果
func ObserveCheckout(result string) {
	if CheckoutsTotal != nil {
		CheckoutsTotal.WithLabelValues(result).Inc()
	}
}

// ObservePaymentConfirmation 记录一次支付确认结果及耗时
func ObservePaymentConfirmation(result string, seconds float64) {
	if PaymentConfirmationsTotal == nil {
		return
	}
	PaymentConfirmationsTotal.WithLabelValues(result).Inc()
	PaymentConfirmDuration.Observe(seconds)
}

// ObserveGatewayRequest 记录一次网关调用
func ObserveGatewayRequest(operation, result string) {
	if GatewayRequestsTotal != nil {
		GatewayRequestsTotal.WithLabelValues(operation, result).Inc()
	}
}

// SetCircuitBreakerState 记录熔断器状态
func SetCircuitBreakerState(name string, state int) {
	if CircuitBreakerState != nil {
		CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	}
}

// ObserveOrderTransition 记录一次订单状态流转
func ObserveOrderTransition(from, to string) {
	if OrderStatusTransitionsTotal != nil {
		OrderStatusTransitionsTotal.WithLabelValues(from, to).Inc()
	}
}

// AddStagingSwept 累加清理的临时订单数
func AddStagingSwept(n int64) {
	if StagingOrdersSweptTotal != nil && n > 0 {
		StagingOrdersSweptTotal.Add(float64(n))
	}
}

// ObservePublish 记录一次消息发布
func ObservePublish(routingKey, result string) {
	if MessagesPublishedTotal != nil {
		MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
	}
}
