package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/payment"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/tracing"
)

// TossClient 토스페이먼츠 결제 승인/취소客户端
// 1. Basic认证：base64(secretKey + ":")
// 2. 所有调用经过熔断器，网关的业务性拒绝(4xx)不计入熔断失败
type TossClient struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// Option TossClient可选项
type Option func(*TossClient)

// WithHTTPClient 替换HTTP客户端(测试用)
func WithHTTPClient(c *http.Client) Option {
	return func(t *TossClient) { t.httpClient = c }
}

// NewTossClient 创建网关客户端
func NewTossClient(cfg config.PaymentConfig, opts ...Option) *TossClient {
	c := &TossClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.SecretKey+":")),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}

	c.breaker = circuitbreaker.NewCircuitBreaker("toss-payments", circuitbreaker.Config{
		Threshold: cfg.BreakerConsecutiveFailures,
		Window:    cfg.BreakerInterval,
		Cooldown:  cfg.BreakerTimeout,
		Probes:    cfg.BreakerMaxRequests,
		IsFailure: func(err error) bool {
			// 网关正常响应了拒绝结果，说明网关本身是健康的
			return err != nil && !isRejected(err)
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			zap.L().Warn("支付网关熔断器状态变化",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ payment.Gateway = (*TossClient)(nil)

type confirmRequest struct {
	OrderID string `json:"orderId"`
	Amount  int64  `json:"amount"`
}

type cancelRequest struct {
	CancelReason string `json:"cancelReason"`
}

type paymentResponse struct {
	PaymentKey  string `json:"paymentKey"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	Method      string `json:"method"`
	TotalAmount int64  `json:"totalAmount"`
	ApprovedAt  string `json:"approvedAt"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Confirm 결제 승인
// POST {base}/v1/payments/{paymentKey}  body: {orderId, amount}
func (c *TossClient) Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*payment.Confirmation, error) {
	ctx, span := tracing.StartSpan(ctx, "payment", "toss.confirm")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", orderID), attribute.Int64("amount", amount))

	var resp paymentResponse
	path := "/v1/payments/" + url.PathEscape(paymentKey)
	err := c.call(ctx, "confirm", path, confirmRequest{OrderID: orderID, Amount: amount}, &resp)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	conf := &payment.Confirmation{
		PaymentKey:  resp.PaymentKey,
		OrderID:     resp.OrderID,
		Status:      resp.Status,
		Method:      resp.Method,
		TotalAmount: resp.TotalAmount,
	}
	if t, perr := time.Parse(time.RFC3339, resp.ApprovedAt); perr == nil {
		conf.ApprovedAt = t
	}
	return conf, nil
}

// Cancel 결제 취소(全额)
// POST {base}/v1/payments/{paymentKey}/cancel  body: {cancelReason}
func (c *TossClient) Cancel(ctx context.Context, paymentKey, reason string) error {
	ctx, span := tracing.StartSpan(ctx, "payment", "toss.cancel")
	defer span.End()

	path := "/v1/payments/" + url.PathEscape(paymentKey) + "/cancel"
	if err := c.call(ctx, "cancel", path, cancelRequest{CancelReason: reason}, nil); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// call 在熔断器保护下发起请求
func (c *TossClient) call(ctx context.Context, operation, path string, body, out interface{}) error {
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, path, body, out)
	})

	switch {
	case err == nil:
		metrics.ObserveGatewayRequest(operation, "success")
		return nil
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.ObserveGatewayRequest(operation, "breaker_open")
		return payment.ErrGatewayUnavailable.WithErr(err)
	case isRejected(err):
		metrics.ObserveGatewayRequest(operation, "rejected")
		return err
	default:
		metrics.ObserveGatewayRequest(operation, "error")
		return err
	}
}

// isRejected 网关的业务性拒绝(消息可能被替换为网关提示，按错误码判断)
func isRejected(err error) bool {
	return apperrors.IsCode(err, apperrors.ErrCodePaymentRejected)
}

func (c *TossClient) do(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.Wrap(err, "序列化网关请求失败")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Wrap(err, "创建网关请求失败")
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return payment.ErrGateway.WithErr(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return payment.ErrGateway.WithErr(err)
	}

	if resp.StatusCode >= 500 {
		return payment.ErrGateway.WithErr(fmt.Errorf("gateway status %d: %s", resp.StatusCode, raw))
	}
	if resp.StatusCode >= 400 {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		zap.L().Warn("支付网关拒绝请求",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("gateway_code", e.Code),
			zap.String("gateway_message", e.Message),
		)
		rejected := payment.ErrPaymentRejected.WithErr(fmt.Errorf("%s: %s", e.Code, e.Message))
		if e.Message != "" {
			// 网关返回的提示可以直接展示给用户
			rejected.Message = e.Message
		}
		return rejected
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return payment.ErrGateway.WithErr(fmt.Errorf("解析网关响应失败: %w", err))
		}
	}
	return nil
}
