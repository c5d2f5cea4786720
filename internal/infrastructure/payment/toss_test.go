package payment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/payment"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

func newClient(t *testing.T, handler http.HandlerFunc, failures uint32) *TossClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTossClient(config.PaymentConfig{
		BaseURL:                    srv.URL,
		SecretKey:                  "test_sk_abc",
		Timeout:                    2 * time.Second,
		BreakerTimeout:             time.Minute,
		BreakerConsecutiveFailures: failures,
	})
}

func TestTossClient_Confirm(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments/pk_123", r.URL.Path)
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test_sk_abc:"))
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))

		var body map[string]interface{}
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "202401150001", body["orderId"])
		assert.EqualValues(t, 85000, body["amount"])

		_, _ = w.Write([]byte(`{"paymentKey":"pk_123","orderId":"202401150001","status":"DONE","method":"카드","totalAmount":85000,"approvedAt":"2024-01-15T10:00:00+09:00"}`))
	}, 0)

	conf, err := client.Confirm(context.Background(), "pk_123", "202401150001", 85000)
	require.NoError(t, err)
	assert.Equal(t, "DONE", conf.Status)
	assert.Equal(t, int64(85000), conf.TotalAmount)
	assert.False(t, conf.ApprovedAt.IsZero())
}

func TestTossClient_Confirm_Rejected(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"REJECT_CARD_COMPANY","message":"카드사에서 거절했습니다."}`))
	}, 1)

	// 业务拒绝不触发熔断
	for i := 0; i < 3; i++ {
		_, err := client.Confirm(context.Background(), "pk_123", "202401150001", 85000)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePaymentRejected))
		assert.Equal(t, "카드사에서 거절했습니다.", apperrors.GetAppError(err).Message)
	}
}

func TestTossClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}, 2)

	for i := 0; i < 2; i++ {
		_, err := client.Confirm(context.Background(), "pk", "202401150001", 1000)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGatewayError))
	}

	_, err := client.Confirm(context.Background(), "pk", "202401150001", 1000)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGatewayUnavail))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "熔断后不再请求网关")
}

func TestTossClient_Cancel(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/pk_9/cancel", r.URL.Path)
		var body cancelRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "고객 요청", body.CancelReason)
		_, _ = w.Write([]byte(`{"paymentKey":"pk_9","status":"CANCELED"}`))
	}, 0)

	require.NoError(t, client.Cancel(context.Background(), "pk_9", "고객 요청"))
}

var _ payment.Gateway = (*TossClient)(nil)
