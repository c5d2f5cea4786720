package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apporder "github.com/xiebiao/storefront/internal/application/order"
	apppayment "github.com/xiebiao/storefront/internal/application/payment"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/storage"
	"github.com/xiebiao/storefront/internal/mocks"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/response"
)

const (
	testUserID  = uint(42)
	testOrderID = "202401150001"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter 模拟已登录用户
func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Next()
	})
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newPaymentHandler(temps *mocks.MockTemporaryRepository, orders *mocks.MockOrderRepository) *PaymentHandler {
	confirm := apppayment.NewConfirmPaymentUseCase(orders, temps,
		new(mocks.MockProductRepository), new(mocks.MockCartRepository), new(mocks.MockUserRepository),
		new(mocks.MockGateway), &mocks.Locker{}, &mocks.TxManager{}, new(mocks.MockEventPublisher), 30*time.Second)
	fail := apppayment.NewFailPaymentUseCase(temps, "https://shop.example.kr")
	return NewPaymentHandler(confirm, fail)
}

func TestPaymentHandler_FailRedirects(t *testing.T) {
	temps := new(mocks.MockTemporaryRepository)
	temps.On("DeleteForUser", mock.Anything, testUserID, testOrderID).Return(int64(1), nil)

	h := newPaymentHandler(temps, new(mocks.MockOrderRepository))
	r := newRouter()
	r.GET("/payments/fail", h.Fail)

	q := url.Values{"orderId": {testOrderID}, "code": {"PAY_PROCESS_CANCELED"}, "message": {"사용자가 결제를 취소했습니다"}}
	w := serve(r, http.MethodGet, "/payments/fail?"+q.Encode(), "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t,
		"https://shop.example.kr/payments/fail?message="+url.QueryEscape("사용자가 결제를 취소했습니다"),
		w.Header().Get("Location"))
	temps.AssertExpectations(t)
}

func TestPaymentHandler_SuccessAmountMismatch(t *testing.T) {
	temps := new(mocks.MockTemporaryRepository)
	orders := new(mocks.MockOrderRepository)
	orders.On("FindByOrderID", mock.Anything, testOrderID).Return(nil, order.ErrOrderNotFound)
	temps.On("FindByOrderID", mock.Anything, testOrderID).Return(&order.TemporaryOrder{
		OrderID:   testOrderID,
		UserID:    testUserID,
		Amount:    85000,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	h := newPaymentHandler(temps, orders)
	r := newRouter()
	r.GET("/payments/success", h.Success)

	w := serve(r, http.MethodGet, "/payments/success?paymentKey=tgen_1&orderId="+testOrderID+"&amount=85001", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, apperrors.ErrCodeAmountMismatch, decode(t, w).Code)
	orders.AssertExpectations(t)
	temps.AssertExpectations(t)
}

func TestPaymentHandler_SuccessBindError(t *testing.T) {
	h := newPaymentHandler(new(mocks.MockTemporaryRepository), new(mocks.MockOrderRepository))
	r := newRouter()
	r.GET("/payments/success", h.Success)

	w := serve(r, http.MethodGet, "/payments/success?orderId=2024&amount=100", "")
	resp := decode(t, w)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, resp.Code)
	assert.NotEmpty(t, resp.Data)
}

func TestOrderHandler_CancelNotAllowed(t *testing.T) {
	orders := new(mocks.MockOrderRepository)
	orders.On("FindByOrderID", mock.Anything, testOrderID).Return(&order.Order{
		OrderID: testOrderID,
		UserID:  testUserID,
		Status:  order.StatusDelivering,
	}, nil)

	h := NewOrderHandler(
		apporder.NewListOrdersUseCase(orders),
		apporder.NewGetOrderUseCase(orders),
		apporder.NewRequestCancelUseCase(orders, new(mocks.MockEventPublisher)),
	)
	r := newRouter()
	r.POST("/orders/:id/cancel", h.CancelOrder)

	w := serve(r, http.MethodPost, "/orders/"+testOrderID+"/cancel", "")
	assert.Equal(t, apperrors.ErrCodeCancelNotAllowed, decode(t, w).Code)
	orders.AssertNotCalled(t, "CompareAndSetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminHandler_UpdateTrackingPartial(t *testing.T) {
	orders := new(mocks.MockOrderRepository)
	number := "6091-1234-5678"
	orders.On("UpdateTracking", mock.Anything, testOrderID, order.TrackingUpdate{Number: &number}).Return(nil)
	orders.On("FindByOrderID", mock.Anything, testOrderID).Return(&order.Order{
		OrderID:         testOrderID,
		UserID:          7,
		Status:          order.StatusDelivering,
		TrackingCompany: "CJ대한통운",
		TrackingNumber:  number,
	}, nil)

	h := NewAdminHandler(nil, nil, nil, nil, apporder.NewUpdateTrackingUseCase(orders))
	r := newRouter()
	r.PATCH("/admin/orders/tracking", h.UpdateTracking)

	w := serve(r, http.MethodPatch, "/admin/orders/tracking", `{"orderId":"`+testOrderID+`","trackingNumber":"`+number+`"}`)
	resp := decode(t, w)
	require.Equal(t, 0, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "CJ대한통운", data["tracking_company"])
	orders.AssertExpectations(t)
}

func TestAdminHandler_UpdateTrackingRequiresOrderID(t *testing.T) {
	h := NewAdminHandler(nil, nil, nil, nil, apporder.NewUpdateTrackingUseCase(new(mocks.MockOrderRepository)))
	r := newRouter()
	r.PATCH("/admin/orders/tracking", h.UpdateTracking)

	w := serve(r, http.MethodPatch, "/admin/orders/tracking", `{"trackingNumber":"1"}`)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, decode(t, w).Code)
}

func TestUintParam_Invalid(t *testing.T) {
	r := newRouter()
	r.GET("/products/:id", func(c *gin.Context) {
		if _, ok := uintParam(c, "id"); ok {
			response.Success(c, nil)
		}
	})

	assert.Equal(t, apperrors.ErrCodeInvalidParams, decode(t, serve(r, http.MethodGet, "/products/abc", "")).Code)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, decode(t, serve(r, http.MethodGet, "/products/0", "")).Code)
	assert.Equal(t, 0, decode(t, serve(r, http.MethodGet, "/products/3", "")).Code)
}

func TestFileHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "products"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products", "a1b2.jpg"), []byte("jpeg"), 0o644))

	cfg := &config.Config{Upload: config.UploadConfig{Dir: dir, CacheControl: "public, max-age=31536000, immutable"}}
	store, err := storage.NewLocalStore(cfg)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/files/*filepath", NewFileHandler(store, cfg).Serve)

	w := serve(r, http.MethodGet, "/files/products/a1b2.jpg", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg", w.Body.String())
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))

	w = serve(r, http.MethodGet, "/files/products/missing.jpg", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ErrCodeFileNotFound, decode(t, w).Code)
	assert.Empty(t, w.Header().Get("Cache-Control"))
}
