package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/payment"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/mocks"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

const (
	orderID    = "202401150001"
	paymentKey = "tgen_20240115_abc"
)

var now = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	orders   *mocks.MockOrderRepository
	temps    *mocks.MockTemporaryRepository
	products *mocks.MockProductRepository
	carts    *mocks.MockCartRepository
	users    *mocks.MockUserRepository
	gateway  *mocks.MockGateway
	events   *mocks.MockEventPublisher
	locker   *mocks.Locker
	tx       *mocks.TxManager
	uc       *ConfirmPaymentUseCase
}

func newFixture() *fixture {
	f := &fixture{
		orders:   new(mocks.MockOrderRepository),
		temps:    new(mocks.MockTemporaryRepository),
		products: new(mocks.MockProductRepository),
		carts:    new(mocks.MockCartRepository),
		users:    new(mocks.MockUserRepository),
		gateway:  new(mocks.MockGateway),
		events:   new(mocks.MockEventPublisher),
		locker:   &mocks.Locker{},
		tx:       &mocks.TxManager{},
	}
	f.uc = NewConfirmPaymentUseCase(f.orders, f.temps, f.products, f.carts, f.users,
		f.gateway, f.locker, f.tx, f.events, 30*time.Second)
	f.uc.now = func() time.Time { return now }
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.orders.AssertExpectations(t)
	f.temps.AssertExpectations(t)
	f.products.AssertExpectations(t)
	f.carts.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

// staged 原价100000，商品9折，5000원优惠券 → 85000
func staged(saveAddress bool) *order.TemporaryOrder {
	return &order.TemporaryOrder{
		OrderID: orderID,
		UserID:  42,
		Amount:  85000,
		Snapshot: order.Snapshot{
			OrderName: "에코백",
			Lines: []order.Line{{
				CartItemID: 100, ProductID: 7, Name: "에코백", Quantity: 2,
				UnitPrice: 50000, DiscountPercent: 10, DiscountedPrice: 45000, LineTotal: 90000,
			}},
			Delivery: order.Delivery{RecipientName: "김철수", Phone: "010-1234-5678", PostalCode: "06236", Address: "서울시 강남구", AddressDetail: "101호"},
			Price: order.Breakdown{
				OriginalSubtotal: 100000, ProductDiscount: 10000, Subtotal: 90000,
				CouponCode: "WELCOME5000", CouponDiscount: 5000, Total: 85000,
			},
			SaveAsDefaultAddress: saveAddress,
		},
		CreatedAt: now.Add(-5 * time.Minute),
		ExpiresAt: now.Add(25 * time.Minute),
	}
}

func request(amount int64) ConfirmPaymentRequest {
	return ConfirmPaymentRequest{UserID: 42, PaymentKey: paymentKey, OrderID: orderID, Amount: amount}
}

func TestConfirmPaymentUseCase_Execute(t *testing.T) {
	tests := []struct {
		name       string
		req        ConfirmPaymentRequest
		setupMocks func(f *fixture)
		wantErr    error
		wantCode   int
		check      func(t *testing.T, resp *ConfirmPaymentResponse, f *fixture)
	}{
		{
			name: "金额一致，确认成功并落单",
			req:  request(85000),
			setupMocks: func(f *fixture) {
				f.orders.On("FindByOrderID", mock.Anything, orderID).Return(nil, order.ErrOrderNotFound)
				f.temps.On("FindByOrderID", mock.Anything, orderID).Return(staged(true), nil)
				f.gateway.On("Confirm", mock.Anything, paymentKey, orderID, int64(85000)).
					Return(&payment.Confirmation{PaymentKey: paymentKey, OrderID: orderID, Status: "DONE", Method: "카드", TotalAmount: 85000}, nil)
				f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
					return o.OrderID == orderID &&
						o.Status == order.StatusPendingDelivery &&
						o.PaymentKey == paymentKey &&
						o.TotalAmount == 85000 &&
						o.Content.Price.CouponDiscount == 5000 &&
						o.Delivery.RecipientName == "김철수"
				})).Return(nil)
				f.products.On("UpdateStock", mock.Anything, uint(7), -2).Return(nil)
				f.users.On("UpdateDefaultAddress", mock.Anything, uint(42), user.Address{
					RecipientName: "김철수", Phone: "010-1234-5678", PostalCode: "06236", Address: "서울시 강남구", AddressDetail: "101호",
				}).Return(nil)
				f.carts.On("DeleteItems", mock.Anything, uint(42), []uint{100}).Return(int64(1), nil)
				f.temps.On("Delete", mock.Anything, orderID).Return(nil)
				f.events.On("OrderPaid", mock.Anything, mock.MatchedBy(func(e order.PaidEvent) bool {
					return e.OrderID == orderID && e.TotalAmount == 85000 && e.UserID == 42
				})).Return()
			},
			check: func(t *testing.T, resp *ConfirmPaymentResponse, f *fixture) {
				assert.Equal(t, orderID, resp.OrderID)
				assert.Equal(t, int64(85000), resp.TotalAmount)
				assert.Equal(t, "PENDING_DELIVERY", resp.Status)
				assert.Equal(t, "카드", resp.Method)
				assert.False(t, resp.AlreadyConfirmed)
				assert.Equal(t, 1, f.tx.Calls)
			},
		},
		{
			name: "金额不一致，不调用网关也不删除临时订单",
			req:  request(85001),
			setupMocks: func(f *fixture) {
				f.orders.On("FindByOrderID", mock.Anything, orderID).Return(nil, order.ErrOrderNotFound)
				f.temps.On("FindByOrderID", mock.Anything, orderID).Return(staged(false), nil)
			},
			wantErr: payment.ErrAmountMismatch,
		},
		{
			name: "重复回调返回已有订单",
			req:  request(85000),
			setupMocks: func(f *fixture) {
				f.orders.On("FindByOrderID", mock.Anything, orderID).Return(&order.Order{
					OrderID: orderID, UserID: 42, PaymentKey: paymentKey, TotalAmount: 85000,
					Status: order.StatusPendingDelivery, Content: order.Content{OrderName: "에코백"},
				}, nil)
			},
			check: func(t *testing.T, resp *ConfirmPaymentResponse, f *fixture) {
				assert.True(t, resp.AlreadyConfirmed)
				assert.Equal(t, "에코백", resp.OrderName)
				assert.Equal(t, 0, f.tx.Calls)
			},
		},
		{
			name: "同订单号不同paymentKey",
			req:  request(85000),
			setupMocks: func(f *fixture) {
				f.orders.On("FindByOrderID", mock.Anything, orderID).Return(&order.Order{
					OrderID: orderID, UserID: 42, PaymentKey: "other_key",
				}, nil)
			},
			wantErr: order.ErrOrderAlreadyExists,
		},
		{
			name: "网关拒绝时删除临时订单",
			req:  request(85000),
			setupMocks: func(f *fixture) {
				rejected := payment.ErrPaymentRejected.WithErr(errors.New("REJECT_CARD_COMPANY"))
				rejected.Message = "카드사에서 승인을 거절했습니다."
				f.orders.On("FindByOrderID", mock.Anything, orderID).Return(nil, order.ErrOrderNotFound)
				f.temps.On("FindByOrderID", mock.Anything, orderID).Return(staged(false), nil)
				f.gateway.On("Confirm", mock.Anything, paymentKey, orderID, int64(85000)).Return(nil, rejected)
				f.temps.On("DeleteForUser", mock.Anything, uint(42), orderID).Return(int64(1), nil)
			},
			wantCode: apperrors.ErrCodePaymentRejected,
		},
		{
			name: "网关熔断时保留临时订单",
			req:  request(85000),
			setupMocks: func(f *fixture) {
				f.orders.On("FindByOrderID", mock.Anything, orderID).Return(nil, order.ErrOrderNotFound)
				f.temps.On("FindByOrderID", mock.Anything, orderID).Return(staged(false), nil)
				f.gateway.On("Confirm", mock.Anything, paymentKey, orderID, int64(85000)).Return(nil, payment.ErrGatewayUnavailable)
			},
			wantErr: payment.ErrGatewayUnavailable,
		},
		{
			name: "库存不足时回滚并向网关取消",
			req:  request(85000),
			setupMocks: func(f *fixture) {
				f.orders.On("FindByOrderID", mock.Anything, orderID).Return(nil, order.ErrOrderNotFound)
				f.temps.On("FindByOrderID", mock.Anything, orderID).Return(staged(false), nil)
				f.gateway.On("Confirm", mock.Anything, paymentKey, orderID, int64(85000)).
					Return(&payment.Confirmation{PaymentKey: paymentKey, Status: "DONE"}, nil)
				f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
				f.products.On("UpdateStock", mock.Anything, uint(7), -2).Return(product.ErrInsufficientStock)
				f.gateway.On("Cancel", mock.Anything, paymentKey, compensateReason).Return(nil)
			},
			wantErr: product.ErrInsufficientStock,
		},
		{
			name: "临时订单已过期",
			req:  request(85000),
			setupMocks: func(f *fixture) {
				tmp := staged(false)
				tmp.ExpiresAt = now.Add(-time.Second)
				f.orders.On("FindByOrderID", mock.Anything, orderID).Return(nil, order.ErrOrderNotFound)
				f.temps.On("FindByOrderID", mock.Anything, orderID).Return(tmp, nil)
				f.temps.On("Delete", mock.Anything, orderID).Return(nil)
			},
			wantErr: order.ErrStagingExpired,
		},
		{
			name: "临时订单属于其他用户",
			req:  ConfirmPaymentRequest{UserID: 7, PaymentKey: paymentKey, OrderID: orderID, Amount: 85000},
			setupMocks: func(f *fixture) {
				f.orders.On("FindByOrderID", mock.Anything, orderID).Return(nil, order.ErrOrderNotFound)
				f.temps.On("FindByOrderID", mock.Anything, orderID).Return(staged(false), nil)
			},
			wantErr: order.ErrStagingNotFound,
		},
		{
			name:       "订单号格式错误",
			req:        ConfirmPaymentRequest{UserID: 42, PaymentKey: paymentKey, OrderID: "abc", Amount: 85000},
			setupMocks: func(f *fixture) {},
			wantErr:    order.ErrInvalidOrderID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			resp, err := f.uc.Execute(context.Background(), tt.req)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
			case tt.wantCode != 0:
				assert.True(t, apperrors.IsCode(err, tt.wantCode), "unexpected error: %v", err)
				assert.Nil(t, resp)
			default:
				require.NoError(t, err)
				tt.check(t, resp, f)
			}
			assert.Empty(t, f.locker.Held, "锁必须释放")
			f.assertExpectations(t)
		})
	}
}

func TestConfirmPaymentUseCase_DeductsStockInProductOrder(t *testing.T) {
	f := newFixture()
	tmp := staged(false)
	tmp.Snapshot.Lines = []order.Line{
		{CartItemID: 101, ProductID: 9, Name: "에코백", Quantity: 2},
		{CartItemID: 102, ProductID: 3, Name: "머그컵", Quantity: 1},
		{CartItemID: 103, ProductID: 9, Name: "에코백", Option: "블랙", Quantity: 1},
	}

	var deducted []uint
	record := func(args mock.Arguments) { deducted = append(deducted, args.Get(1).(uint)) }

	f.orders.On("FindByOrderID", mock.Anything, orderID).Return(nil, order.ErrOrderNotFound)
	f.temps.On("FindByOrderID", mock.Anything, orderID).Return(tmp, nil)
	f.gateway.On("Confirm", mock.Anything, paymentKey, orderID, int64(85000)).
		Return(&payment.Confirmation{PaymentKey: paymentKey, OrderID: orderID, Status: "DONE", Method: "카드", TotalAmount: 85000}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.products.On("UpdateStock", mock.Anything, uint(3), -1).Run(record).Return(nil).Once()
	f.products.On("UpdateStock", mock.Anything, uint(9), -3).Run(record).Return(nil).Once()
	f.carts.On("DeleteItems", mock.Anything, uint(42), []uint{101, 102, 103}).Return(int64(3), nil)
	f.temps.On("Delete", mock.Anything, orderID).Return(nil)
	f.events.On("OrderPaid", mock.Anything, mock.Anything).Return()

	_, err := f.uc.Execute(context.Background(), request(85000))

	require.NoError(t, err)
	assert.Equal(t, []uint{3, 9}, deducted, "同一商品合并扣减，并按商品ID升序加锁")
	f.assertExpectations(t)
}

func TestConfirmPaymentUseCase_LockHeld(t *testing.T) {
	f := newFixture()
	f.locker.Held = map[string]bool{orderID: true}

	_, err := f.uc.Execute(context.Background(), request(85000))

	assert.ErrorIs(t, err, payment.ErrPaymentInProgress)
	f.orders.AssertNotCalled(t, "FindByOrderID", mock.Anything, mock.Anything)
}

func TestFailPaymentUseCase_Execute(t *testing.T) {
	temps := new(mocks.MockTemporaryRepository)
	temps.On("DeleteForUser", mock.Anything, uint(42), orderID).Return(int64(1), nil)
	uc := NewFailPaymentUseCase(temps, "https://shop.example.kr/")

	target := uc.Execute(context.Background(), FailPaymentRequest{
		UserID: 42, OrderID: orderID, Code: "PAY_PROCESS_CANCELED", Message: "사용자가 결제를 취소했습니다",
	})

	assert.Equal(t, "https://shop.example.kr/payments/fail?message=%EC%82%AC%EC%9A%A9%EC%9E%90%EA%B0%80+%EA%B2%B0%EC%A0%9C%EB%A5%BC+%EC%B7%A8%EC%86%8C%ED%96%88%EC%8A%B5%EB%8B%88%EB%8B%A4", target)
	temps.AssertExpectations(t)
}

func TestFailPaymentUseCase_StagingMissingStillRedirects(t *testing.T) {
	temps := new(mocks.MockTemporaryRepository)
	temps.On("DeleteForUser", mock.Anything, uint(42), orderID).Return(int64(0), errors.New("db down"))
	uc := NewFailPaymentUseCase(temps, "https://shop.example.kr")

	target := uc.Execute(context.Background(), FailPaymentRequest{UserID: 42, OrderID: orderID})

	assert.Contains(t, target, "https://shop.example.kr/payments/fail?message=")
}
