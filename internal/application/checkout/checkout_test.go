package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/coupon"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/mocks"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

var kst = time.FixedZone("KST", 9*60*60)

type fixture struct {
	carts    *mocks.MockCartRepository
	products *mocks.MockProductRepository
	coupons  *mocks.MockCouponRepository
	users    *mocks.MockUserRepository
	temps    *mocks.MockTemporaryRepository
	seq      *mocks.MockSequenceRepository
	uc       *CheckoutUseCase
}

func newFixture() *fixture {
	f := &fixture{
		carts:    new(mocks.MockCartRepository),
		products: new(mocks.MockProductRepository),
		coupons:  new(mocks.MockCouponRepository),
		users:    new(mocks.MockUserRepository),
		temps:    new(mocks.MockTemporaryRepository),
		seq:      new(mocks.MockSequenceRepository),
	}
	ids := NewOrderIDGenerator(f.seq, kst)
	ids.now = func() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, kst) }
	f.uc = NewCheckoutUseCase(f.carts, f.products, f.coupons, f.users, f.temps, ids, 30*time.Minute)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.carts.AssertExpectations(t)
	f.products.AssertExpectations(t)
	f.coupons.AssertExpectations(t)
	f.temps.AssertExpectations(t)
	f.seq.AssertExpectations(t)
}

func ecoBag() *product.Product {
	return &product.Product{ID: 7, Name: "에코백", Price: 50000, DiscountPercent: 10, Stock: 10, Status: product.StatusActive}
}

func userCart() *cart.Cart {
	return &cart.Cart{ID: 1, UserID: 42, Items: []cart.Item{{ID: 100, CartID: 1, ProductID: 7, Quantity: 2}}}
}

func flat(amount int64) *coupon.Coupon {
	return &coupon.Coupon{Code: "WELCOME5000", Name: "가입 축하", DiscountAmount: &amount, Active: true}
}

func TestCheckoutUseCase_Execute(t *testing.T) {
	delivery := order.Delivery{RecipientName: "김철수", Phone: "010-1234-5678", PostalCode: "06236", Address: "서울시 강남구"}

	tests := []struct {
		name       string
		req        CheckoutRequest
		setupMocks func(f *fixture)
		wantErr    error
		check      func(t *testing.T, resp *CheckoutResponse, f *fixture)
	}{
		{
			name: "商品折扣+定额优惠券 100000→90000→85000",
			req:  CheckoutRequest{UserID: 42, Delivery: delivery, CouponCode: " welcome5000 ", SaveAsDefaultAddress: true},
			setupMocks: func(f *fixture) {
				f.carts.On("FindByUserID", mock.Anything, uint(42)).Return(userCart(), nil)
				f.products.On("FindByIDs", mock.Anything, []uint{7}).Return(map[uint]*product.Product{7: ecoBag()}, nil)
				f.coupons.On("FindByCode", mock.Anything, "WELCOME5000").Return(flat(5000), nil)
				f.seq.On("Next", mock.Anything, "20240115").Return(int64(1), nil)
				f.temps.On("Create", mock.Anything, mock.MatchedBy(func(tmp *order.TemporaryOrder) bool {
					return tmp.OrderID == "202401150001" &&
						tmp.Amount == 85000 &&
						tmp.Snapshot.Price.OriginalSubtotal == 100000 &&
						tmp.Snapshot.Price.Subtotal == 90000 &&
						tmp.Snapshot.Price.CouponDiscount == 5000 &&
						tmp.Snapshot.SaveAsDefaultAddress &&
						tmp.Snapshot.Lines[0].CartItemID == 100
				})).Return(nil)
				f.users.On("FindByID", mock.Anything, uint(42)).Return(&user.User{ID: 42, Nickname: "철수"}, nil)
			},
			check: func(t *testing.T, resp *CheckoutResponse, f *fixture) {
				assert.Equal(t, "202401150001", resp.OrderID)
				assert.Equal(t, int64(85000), resp.Amount)
				assert.Equal(t, "에코백", resp.OrderName)
				assert.Equal(t, "철수", resp.CustomerName)
			},
		},
		{
			name: "优惠券抵扣后应付0元不暂存",
			req:  CheckoutRequest{UserID: 42, Delivery: delivery, CouponCode: "allfree"},
			setupMocks: func(f *fixture) {
				f.carts.On("FindByUserID", mock.Anything, uint(42)).Return(userCart(), nil)
				f.products.On("FindByIDs", mock.Anything, []uint{7}).Return(map[uint]*product.Product{7: ecoBag()}, nil)
				f.coupons.On("FindByCode", mock.Anything, "ALLFREE").Return(flat(200000), nil)
			},
			wantErr: order.ErrZeroAmount,
			check: func(t *testing.T, _ *CheckoutResponse, f *fixture) {
				f.seq.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
				f.temps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name: "空购物车",
			req:  CheckoutRequest{UserID: 42, Delivery: delivery},
			setupMocks: func(f *fixture) {
				f.carts.On("FindByUserID", mock.Anything, uint(42)).Return(&cart.Cart{UserID: 42}, nil)
			},
			wantErr: cart.ErrEmptyCart,
		},
		{
			name: "商品已下架",
			req:  CheckoutRequest{UserID: 42, Delivery: delivery},
			setupMocks: func(f *fixture) {
				p := ecoBag()
				p.Status = product.StatusInactive
				f.carts.On("FindByUserID", mock.Anything, uint(42)).Return(userCart(), nil)
				f.products.On("FindByIDs", mock.Anything, []uint{7}).Return(map[uint]*product.Product{7: p}, nil)
			},
			wantErr: product.ErrProductUnavailable,
		},
		{
			name: "商品已被删除",
			req:  CheckoutRequest{UserID: 42, Delivery: delivery},
			setupMocks: func(f *fixture) {
				f.carts.On("FindByUserID", mock.Anything, uint(42)).Return(userCart(), nil)
				f.products.On("FindByIDs", mock.Anything, []uint{7}).Return(map[uint]*product.Product{}, nil)
			},
			wantErr: product.ErrProductNotFound,
		},
		{
			name: "无效优惠券",
			req:  CheckoutRequest{UserID: 42, Delivery: delivery, CouponCode: "NOPE"},
			setupMocks: func(f *fixture) {
				f.carts.On("FindByUserID", mock.Anything, uint(42)).Return(userCart(), nil)
				f.products.On("FindByIDs", mock.Anything, []uint{7}).Return(map[uint]*product.Product{7: ecoBag()}, nil)
				f.coupons.On("FindByCode", mock.Anything, "NOPE").Return(nil, coupon.ErrInvalidCoupon)
			},
			wantErr: coupon.ErrInvalidCoupon,
		},
		{
			name: "当日序号用尽",
			req:  CheckoutRequest{UserID: 42, Delivery: delivery},
			setupMocks: func(f *fixture) {
				f.carts.On("FindByUserID", mock.Anything, uint(42)).Return(userCart(), nil)
				f.products.On("FindByIDs", mock.Anything, []uint{7}).Return(map[uint]*product.Product{7: ecoBag()}, nil)
				f.seq.On("Next", mock.Anything, "20240115").Return(int64(10000), nil)
			},
			wantErr: order.ErrDailySequenceExhausted,
		},
		{
			name: "订单号冲突后重新分配",
			req:  CheckoutRequest{UserID: 42, Delivery: delivery},
			setupMocks: func(f *fixture) {
				f.carts.On("FindByUserID", mock.Anything, uint(42)).Return(userCart(), nil)
				f.products.On("FindByIDs", mock.Anything, []uint{7}).Return(map[uint]*product.Product{7: ecoBag()}, nil)
				f.seq.On("Next", mock.Anything, "20240115").Return(int64(5), nil).Once()
				f.seq.On("Next", mock.Anything, "20240115").Return(int64(6), nil).Once()
				f.temps.On("Create", mock.Anything, mock.MatchedBy(func(tmp *order.TemporaryOrder) bool {
					return tmp.OrderID == "202401150005"
				})).Return(order.ErrDuplicateOrderID).Once()
				f.temps.On("Create", mock.Anything, mock.MatchedBy(func(tmp *order.TemporaryOrder) bool {
					return tmp.OrderID == "202401150006"
				})).Return(nil).Once()
				f.users.On("FindByID", mock.Anything, uint(42)).Return(nil, apperrors.ErrUserNotFound)
			},
			check: func(t *testing.T, resp *CheckoutResponse, f *fixture) {
				assert.Equal(t, "202401150006", resp.OrderID)
				assert.Equal(t, int64(90000), resp.Amount)
				assert.Equal(t, "김철수", resp.CustomerName, "查不到用户时使用收件人")
			},
		},
		{
			name: "连续冲突3次",
			req:  CheckoutRequest{UserID: 42, Delivery: delivery},
			setupMocks: func(f *fixture) {
				f.carts.On("FindByUserID", mock.Anything, uint(42)).Return(userCart(), nil)
				f.products.On("FindByIDs", mock.Anything, []uint{7}).Return(map[uint]*product.Product{7: ecoBag()}, nil)
				f.seq.On("Next", mock.Anything, "20240115").Return(int64(1), nil).Times(3)
				f.temps.On("Create", mock.Anything, mock.Anything).Return(order.ErrDuplicateOrderID).Times(3)
			},
			wantErr: order.ErrOrderNoGenerate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			resp, err := f.uc.Execute(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
			}
			if tt.check != nil {
				tt.check(t, resp, f)
			}
			f.assertExpectations(t)
		})
	}
}

func TestOrderIDGenerator_UsesShopTimezone(t *testing.T) {
	seq := new(mocks.MockSequenceRepository)
	g := NewOrderIDGenerator(seq, kst)
	// UTC 1月15日 20:00 = KST 1月16日 05:00
	g.now = func() time.Time { return time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC) }
	seq.On("Next", mock.Anything, "20240116").Return(int64(42), nil)

	id, err := g.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "202401160042", id)
}
