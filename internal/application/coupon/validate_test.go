package coupon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/coupon"
	"github.com/xiebiao/storefront/internal/mocks"
)

func TestValidateCouponUseCase_Execute(t *testing.T) {
	amount := int64(5000)
	percent := 15

	tests := []struct {
		name       string
		req        ValidateCouponRequest
		setupMocks func(repo *mocks.MockCouponRepository)
		wantErr    error
		want       *coupon.Quote
	}{
		{
			name: "定额券",
			req:  ValidateCouponRequest{Code: "welcome5000", Subtotal: 90000},
			setupMocks: func(repo *mocks.MockCouponRepository) {
				repo.On("FindByCode", mock.Anything, "WELCOME5000").
					Return(&coupon.Coupon{Code: "WELCOME5000", Name: "가입 축하", DiscountAmount: &amount, Active: true}, nil)
			},
			want: &coupon.Quote{Code: "WELCOME5000", Name: "가입 축하", Kind: coupon.KindAmount, Value: 5000, Discount: 5000},
		},
		{
			name: "比例券向下取整",
			req:  ValidateCouponRequest{Code: "SPRING15", Subtotal: 33333},
			setupMocks: func(repo *mocks.MockCouponRepository) {
				repo.On("FindByCode", mock.Anything, "SPRING15").
					Return(&coupon.Coupon{Code: "SPRING15", Name: "봄 세일", DiscountPercent: &percent, Active: true}, nil)
			},
			want: &coupon.Quote{Code: "SPRING15", Name: "봄 세일", Kind: coupon.KindPercent, Value: 15, Discount: 4999},
		},
		{
			name: "停用的优惠券",
			req:  ValidateCouponRequest{Code: "OLD", Subtotal: 10000},
			setupMocks: func(repo *mocks.MockCouponRepository) {
				repo.On("FindByCode", mock.Anything, "OLD").
					Return(&coupon.Coupon{Code: "OLD", DiscountAmount: &amount, Active: false}, nil)
			},
			wantErr: coupon.ErrInvalidCoupon,
		},
		{
			name: "不存在的优惠券",
			req:  ValidateCouponRequest{Code: "NOPE", Subtotal: 10000},
			setupMocks: func(repo *mocks.MockCouponRepository) {
				repo.On("FindByCode", mock.Anything, "NOPE").Return(nil, coupon.ErrInvalidCoupon)
			},
			wantErr: coupon.ErrInvalidCoupon,
		},
		{
			name:       "空码",
			req:        ValidateCouponRequest{Code: "  ", Subtotal: 10000},
			setupMocks: func(*mocks.MockCouponRepository) {},
			wantErr:    coupon.ErrInvalidCoupon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockCouponRepository)
			tt.setupMocks(repo)

			got, err := NewValidateCouponUseCase(repo).Execute(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			repo.AssertExpectations(t)
		})
	}
}
