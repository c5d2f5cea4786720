package coupon

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/coupon"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// ValidateCouponUseCase 优惠券校验(只读，不占用优惠券)
type ValidateCouponUseCase struct {
	couponRepo coupon.Repository
}

func NewValidateCouponUseCase(couponRepo coupon.Repository) *ValidateCouponUseCase {
	return &ValidateCouponUseCase{couponRepo: couponRepo}
}

// ValidateCouponRequest 校验请求，Subtotal为商品折扣后的小计
type ValidateCouponRequest struct {
	Code     string
	Subtotal int64
}

func (uc *ValidateCouponUseCase) Execute(ctx context.Context, req ValidateCouponRequest) (*coupon.Quote, error) {
	if req.Subtotal < 0 {
		return nil, apperrors.ErrInvalidParams
	}
	code := coupon.NormalizeCode(req.Code)
	if code == "" {
		return nil, coupon.ErrInvalidCoupon
	}

	c, err := uc.couponRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return c.Apply(req.Subtotal)
}
