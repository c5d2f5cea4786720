package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/coupon"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建优惠券仓储
func NewCouponRepository(db *gorm.DB) coupon.Repository {
	return &couponRepository{db: db}
}

// FindByCode 按券码查询，不存在视为无效券
func (r *couponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var model CouponModel
	err := dbFromContext(ctx, r.db).Where("code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coupon.ErrInvalidCoupon
		}
		return nil, apperrors.WrapDB(err, "查询优惠券失败")
	}
	return &coupon.Coupon{
		ID:              model.ID,
		Code:            model.Code,
		Name:            model.Name,
		DiscountAmount:  model.DiscountAmount,
		DiscountPercent: model.DiscountPercent,
		Active:          model.Active,
	}, nil
}
