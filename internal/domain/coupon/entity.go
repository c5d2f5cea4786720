package coupon

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Kind 优惠类型
type Kind string

const (
	KindAmount  Kind = "amount"  // 定额减免
	KindPercent Kind = "percent" // 按比例减免
)

// Coupon 优惠券
// DiscountAmount和DiscountPercent有且只有一个非空
type Coupon struct {
	ID              uint
	Code            string
	Name            string
	DiscountAmount  *int64
	DiscountPercent *int
	Active          bool
}

// Quote 优惠券校验结果
type Quote struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Value    int64  `json:"value"`    // 定额时为金额，比例时为百分比
	Discount int64  `json:"discount"` // 针对本次小计的实际减免金额
}

var ErrInvalidCoupon = apperrors.New(apperrors.ErrCodeInvalidCoupon, "유효하지 않은 쿠폰입니다.")

// Repository 优惠券仓储接口
type Repository interface {
	// FindByCode 不存在时返回ErrInvalidCoupon
	FindByCode(ctx context.Context, code string) (*Coupon, error)
}

// NormalizeCode 去除空白并转大写
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Kind 优惠类型，配置不合法(两者都有或都没有)时返回空串
func (c *Coupon) Kind() Kind {
	switch {
	case c.DiscountAmount != nil && c.DiscountPercent == nil:
		return KindAmount
	case c.DiscountPercent != nil && c.DiscountAmount == nil:
		return KindPercent
	}
	return ""
}

// Apply 针对小计计算优惠
// 定额优惠不超过小计；比例优惠向下取整
func (c *Coupon) Apply(subtotal int64) (*Quote, error) {
	if c == nil || !c.Active {
		return nil, ErrInvalidCoupon
	}
	if subtotal < 0 {
		subtotal = 0
	}

	q := &Quote{Code: c.Code, Name: c.Name, Kind: c.Kind()}
	switch q.Kind {
	case KindAmount:
		if *c.DiscountAmount <= 0 {
			return nil, ErrInvalidCoupon
		}
		q.Value = *c.DiscountAmount
		q.Discount = min(*c.DiscountAmount, subtotal)
	case KindPercent:
		pct := *c.DiscountPercent
		if pct <= 0 || pct > 100 {
			return nil, ErrInvalidCoupon
		}
		q.Value = int64(pct)
		q.Discount = decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(int64(pct))).
			Div(decimal.NewFromInt(100)).
			Floor().
			IntPart()
	default:
		return nil, ErrInvalidCoupon
	}
	return q, nil
}
