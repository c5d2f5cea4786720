package order

import (
	"fmt"

	"github.com/xiebiao/storefront/internal/domain/coupon"
	"github.com/xiebiao/storefront/internal/domain/product"
)

// Line 订单商品行(价格快照)
type Line struct {
	CartItemID      uint   `json:"cartItemId"`
	ProductID       uint   `json:"productId"`
	Name            string `json:"name"`
	Option          string `json:"option,omitempty"`
	Quantity        int    `json:"quantity"`
	UnitPrice       int64  `json:"unitPrice"`
	DiscountPercent int    `json:"discountPercent"`
	DiscountedPrice int64  `json:"discountedPrice"`
	LineTotal       int64  `json:"lineTotal"`
	Image           string `json:"image,omitempty"`
}

// Breakdown 价格明细
// Total = Subtotal - CouponDiscount，Subtotal = OriginalSubtotal - ProductDiscount
type Breakdown struct {
	OriginalSubtotal int64  `json:"originalSubtotal"`
	ProductDiscount  int64  `json:"productDiscount"`
	Subtotal         int64  `json:"subtotal"`
	CouponCode       string `json:"couponCode,omitempty"`
	CouponDiscount   int64  `json:"couponDiscount"`
	Total            int64  `json:"total"`
}

// NewLine 根据当前商品信息生成订单行
func NewLine(cartItemID uint, p *product.Product, option string, quantity int) (Line, error) {
	if quantity < 1 {
		return Line{}, ErrInvalidQuantity
	}
	discounted := p.DiscountedPrice()
	return Line{
		CartItemID:      cartItemID,
		ProductID:       p.ID,
		Name:            p.Name,
		Option:          option,
		Quantity:        quantity,
		UnitPrice:       p.Price,
		DiscountPercent: p.DiscountPercent,
		DiscountedPrice: discounted,
		LineTotal:       discounted * int64(quantity),
		Image:           p.MainImage(),
	}, nil
}

// CalculateBreakdown 计算价格明细
// 先算商品折扣，再对折后小计应用优惠券；c为nil表示不使用优惠券
func CalculateBreakdown(lines []Line, c *coupon.Coupon) (Breakdown, error) {
	if len(lines) == 0 {
		return Breakdown{}, ErrInvalidOrderItems
	}

	var b Breakdown
	for _, l := range lines {
		b.OriginalSubtotal += l.UnitPrice * int64(l.Quantity)
		b.Subtotal += l.LineTotal
	}
	b.ProductDiscount = b.OriginalSubtotal - b.Subtotal

	if c != nil {
		quote, err := c.Apply(b.Subtotal)
		if err != nil {
			return Breakdown{}, err
		}
		b.CouponCode = quote.Code
		b.CouponDiscount = quote.Discount
	}
	b.Total = b.Subtotal - b.CouponDiscount
	return b, nil
}

// OrderName 支付页显示的订单名，如"에코백 외 2건"
func OrderName(lines []Line) string {
	if len(lines) == 0 {
		return ""
	}
	if len(lines) == 1 {
		return lines[0].Name
	}
	return fmt.Sprintf("%s 외 %d건", lines[0].Name, len(lines)-1)
}
