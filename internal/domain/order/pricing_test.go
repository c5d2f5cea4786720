package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/coupon"
	"github.com/xiebiao/storefront/internal/domain/product"
)

func flatCoupon(v int64) *coupon.Coupon {
	return &coupon.Coupon{Code: "FLAT", DiscountAmount: &v, Active: true}
}

func TestCalculateBreakdown_DiscountThenCoupon(t *testing.T) {
	p := &product.Product{ID: 1, Name: "원목 도마", Price: 100000, DiscountPercent: 10}
	line, err := NewLine(11, p, "", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(90000), line.LineTotal)

	b, err := CalculateBreakdown([]Line{line}, flatCoupon(5000))
	require.NoError(t, err)
	assert.Equal(t, int64(100000), b.OriginalSubtotal)
	assert.Equal(t, int64(10000), b.ProductDiscount)
	assert.Equal(t, int64(90000), b.Subtotal)
	assert.Equal(t, "FLAT", b.CouponCode)
	assert.Equal(t, int64(5000), b.CouponDiscount)
	assert.Equal(t, int64(85000), b.Total)
}

func TestCalculateBreakdown_NoCoupon(t *testing.T) {
	a, _ := NewLine(1, &product.Product{ID: 1, Name: "A", Price: 12000}, "", 2)
	b, _ := NewLine(2, &product.Product{ID: 2, Name: "B", Price: 9999, DiscountPercent: 15}, "L", 1)

	got, err := CalculateBreakdown([]Line{a, b}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(24000+9999), got.OriginalSubtotal)
	assert.Equal(t, int64(24000+8499), got.Subtotal)
	assert.Equal(t, got.Subtotal, got.Total)
	assert.Empty(t, got.CouponCode)
}

func TestCalculateBreakdown_Errors(t *testing.T) {
	_, err := CalculateBreakdown(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidOrderItems)

	line, _ := NewLine(1, &product.Product{ID: 1, Price: 1000}, "", 1)
	_, err = CalculateBreakdown([]Line{line}, &coupon.Coupon{Active: false})
	assert.ErrorIs(t, err, coupon.ErrInvalidCoupon)

	_, err = NewLine(1, &product.Product{ID: 1, Price: 1000}, "", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestOrderName(t *testing.T) {
	assert.Equal(t, "", OrderName(nil))
	assert.Equal(t, "에코백", OrderName([]Line{{Name: "에코백"}}))
	assert.Equal(t, "에코백 외 2건", OrderName([]Line{{Name: "에코백"}, {Name: "머그"}, {Name: "컵"}}))
}
