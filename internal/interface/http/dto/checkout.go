package dto

// DeliveryRequest 收货信息
type DeliveryRequest struct {
	RecipientName string `json:"recipient_name" binding:"required,max=50"`
	Phone         string `json:"phone" binding:"required,max=20"`
	PostalCode    string `json:"postal_code" binding:"required,len=5,numeric"`
	Address       string `json:"address" binding:"required,max=200"`
	AddressDetail string `json:"address_detail" binding:"max=200"`
	Memo          string `json:"memo" binding:"max=200"`
}

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	Delivery             DeliveryRequest `json:"delivery" binding:"required"`
	CouponCode           string          `json:"coupon_code" binding:"max=50"`
	SaveAsDefaultAddress bool            `json:"save_as_default_address"`
}

// ValidateCouponRequest 优惠券校验
type ValidateCouponRequest struct {
	Code     string `json:"code" binding:"required,max=50"`
	Subtotal int64  `json:"subtotal" binding:"min=0"`
}

// PaymentSuccessQuery 支付成功回调参数（支付窗口跳转时带上）
type PaymentSuccessQuery struct {
	PaymentKey string `form:"paymentKey" binding:"required"`
	OrderID    string `form:"orderId" binding:"required,len=12,numeric"`
	Amount     int64  `form:"amount" binding:"required,min=1"`
}

// PaymentFailQuery 支付失败回调参数
type PaymentFailQuery struct {
	Code    string `form:"code"`
	Message string `form:"message"`
	OrderID string `form:"orderId"`
}
