package handler

import (
	"github.com/gin-gonic/gin"

	appcheckout "github.com/xiebiao/storefront/internal/application/checkout"
	appcoupon "github.com/xiebiao/storefront/internal/application/coupon"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// CheckoutHandler 结算与优惠券
type CheckoutHandler struct {
	checkoutUseCase       *appcheckout.CheckoutUseCase
	validateCouponUseCase *appcoupon.ValidateCouponUseCase
}

// NewCheckoutHandler 创建结算处理器
func NewCheckoutHandler(checkoutUseCase *appcheckout.CheckoutUseCase, validateCouponUseCase *appcoupon.ValidateCouponUseCase) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUseCase:       checkoutUseCase,
		validateCouponUseCase: validateCouponUseCase,
	}
}

// Checkout 结算（创建临时订单）
// @Summary      结算
// @Description  按购物车生成订单号与临时订单，返回支付窗口所需参数
// @Tags         结算
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "收货信息与优惠券"
// @Success      200 {object} response.Response{data=appcheckout.CheckoutResponse}
// @Failure      400 {object} response.Response "购物车为空(40012)/库存不足(40001)/优惠券无效(40006)/当日订单号用尽(40013)/应付金额为0(40019)"
// @Router       /api/v1/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	d := req.Delivery
	result, err := h.checkoutUseCase.Execute(c.Request.Context(), appcheckout.CheckoutRequest{
		UserID: middleware.GetUserID(c),
		Delivery: order.Delivery{
			RecipientName: d.RecipientName,
			Phone:         d.Phone,
			PostalCode:    d.PostalCode,
			Address:       d.Address,
			AddressDetail: d.AddressDetail,
			Memo:          d.Memo,
		},
		CouponCode:           req.CouponCode,
		SaveAsDefaultAddress: req.SaveAsDefaultAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ValidateCoupon 优惠券校验
// @Summary      优惠券校验
// @Description  返回按当前小计计算的优惠金额，不占用优惠券
// @Tags         结算
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ValidateCouponRequest true "优惠码与小计"
// @Success      200 {object} response.Response{data=coupon.Quote}
// @Failure      400 {object} response.Response "优惠券无效(40006)"
// @Router       /api/v1/coupons/validate [post]
func (h *CheckoutHandler) ValidateCoupon(c *gin.Context) {
	var req dto.ValidateCouponRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.validateCouponUseCase.Execute(c.Request.Context(), appcoupon.ValidateCouponRequest{
		Code:     req.Code,
		Subtotal: req.Subtotal,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
