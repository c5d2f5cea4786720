package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apppayment "github.com/xiebiao/storefront/internal/application/payment"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// PaymentHandler 支付窗口回调
type PaymentHandler struct {
	confirmUseCase *apppayment.ConfirmPaymentUseCase
	failUseCase    *apppayment.FailPaymentUseCase
}

// NewPaymentHandler 创建支付处理器
func NewPaymentHandler(confirmUseCase *apppayment.ConfirmPaymentUseCase, failUseCase *apppayment.FailPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{confirmUseCase: confirmUseCase, failUseCase: failUseCase}
}

// Success 支付成功回调
// @Summary      支付确认
// @Description  校验金额后向网关确认支付并创建订单。同一订单号重复回调返回已有订单（already_confirmed=true）
// @Tags         支付
// @Produce      json
// @Security     BearerAuth
// @Param        paymentKey query string true "网关支付Key"
// @Param        orderId    query string true "订单号(YYYYMMDD####)"
// @Param        amount     query int    true "支付金额"
// @Success      200 {object} response.Response{data=apppayment.ConfirmPaymentResponse}
// @Failure      400 {object} response.Response "金额不一致(40007)/支付被拒绝(40008)/临时订单过期(40014)/处理中(40015)"
// @Router       /api/v1/payments/success [get]
func (h *PaymentHandler) Success(c *gin.Context) {
	var q dto.PaymentSuccessQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.confirmUseCase.Execute(c.Request.Context(), apppayment.ConfirmPaymentRequest{
		UserID:     middleware.GetUserID(c),
		PaymentKey: q.PaymentKey,
		OrderID:    q.OrderID,
		Amount:     q.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Fail 支付失败/取消回调
// @Summary      支付失败回调
// @Description  删除临时订单并302跳转到前台失败页
// @Tags         支付
// @Security     BearerAuth
// @Param        code    query string false "网关错误码"
// @Param        message query string false "网关错误信息"
// @Param        orderId query string false "订单号"
// @Success      302
// @Router       /api/v1/payments/fail [get]
func (h *PaymentHandler) Fail(c *gin.Context) {
	var q dto.PaymentFailQuery
	_ = c.ShouldBindQuery(&q)

	location := h.failUseCase.Execute(c.Request.Context(), apppayment.FailPaymentRequest{
		UserID:  middleware.GetUserID(c),
		OrderID: q.OrderID,
		Code:    q.Code,
		Message: q.Message,
	})
	c.Redirect(http.StatusFound, location)
}
