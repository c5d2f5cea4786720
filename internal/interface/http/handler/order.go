package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/storefront/internal/application/order"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// OrderHandler 用户订单
type OrderHandler struct {
	listOrdersUseCase    *apporder.ListOrdersUseCase
	getOrderUseCase      *apporder.GetOrderUseCase
	requestCancelUseCase *apporder.RequestCancelUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	listOrdersUseCase *apporder.ListOrdersUseCase,
	getOrderUseCase *apporder.GetOrderUseCase,
	requestCancelUseCase *apporder.RequestCancelUseCase,
) *OrderHandler {
	return &OrderHandler{
		listOrdersUseCase:    listOrdersUseCase,
		getOrderUseCase:      getOrderUseCase,
		requestCancelUseCase: requestCancelUseCase,
	}
}

// ListOrders 我的订单
// @Summary      我的订单列表
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]apporder.OrderSummary}}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.listOrdersUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetOrder 订单详情
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "订单号"
// @Success      200 {object} response.Response{data=apporder.OrderDetail}
// @Failure      404 {object} response.Response "订单不存在(40403)"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	result, err := h.getOrderUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelOrder 申请取消
// @Summary      申请取消订单
// @Description  仅배송준비중(PENDING_DELIVERY)状态可申请，状态变为취소요청(CANCELLING)，由后台处理退款
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "订单号"
// @Success      200 {object} response.Response{data=apporder.OrderDetail}
// @Failure      400 {object} response.Response "当前状态不允许取消(40017)"
// @Router       /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	result, err := h.requestCancelUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
