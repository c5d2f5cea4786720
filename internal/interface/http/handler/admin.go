package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/storefront/internal/application/catalog"
	apporder "github.com/xiebiao/storefront/internal/application/order"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/pkg/response"
)

// AdminHandler 后台接口（需要admin角色）
type AdminHandler struct {
	createProductUseCase  *appcatalog.CreateProductUseCase
	deleteProductUseCase  *appcatalog.DeleteProductUseCase
	listOrdersUseCase     *apporder.AdminListOrdersUseCase
	changeStatusUseCase   *apporder.ChangeStatusUseCase
	updateTrackingUseCase *apporder.UpdateTrackingUseCase
}

// NewAdminHandler 创建后台处理器
func NewAdminHandler(
	createProductUseCase *appcatalog.CreateProductUseCase,
	deleteProductUseCase *appcatalog.DeleteProductUseCase,
	listOrdersUseCase *apporder.AdminListOrdersUseCase,
	changeStatusUseCase *apporder.ChangeStatusUseCase,
	updateTrackingUseCase *apporder.UpdateTrackingUseCase,
) *AdminHandler {
	return &AdminHandler{
		createProductUseCase:  createProductUseCase,
		deleteProductUseCase:  deleteProductUseCase,
		listOrdersUseCase:     listOrdersUseCase,
		changeStatusUseCase:   changeStatusUseCase,
		updateTrackingUseCase: updateTrackingUseCase,
	}
}

// CreateProduct 创建商品
// @Summary      创建商品
// @Description  库存为0时直接标记为품절
// @Tags         后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProductRequest true "商品信息"
// @Success      200 {object} response.Response{data=appcatalog.ProductDetail}
// @Failure      403 {object} response.Response "无权限(40104)"
// @Router       /api/v1/admin/products [post]
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.createProductUseCase.Execute(c.Request.Context(), appcatalog.CreateProductRequest{
		Name:            req.Name,
		NameEn:          req.NameEn,
		Description:     req.Description,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		Stock:           req.Stock,
		Options:         req.Options,
		CategoryIDs:     req.CategoryIDs,
		SubCategoryIDs:  req.SubCategoryIDs,
		MainImages:      req.MainImages,
		DetailImages:    req.DetailImages,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteProduct 删除商品
// @Summary      删除商品
// @Description  删除数据库记录后清理缓存和图片文件，文件删除失败只记日志
// @Tags         后台
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/admin/products/{id} [delete]
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.deleteProductUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListOrders 全部订单
// @Summary      全部订单
// @Tags         后台
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "订单状态" Enums(PENDING, PENDING_DELIVERY, DELIVERING, COMPLETED, CANCELLING, CANCELLED)
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]apporder.OrderSummary}}
// @Router       /api/v1/admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var q dto.AdminListOrdersQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.listOrdersUseCase.Execute(c.Request.Context(), q.Status, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// ChangeStatus 修改订单状态
// @Summary      修改订单状态
// @Description  按状态流转表校验；变为CANCELLED时在同一事务内恢复库存并向网关退款
// @Tags         后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                  true "订单号"
// @Param        request body dto.ChangeStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apporder.OrderDetail}
// @Failure      400 {object} response.Response "状态流转非法(40002)/并发冲突(40018)"
// @Router       /api/v1/admin/orders/{id}/status [patch]
func (h *AdminHandler) ChangeStatus(c *gin.Context) {
	var req dto.ChangeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.changeStatusUseCase.Execute(c.Request.Context(), apporder.ChangeStatusRequest{
		OrderID: c.Param("id"),
		Status:  req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateTracking 录入运单
// @Summary      录入运单信息
// @Description  PATCH语义：未传的字段保持不变
// @Tags         后台
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateTrackingRequest true "运单信息"
// @Success      200 {object} response.Response{data=apporder.OrderDetail}
// @Router       /api/v1/admin/orders/tracking [patch]
func (h *AdminHandler) UpdateTracking(c *gin.Context) {
	var req dto.UpdateTrackingRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.updateTrackingUseCase.Execute(c.Request.Context(), apporder.UpdateTrackingRequest{
		OrderID:         req.OrderID,
		TrackingCompany: req.TrackingCompany,
		TrackingNumber:  req.TrackingNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
