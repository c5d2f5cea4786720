package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/storefront/internal/application/cart"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// CartHandler 购物车
type CartHandler struct {
	getCartUseCase        *appcart.GetCartUseCase
	addToCartUseCase      *appcart.AddToCartUseCase
	updateQuantityUseCase *appcart.UpdateQuantityUseCase
	removeItemsUseCase    *appcart.RemoveItemsUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	getCartUseCase *appcart.GetCartUseCase,
	addToCartUseCase *appcart.AddToCartUseCase,
	updateQuantityUseCase *appcart.UpdateQuantityUseCase,
	removeItemsUseCase *appcart.RemoveItemsUseCase,
) *CartHandler {
	return &CartHandler{
		getCartUseCase:        getCartUseCase,
		addToCartUseCase:      addToCartUseCase,
		updateQuantityUseCase: updateQuantityUseCase,
		removeItemsUseCase:    removeItemsUseCase,
	}
}

// GetCart 查看购物车
// @Summary      查看购物车
// @Description  已删除或停售的商品行available=false，不计入小计
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.CartDTO}
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	result, err := h.getCartUseCase.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddItem 加入购物车
// @Summary      加入购物车
// @Description  同一商品同一选项再次加入时累加数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddToCartRequest true "商品与数量"
// @Success      200 {object} response.Response{data=appcart.CartItemDTO}
// @Failure      400 {object} response.Response "商品不可购买(40011)/选项非法(40010)"
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.addToCartUseCase.Execute(c.Request.Context(), appcart.AddToCartRequest{
		UserID:      middleware.GetUserID(c),
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		OptionIndex: req.OptionIndex,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateQuantity 修改数量
// @Summary      修改购物车数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "购物车项ID"
// @Param        request body dto.UpdateQuantityRequest true "数量"
// @Success      200 {object} response.Response
// @Router       /api/v1/cart/items/{id} [patch]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.updateQuantityUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), id, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveItems 删除购物车项
// @Summary      删除购物车项（批量）
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RemoveItemsRequest true "购物车项ID列表"
// @Success      200 {object} response.Response
// @Router       /api/v1/cart/items [delete]
func (h *CartHandler) RemoveItems(c *gin.Context) {
	var req dto.RemoveItemsRequest
	if !bindJSON(c, &req) {
		return
	}

	deleted, err := h.removeItemsUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), req.ItemIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}
