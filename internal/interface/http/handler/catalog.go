package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/storefront/internal/application/catalog"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/pkg/response"
)

// CatalogHandler 商品与分类
type CatalogHandler struct {
	listProductsUseCase   *appcatalog.ListProductsUseCase
	getProductUseCase     *appcatalog.GetProductUseCase
	listCategoriesUseCase *appcatalog.ListCategoriesUseCase
}

// NewCatalogHandler 创建商品处理器
func NewCatalogHandler(
	listProductsUseCase *appcatalog.ListProductsUseCase,
	getProductUseCase *appcatalog.GetProductUseCase,
	listCategoriesUseCase *appcatalog.ListCategoriesUseCase,
) *CatalogHandler {
	return &CatalogHandler{
		listProductsUseCase:   listProductsUseCase,
		getProductUseCase:     getProductUseCase,
		listCategoriesUseCase: listCategoriesUseCase,
	}
}

// ListProducts 商品列表
// @Summary      商品列表
// @Description  只返回판매중/품절商品，支持分类筛选和排序
// @Tags         商品
// @Produce      json
// @Param        page            query int    false "页码" default(1)
// @Param        page_size       query int    false "每页数量" default(20)
// @Param        category_id     query int    false "分类ID"
// @Param        sub_category_id query int    false "子分类ID"
// @Param        sort            query string false "排序" Enums(newest, price_asc, price_desc)
// @Success      200 {object} response.Response{data=response.PageData{list=[]appcatalog.ProductListItem}}
// @Router       /api/v1/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q dto.ListProductsQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.listProductsUseCase.Execute(c.Request.Context(), appcatalog.ListProductsRequest{
		Page:          q.Page,
		PageSize:      q.PageSize,
		CategoryID:    q.CategoryID,
		SubCategoryID: q.SubCategoryID,
		SortBy:        q.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetProduct 商品详情
// @Summary      商品详情
// @Tags         商品
// @Produce      json
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response{data=appcatalog.ProductDetail}
// @Failure      404 {object} response.Response "商品不存在(40402)"
// @Router       /api/v1/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	result, err := h.getProductUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListCategories 分类树
// @Summary      分类列表（含子分类）
// @Tags         商品
// @Produce      json
// @Success      200 {object} response.Response{data=[]appcatalog.CategoryDTO}
// @Router       /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	result, err := h.listCategoriesUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
