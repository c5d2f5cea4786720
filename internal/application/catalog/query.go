package catalog

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xiebiao/storefront/internal/domain/category"
	"github.com/xiebiao/storefront/internal/domain/product"
)

// publicStatuses 前台可见的商品状态(下架商品不展示，售罄商品展示但不可购买)
var publicStatuses = []product.Status{product.StatusActive, product.StatusSoldOut}

// ListProductsUseCase 商品列表
type ListProductsUseCase struct {
	productRepo product.Repository
}

func NewListProductsUseCase(productRepo product.Repository) *ListProductsUseCase {
	return &ListProductsUseCase{productRepo: productRepo}
}

// ListProductsRequest 列表查询条件
type ListProductsRequest struct {
	Page          int
	PageSize      int
	CategoryID    uint
	SubCategoryID uint
	SortBy        string // newest | price_asc | price_desc
}

func (uc *ListProductsUseCase) Execute(ctx context.Context, req ListProductsRequest) (*ProductPage, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	products, total, err := uc.productRepo.List(ctx, product.ListParams{
		Page:          req.Page,
		PageSize:      req.PageSize,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Statuses:      publicStatuses,
		SortBy:        req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	list := make([]ProductListItem, len(products))
	for i, p := range products {
		list[i] = toListItem(p)
	}
	return &ProductPage{List: list, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

// GetProductUseCase 商品详情
// Cache-Aside：先查Redis，未命中时用singleflight合并并发回源，避免缓存击穿
type GetProductUseCase struct {
	productRepo product.Repository
	cache       product.Cache
	group       singleflight.Group
}

func NewGetProductUseCase(productRepo product.Repository, cache product.Cache) *GetProductUseCase {
	return &GetProductUseCase{productRepo: productRepo, cache: cache}
}

func (uc *GetProductUseCase) Execute(ctx context.Context, id uint) (*ProductDetail, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == product.StatusInactive {
		return nil, product.ErrProductNotFound
	}
	return toDetail(p), nil
}

func (uc *GetProductUseCase) load(ctx context.Context, id uint) (*product.Product, error) {
	cached, err := uc.cache.Get(ctx, id)
	if err != nil {
		// 缓存故障降级为直接查库
		zap.L().Warn("读取商品缓存失败", zap.Uint("product_id", id), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	v, err, _ := uc.group.Do(strconv.FormatUint(uint64(id), 10), func() (interface{}, error) {
		p, err := uc.productRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := uc.cache.Set(ctx, p); err != nil {
			zap.L().Warn("写入商品缓存失败", zap.Uint("product_id", id), zap.Error(err))
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*product.Product), nil
}

// ListCategoriesUseCase 分类树
type ListCategoriesUseCase struct {
	categoryRepo category.Repository
}

func NewListCategoriesUseCase(categoryRepo category.Repository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categoryRepo: categoryRepo}
}

// CategoryDTO 大分类
type CategoryDTO struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	NameEn        string           `json:"name_en"`
	SubCategories []SubCategoryDTO `json:"sub_categories"`
}

// SubCategoryDTO 小分类
type SubCategoryDTO struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	NameEn string `json:"name_en"`
}

func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := uc.categoryRepo.ListWithSubCategories(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		subs := make([]SubCategoryDTO, len(c.SubCategories))
		for j, s := range c.SubCategories {
			subs[j] = SubCategoryDTO{ID: s.ID, Name: s.Name, NameEn: s.NameEn}
		}
		result[i] = CategoryDTO{ID: c.ID, Name: c.Name, NameEn: c.NameEn, SubCategories: subs}
	}
	return result, nil
}
