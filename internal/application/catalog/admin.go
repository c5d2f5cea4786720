package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/category"
	"github.com/xiebiao/storefront/internal/domain/product"
)

// CreateProductUseCase 后台创建商品
// 图片已通过其他方式放到上传目录，这里只登记相对路径
type CreateProductUseCase struct {
	productRepo  product.Repository
	categoryRepo category.Repository
}

func NewCreateProductUseCase(productRepo product.Repository, categoryRepo category.Repository) *CreateProductUseCase {
	return &CreateProductUseCase{productRepo: productRepo, categoryRepo: categoryRepo}
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name            string
	NameEn          string
	Description     string
	Price           int64
	DiscountPercent int
	Stock           int
	Options         []string
	CategoryIDs     []uint
	SubCategoryIDs  []uint
	MainImages      []string
	DetailImages    []string
}

func (uc *CreateProductUseCase) Execute(ctx context.Context, req CreateProductRequest) (*ProductDetail, error) {
	p := product.NewProduct(req.Name, req.NameEn, req.Description, req.Price, req.DiscountPercent, req.Stock, req.Options)
	if p.Stock == 0 {
		p.Status = product.StatusSoldOut
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	for _, id := range req.CategoryIDs {
		ok, err := uc.categoryRepo.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, category.ErrCategoryNotFound
		}
	}
	p.CategoryIDs = req.CategoryIDs
	p.SubCategoryIDs = req.SubCategoryIDs

	for i, path := range req.MainImages {
		p.Images = append(p.Images, product.Image{Path: path, Kind: product.ImageMain, SortOrder: i})
	}
	for i, path := range req.DetailImages {
		p.Images = append(p.Images, product.Image{Path: path, Kind: product.ImageDetail, SortOrder: i})
	}

	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	zap.L().Info("商品已创建", zap.Uint("product_id", p.ID), zap.String("name", p.Name))
	return toDetail(p), nil
}

// DeleteProductUseCase 后台删除商品
// 先软删除数据库记录并清缓存，再删除图片文件；文件删除失败只记录日志
type DeleteProductUseCase struct {
	productRepo product.Repository
	cache       product.Cache
	images      product.ImageStore
}

func NewDeleteProductUseCase(productRepo product.Repository, cache product.Cache, images product.ImageStore) *DeleteProductUseCase {
	return &DeleteProductUseCase{productRepo: productRepo, cache: cache, images: images}
}

func (uc *DeleteProductUseCase) Execute(ctx context.Context, id uint) error {
	p, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := uc.cache.Evict(ctx, id); err != nil {
		zap.L().Warn("删除商品缓存失败", zap.Uint("product_id", id), zap.Error(err))
	}

	for _, path := range p.ImagePaths() {
		if err := uc.images.Remove(path); err != nil {
			zap.L().Warn("删除商品图片失败",
				zap.Uint("product_id", id),
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}

	zap.L().Info("商品已删除", zap.Uint("product_id", id))
	return nil
}
