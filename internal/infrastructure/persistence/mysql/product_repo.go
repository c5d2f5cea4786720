package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/product"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// productRepository 商品仓储实现(MySQL)
// 1. 实现domain/product/repository.go定义的接口
// 2. 图片和分类关联随商品一起保存、一起预加载
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品
// GORM会在同一事务中自动保存Images/Categories/SubCategories关联
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建商品失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	for i := range p.Images {
		p.Images[i].ID = model.Images[i].ID
	}
	return nil
}

// FindByID 根据ID查找商品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := r.withAssociations(r.getDB(ctx)).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.WrapDB(err, "查询商品失败")
	}
	return toProductEntity(&model), nil
}

// FindByIDs 批量查询(结账时一次取出购物车内所有商品)
func (r *productRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*product.Product, error) {
	result := make(map[uint]*product.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []ProductModel
	if err := r.withAssociations(r.getDB(ctx)).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "批量查询商品失败")
	}
	for i := range models {
		result[models[i].ID] = toProductEntity(&models[i])
	}
	return result, nil
}

// Delete 删除商品(软删除)
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&ProductModel{}, id)
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "删除商品失败")
	}
	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// List 分页查询商品列表
func (r *productRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	var models []ProductModel
	var total int64

	db := r.getDB(ctx)
	query := db.Model(&ProductModel{})

	if len(params.Statuses) > 0 {
		statuses := make([]string, len(params.Statuses))
		for i, s := range params.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}
	if params.CategoryID != 0 {
		query = query.Where("id IN (?)", db.Model(&ProductCategoryModel{}).
			Select("product_id").Where("category_id = ?", params.CategoryID))
	}
	if params.SubCategoryID != 0 {
		query = query.Where("id IN (?)", db.Model(&ProductSubCategoryModel{}).
			Select("product_id").Where("sub_category_id = ?", params.SubCategoryID))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询商品总数失败")
	}

	switch params.SortBy {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	default:
		query = query.Order("created_at DESC")
	}
	query = query.Order("id DESC")

	page, pageSize := normalizePage(params.Page, params.PageSize)
	err := query.Preload("Images", orderImages).
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询商品列表失败")
	}

	products := make([]*product.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}
	return products, total, nil
}

// UpdateStock 更新库存(原子操作)
// UPDATE products SET stock = stock + delta WHERE id = ? AND stock + delta >= 0
// 必须使用getDB(ctx)参与调用方事务
func (r *productRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := r.getDB(ctx)
	result := db.Model(&ProductModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta). // 防止库存为负
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 商品不存在或库存不足，再查一次确定原因
		var model ProductModel
		if err := db.Unscoped().Select("id", "deleted_at").First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return product.ErrProductNotFound
			}
			return apperrors.WrapDB(err, "查询商品失败")
		}
		if model.DeletedAt.Valid {
			return product.ErrProductNotFound
		}
		return product.ErrInsufficientStock
	}

	// 同步售罄状态，inactive由后台手动控制，不在此处修改
	var err error
	if delta < 0 {
		err = db.Model(&ProductModel{}).
			Where("id = ? AND stock <= 0 AND status = ?", id, string(product.StatusActive)).
			Update("status", string(product.StatusSoldOut)).Error
	} else if delta > 0 {
		err = db.Model(&ProductModel{}).
			Where("id = ? AND stock > 0 AND status = ?", id, string(product.StatusSoldOut)).
			Update("status", string(product.StatusActive)).Error
	}
	if err != nil {
		return apperrors.WrapDB(err, "更新商品状态失败")
	}
	return nil
}

func (r *productRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", orderImages).Preload("Categories").Preload("SubCategories")
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toProductModel(p *product.Product) *ProductModel {
	model := &ProductModel{
		ID:              p.ID,
		Name:            p.Name,
		NameEn:          p.NameEn,
		Description:     p.Description,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		Stock:           p.Stock,
		Status:          string(p.Status),
		Options:         p.Options,
	}
	for _, img := range p.Images {
		model.Images = append(model.Images, ProductImageModel{
			ID:        img.ID,
			Path:      img.Path,
			Kind:      string(img.Kind),
			SortOrder: img.SortOrder,
		})
	}
	for _, id := range p.CategoryIDs {
		model.Categories = append(model.Categories, ProductCategoryModel{CategoryID: id})
	}
	for _, id := range p.SubCategoryIDs {
		model.SubCategories = append(model.SubCategories, ProductSubCategoryModel{SubCategoryID: id})
	}
	return model
}

func toProductEntity(model *ProductModel) *product.Product {
	p := &product.Product{
		ID:              model.ID,
		Name:            model.Name,
		NameEn:          model.NameEn,
		Description:     model.Description,
		Price:           model.Price,
		DiscountPercent: model.DiscountPercent,
		Stock:           model.Stock,
		Status:          product.Status(model.Status),
		Options:         model.Options,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	for _, img := range model.Images {
		p.Images = append(p.Images, product.Image{
			ID:        img.ID,
			Path:      img.Path,
			Kind:      product.ImageKind(img.Kind),
			SortOrder: img.SortOrder,
		})
	}
	for _, c := range model.Categories {
		p.CategoryIDs = append(p.CategoryIDs, c.CategoryID)
	}
	for _, c := range model.SubCategories {
		p.SubCategoryIDs = append(p.SubCategoryIDs, c.SubCategoryID)
	}
	return p
}
