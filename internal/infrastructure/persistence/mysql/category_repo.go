package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/category"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

// ListWithSubCategories 查询全部分类，大小分类都按sort_order排序
func (r *categoryRepository) ListWithSubCategories(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	err := dbFromContext(ctx, r.db).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Order("sort_order ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询分类失败")
	}

	categories := make([]*category.Category, len(models))
	for i, m := range models {
		c := &category.Category{ID: m.ID, Name: m.Name, NameEn: m.NameEn, SortOrder: m.SortOrder}
		for _, s := range m.SubCategories {
			c.SubCategories = append(c.SubCategories, category.SubCategory{
				ID:         s.ID,
				CategoryID: s.CategoryID,
				Name:       s.Name,
				NameEn:     s.NameEn,
				SortOrder:  s.SortOrder,
			})
		}
		categories[i] = c
	}
	return categories, nil
}

// Exists 分类是否存在
func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&CategoryModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.WrapDB(err, "查询分类失败")
	}
	return count > 0, nil
}
