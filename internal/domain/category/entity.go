package category

import (
	"context"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Category 商品大分类
type Category struct {
	ID            uint
	Name          string
	NameEn        string
	SortOrder     int
	SubCategories []SubCategory
}

// SubCategory 商品小分类
type SubCategory struct {
	ID         uint
	CategoryID uint
	Name       string
	NameEn     string
	SortOrder  int
}

// Repository 分类仓储接口
type Repository interface {
	// ListWithSubCategories 按SortOrder升序返回全部分类（含小分类）
	ListWithSubCategories(ctx context.Context) ([]*Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

var ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "존재하지 않는 카테고리입니다.")
