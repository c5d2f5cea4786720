package catalog

import (
	"github.com/xiebiao/storefront/internal/domain/product"
)

const timeLayout = "2006-01-02 15:04:05"

// ProductListItem 商品列表项(不含描述和详情图)
type ProductListItem struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	NameEn          string `json:"name_en"`
	Price           int64  `json:"price"`
	DiscountPercent int    `json:"discount_percent"`
	DiscountedPrice int64  `json:"discounted_price"`
	Status          string `json:"status"`
	SoldOut         bool   `json:"sold_out"`
	Image           string `json:"image,omitempty"`
}

// ProductDetail 商品详情
type ProductDetail struct {
	ProductListItem
	Description    string     `json:"description"`
	Stock          int        `json:"stock"`
	Options        []string   `json:"options"`
	CategoryIDs    []uint     `json:"category_ids"`
	SubCategoryIDs []uint     `json:"sub_category_ids"`
	Images         []ImageDTO `json:"images"`
	CreatedAt      string     `json:"created_at"`
}

// ImageDTO 图片，Path可直接拼在/files/后访问
type ImageDTO struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	SortOrder int    `json:"sort_order"`
}

// ProductPage 分页结果
type ProductPage struct {
	List     []ProductListItem
	Total    int64
	Page     int
	PageSize int
}

func toListItem(p *product.Product) ProductListItem {
	return ProductListItem{
		ID:              p.ID,
		Name:            p.Name,
		NameEn:          p.NameEn,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		DiscountedPrice: p.DiscountedPrice(),
		Status:          string(p.Status),
		SoldOut:         p.Status == product.StatusSoldOut || p.Stock == 0,
		Image:           p.MainImage(),
	}
}

func toDetail(p *product.Product) *ProductDetail {
	images := make([]ImageDTO, len(p.Images))
	for i, img := range p.Images {
		images[i] = ImageDTO{Path: img.Path, Kind: string(img.Kind), SortOrder: img.SortOrder}
	}
	options := p.Options
	if options == nil {
		options = []string{}
	}
	return &ProductDetail{
		ProductListItem: toListItem(p),
		Description:     p.Description,
		Stock:           p.Stock,
		Options:         options,
		CategoryIDs:     p.CategoryIDs,
		SubCategoryIDs:  p.SubCategoryIDs,
		Images:          images,
		CreatedAt:       p.CreatedAt.Format(timeLayout),
	}
}
