package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status 商品销售状态
type Status string

const (
	StatusActive   Status = "active"   // 판매중
	StatusInactive Status = "inactive" // 판매중지(前台不可见)
	StatusSoldOut  Status = "soldout"  // 품절(前台可见，不可购买)
)

// Valid 是否为合法状态
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSoldOut:
		return true
	}
	return false
}

// ImageKind 图片用途
type ImageKind string

const (
	ImageMain   ImageKind = "main"   // 主图（列表、轮播）
	ImageDetail ImageKind = "detail" // 详情页长图
)

// Image 商品图片（只保存相对upload目录的路径）
type Image struct {
	ID        uint
	Path      string
	Kind      ImageKind
	SortOrder int
}

// Product 商品实体(聚合根)
// 设计说明:
// 1. 金额单位为원(KRW没有辅币单位)，int64存储
// 2. DiscountPercent是商品自身折扣(0-100)，与优惠券折扣叠加计算
// 3. Options为可选规格列表（如颜色、尺寸），加入购物车时按下标选择并复制文本
type Product struct {
	ID              uint
	Name            string
	NameEn          string
	Description     string
	Price           int64
	DiscountPercent int
	Stock           int
	Status          Status
	Options         []string
	CategoryIDs     []uint
	SubCategoryIDs  []uint
	Images          []Image
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewProduct 创建商品（工厂方法），字段合法性由Validate检查
func NewProduct(name, nameEn, description string, price int64, discountPercent, stock int, options []string) *Product {
	now := time.Now()
	return &Product{
		Name:            name,
		NameEn:          nameEn,
		Description:     description,
		Price:           price,
		DiscountPercent: discountPercent,
		Stock:           stock,
		Status:          StatusActive,
		Options:         options,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate 校验商品字段
func (p *Product) Validate() error {
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
		return ErrInvalidDiscount
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	for _, opt := range p.Options {
		if opt == "" {
			return ErrInvalidOption
		}
	}
	return nil
}

// DiscountedPrice 商品折扣后单价（向下取整到원）
func (p *Product) DiscountedPrice() int64 {
	return ApplyPercent(p.Price, 100-p.DiscountPercent)
}

// HasOptions 商品是否定义了可选规格
func (p *Product) HasOptions() bool {
	return len(p.Options) > 0
}

// ResolveOption 根据下标取规格文本
// 商品有规格时必须传入合法下标；没有规格时忽略下标，返回空串
func (p *Product) ResolveOption(index *int) (string, error) {
	if !p.HasOptions() {
		return "", nil
	}
	if index == nil || *index < 0 || *index >= len(p.Options) {
		return "", ErrInvalidOption
	}
	return p.Options[*index], nil
}

// Purchasable 前台是否可以加入购物车/下单
func (p *Product) Purchasable() bool {
	return p.Status == StatusActive
}

// MainImage 第一张主图路径，没有时返回空串
func (p *Product) MainImage() string {
	for _, img := range p.Images {
		if img.Kind == ImageMain {
			return img.Path
		}
	}
	return ""
}

// ImagePaths 所有图片路径（删除商品后清理文件用）
func (p *Product) ImagePaths() []string {
	paths := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		paths = append(paths, img.Path)
	}
	return paths
}

// ApplyPercent 计算 amount × percent / 100，向下取整
// 使用decimal避免大金额乘法时的中间值溢出和浮点误差
func ApplyPercent(amount int64, percent int) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Floor().
		IntPart()
}
