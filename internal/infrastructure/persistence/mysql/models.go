package mysql

import (
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// 说明：这些是infrastructure层的数据模型，包含GORM tag
// domain层实体不依赖GORM，由各Repository负责两者之间的转换

// UserModel GORM用户模型
// 默认收货地址以default_前缀的列内嵌在用户表中
type UserModel struct {
	ID             uint           `gorm:"primaryKey"`
	Email          string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password       string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname       string         `gorm:"size:50;not null;comment:昵称"`
	Phone          string         `gorm:"size:20;comment:手机号"`
	Role           string         `gorm:"size:20;not null;default:customer;comment:角色"`
	DefaultAddress AddressColumns `gorm:"embedded;embeddedPrefix:default_"`
	CreatedAt      time.Time      `gorm:"comment:创建时间"`
	UpdatedAt      time.Time      `gorm:"comment:更新时间"`
	DeletedAt      gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string {
	return "users"
}

// AddressColumns 默认收货地址列
type AddressColumns struct {
	RecipientName string `gorm:"size:50"`
	Phone         string `gorm:"size:20"`
	PostalCode    string `gorm:"size:10"`
	Address       string `gorm:"size:255"`
	AddressDetail string `gorm:"size:255"`
}

// CategoryModel 大分类
type CategoryModel struct {
	ID            uint               `gorm:"primaryKey"`
	Name          string             `gorm:"size:50;not null"`
	NameEn        string             `gorm:"size:50"`
	SortOrder     int                `gorm:"default:0;index"`
	SubCategories []SubCategoryModel `gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

// SubCategoryModel 小分类
type SubCategoryModel struct {
	ID         uint   `gorm:"primaryKey"`
	CategoryID uint   `gorm:"index;not null"`
	Name       string `gorm:"size:50;not null"`
	NameEn     string `gorm:"size:50"`
	SortOrder  int    `gorm:"default:0"`
}

func (SubCategoryModel) TableName() string {
	return "sub_categories"
}

// ProductModel 商品模型
// 1. 金额int64存储(원)
// 2. Options以JSON数组存储，顺序即前台下标
// 3. 分类关联使用显式的关联表模型，便于按分类过滤
type ProductModel struct {
	ID              uint                      `gorm:"primaryKey"`
	Name            string                    `gorm:"size:200;not null;comment:商品名"`
	NameEn          string                    `gorm:"size:200;comment:英文名"`
	Description     string                    `gorm:"type:text;comment:商品描述"`
	Price           int64                     `gorm:"index:idx_product_list;not null;comment:价格(원)"`
	DiscountPercent int                       `gorm:"default:0;comment:折扣百分比"`
	Stock           int                       `gorm:"default:0;comment:库存"`
	Status          string                    `gorm:"size:20;index;not null;default:active;comment:状态"`
	Options         []string                  `gorm:"serializer:json;type:json;comment:可选规格"`
	Images          []ProductImageModel       `gorm:"foreignKey:ProductID"`
	Categories      []ProductCategoryModel    `gorm:"foreignKey:ProductID"`
	SubCategories   []ProductSubCategoryModel `gorm:"foreignKey:ProductID"`
	CreatedAt       time.Time                 `gorm:"index:idx_product_list"`
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (ProductModel) TableName() string {
	return "products"
}

// ProductImageModel 商品图片
type ProductImageModel struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"index;not null"`
	Path      string `gorm:"size:500;not null;comment:相对upload目录的路径"`
	Kind      string `gorm:"size:10;not null;default:main"`
	SortOrder int    `gorm:"default:0"`
}

func (ProductImageModel) TableName() string {
	return "product_images"
}

// ProductCategoryModel 商品-大分类关联
type ProductCategoryModel struct {
	ProductID  uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey;index"`
}

func (ProductCategoryModel) TableName() string {
	return "product_categories"
}

// ProductSubCategoryModel 商品-小分类关联
type ProductSubCategoryModel struct {
	ProductID     uint `gorm:"primaryKey"`
	SubCategoryID uint `gorm:"primaryKey;index"`
}

func (ProductSubCategoryModel) TableName() string {
	return "product_sub_categories"
}

// CartModel 购物车(每个用户一行)
type CartModel struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"uniqueIndex;not null"`
	Items     []CartItemModel `gorm:"foreignKey:CartID"`
	CreatedAt time.Time
}

func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel 购物车明细
// (cart_id, product_id, option)唯一，重复加购走ON DUPLICATE KEY累加
type CartItemModel struct {
	ID        uint   `gorm:"primaryKey"`
	CartID    uint   `gorm:"uniqueIndex:uk_cart_line;not null"`
	ProductID uint   `gorm:"uniqueIndex:uk_cart_line;not null"`
	Option    string `gorm:"uniqueIndex:uk_cart_line;size:191;not null;default:''"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// CouponModel 优惠券
type CouponModel struct {
	ID              uint   `gorm:"primaryKey"`
	Code            string `gorm:"uniqueIndex;size:50;not null"`
	Name            string `gorm:"size:100;not null"`
	DiscountAmount  *int64 `gorm:"comment:定额减免(원)"`
	DiscountPercent *int   `gorm:"comment:减免百分比"`
	Active          bool   `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (CouponModel) TableName() string {
	return "coupons"
}

// OrderSequenceModel 每日订单序号计数器
type OrderSequenceModel struct {
	Day     string `gorm:"primaryKey;size:8;comment:YYYYMMDD"`
	LastSeq int64  `gorm:"not null;default:0"`
}

func (OrderSequenceModel) TableName() string {
	return "order_sequences"
}

// TemporaryOrderModel 临时订单
type TemporaryOrderModel struct {
	OrderID   string         `gorm:"primaryKey;size:12"`
	UserID    uint           `gorm:"index;not null"`
	Amount    int64          `gorm:"not null"`
	Snapshot  order.Snapshot `gorm:"serializer:json;type:json;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index;not null"`
}

func (TemporaryOrderModel) TableName() string {
	return "temporary_orders"
}

// OrderModel 订单
// Content保存商品行和价格明细的JSON快照，收货信息单独一张表(1:1)
type OrderModel struct {
	ID              uint               `gorm:"primaryKey"`
	OrderID         string             `gorm:"uniqueIndex;size:12;not null;comment:订单号YYYYMMDD####"`
	UserID          uint               `gorm:"index;not null"`
	Status          string             `gorm:"size:20;index;not null"`
	PaymentKey      string             `gorm:"size:200;index;not null"`
	TotalAmount     int64              `gorm:"not null"`
	Content         order.Content      `gorm:"serializer:json;type:json;not null"`
	TrackingCompany string             `gorm:"size:50"`
	TrackingNumber  string             `gorm:"size:50"`
	Delivery        OrderDeliveryModel `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt       time.Time          `gorm:"index"`
	UpdatedAt       time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderDeliveryModel 订单收货信息
type OrderDeliveryModel struct {
	ID            uint   `gorm:"primaryKey"`
	OrderID       uint   `gorm:"uniqueIndex;not null"`
	RecipientName string `gorm:"size:50;not null"`
	Phone         string `gorm:"size:20;not null"`
	PostalCode    string `gorm:"size:10;not null"`
	Address       string `gorm:"size:255;not null"`
	AddressDetail string `gorm:"size:255"`
	Memo          string `gorm:"size:255"`
}

func (OrderDeliveryModel) TableName() string {
	return "order_deliveries"
}

// PostModel 公告/活动
type PostModel struct {
	ID          uint   `gorm:"primaryKey"`
	Type        string `gorm:"size:20;index:idx_post_list;not null"`
	Title       string `gorm:"size:200;not null"`
	Content     string `gorm:"type:text"`
	Thumbnail   string `gorm:"size:500"`
	Published   bool   `gorm:"index:idx_post_list;not null;default:false"`
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (PostModel) TableName() string {
	return "posts"
}
