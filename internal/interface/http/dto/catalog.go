package dto

// ListProductsQuery 商品列表查询参数
type ListProductsQuery struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	CategoryID    uint   `form:"category_id"`
	SubCategoryID uint   `form:"sub_category_id"`
	SortBy        string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc"`
}

// CreateProductRequest 后台创建商品
// 图片路径为已上传文件相对upload目录的路径
type CreateProductRequest struct {
	Name            string   `json:"name" binding:"required,max=100"`
	NameEn          string   `json:"name_en" binding:"max=100"`
	Description     string   `json:"description"`
	Price           int64    `json:"price" binding:"required,min=1"`
	DiscountPercent int      `json:"discount_percent" binding:"min=0,max=100"`
	Stock           int      `json:"stock" binding:"min=0"`
	Options         []string `json:"options" binding:"dive,required,max=50"`
	CategoryIDs     []uint   `json:"category_ids"`
	SubCategoryIDs  []uint   `json:"sub_category_ids"`
	MainImages      []string `json:"main_images" binding:"dive,required"`
	DetailImages    []string `json:"detail_images" binding:"dive,required"`
}

// PageQuery 通用分页参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListPostsQuery 公告/活动列表
type ListPostsQuery struct {
	PageQuery
	Type string `form:"type" binding:"required"`
}
