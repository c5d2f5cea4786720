package dto

// AddToCartRequest 加入购物车
// option_index为商品选项下标，商品没有选项时不传
type AddToCartRequest struct {
	ProductID   uint `json:"product_id" binding:"required"`
	Quantity    int  `json:"quantity" binding:"required,min=1,max=999"`
	OptionIndex *int `json:"option_index" binding:"omitempty,min=0"`
}

// UpdateQuantityRequest 修改数量
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=999"`
}

// RemoveItemsRequest 批量删除购物车项
type RemoveItemsRequest struct {
	ItemIDs []uint `json:"item_ids" binding:"required,min=1,dive,required"`
}
