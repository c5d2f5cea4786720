package dto

// AdminListOrdersQuery 后台订单列表
type AdminListOrdersQuery struct {
	PageQuery
	Status string `form:"status"`
}

// ChangeStatusRequest 后台修改订单状态
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTrackingRequest 运单信息（PATCH语义，未传字段保持不变）
// 由物流系统调用，字段名沿用对方约定的驼峰格式
type UpdateTrackingRequest struct {
	OrderID         string  `json:"orderId" binding:"required,len=12,numeric"`
	TrackingCompany *string `json:"trackingCompany" binding:"omitempty,max=50"`
	TrackingNumber  *string `json:"trackingNumber" binding:"omitempty,max=50"`
}
