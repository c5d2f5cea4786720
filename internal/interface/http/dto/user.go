package dto

// RegisterRequest HTTP层注册请求
// 说明：HTTP层的DTO，包含参数验证tag
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=20"`
	Nickname string `json:"nickname" binding:"required,min=2,max=50"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse 用户响应（不包含密码）
type UserResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// AddressRequest 默认收货地址
type AddressRequest struct {
	RecipientName string `json:"recipient_name" binding:"required,max=50"`
	Phone         string `json:"phone" binding:"required,max=20"`
	PostalCode    string `json:"postal_code" binding:"required,len=5,numeric"`
	Address       string `json:"address" binding:"required,max=200"`
	AddressDetail string `json:"address_detail" binding:"max=200"`
}
