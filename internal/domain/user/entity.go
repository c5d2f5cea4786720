package user

import (
	"time"
)

// Role 用户角色
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码已加密存储（bcrypt），不暴露明文
// 2. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
// 3. DefaultAddress为空表示尚未保存默认收货地址
type User struct {
	ID             uint
	Email          string
	Password       string // bcrypt哈希值
	Nickname       string
	Phone          string
	Role           Role
	DefaultAddress *Address
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Address 默认收货地址
type Address struct {
	RecipientName string
	Phone         string
	PostalCode    string
	Address       string
	AddressDetail string
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Role:      RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为后台管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateNickname 更新昵称（领域行为）
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}

// SetDefaultAddress 保存默认收货地址
func (u *User) SetDefaultAddress(addr Address) {
	u.DefaultAddress = &addr
	u.UpdatedAt = time.Now()
}
