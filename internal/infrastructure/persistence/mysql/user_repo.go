package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/user"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// userRepository 用户仓储实现（MySQL）
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误（如邮箱重复），转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 邮箱唯一性由数据库UNIQUE索引保证，捕获Duplicate Entry转换为ErrEmailDuplicate
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.WrapDB(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapDB(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := r.getDB(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapDB(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// Update 更新昵称和手机号
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	result := r.getDB(ctx).Model(&UserModel{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"nickname": u.Nickname,
		"phone":    u.Phone,
	})
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "更新用户失败")
	}
	return nil
}

// UpdateDefaultAddress 保存默认收货地址
func (r *userRepository) UpdateDefaultAddress(ctx context.Context, userID uint, addr user.Address) error {
	result := r.getDB(ctx).Model(&UserModel{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"default_recipient_name": addr.RecipientName,
		"default_phone":          addr.Phone,
		"default_postal_code":    addr.PostalCode,
		"default_address":        addr.Address,
		"default_address_detail": addr.AddressDetail,
	})
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "保存默认地址失败")
	}
	if result.RowsAffected == 0 {
		// 值未变化时MySQL也返回0行，需要确认用户是否存在
		var count int64
		if err := r.getDB(ctx).Model(&UserModel{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return apperrors.WrapDB(err, "查询用户失败")
		}
		if count == 0 {
			return apperrors.ErrUserNotFound
		}
	}
	return nil
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// =========================================
// 辅助函数：模型转换
// =========================================

func toUserModel(u *user.User) *UserModel {
	model := &UserModel{
		ID:       u.ID,
		Email:    u.Email,
		Password: u.Password,
		Nickname: u.Nickname,
		Phone:    u.Phone,
		Role:     string(u.Role),
	}
	if model.Role == "" {
		model.Role = string(user.RoleCustomer)
	}
	if u.DefaultAddress != nil {
		model.DefaultAddress = AddressColumns(*u.DefaultAddress)
	}
	return model
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	u := &user.User{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		Nickname:  model.Nickname,
		Phone:     model.Phone,
		Role:      user.Role(model.Role),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.DefaultAddress.PostalCode != "" || model.DefaultAddress.Address != "" {
		addr := user.Address(model.DefaultAddress)
		u.DefaultAddress = &addr
	}
	return u
}
