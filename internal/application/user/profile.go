package user

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/user"
)

// GetProfileUseCase 当前用户信息(含默认收货地址，结账页预填使用)
type GetProfileUseCase struct {
	userRepo user.Repository
}

func NewGetProfileUseCase(userRepo user.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: userRepo}
}

// ProfileResponse 用户信息
type ProfileResponse struct {
	UserInfo
	Phone          string      `json:"phone,omitempty"`
	DefaultAddress *AddressDTO `json:"default_address"`
}

// AddressDTO 收货地址
type AddressDTO struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	PostalCode    string `json:"postal_code"`
	Address       string `json:"address"`
	AddressDetail string `json:"address_detail"`
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{UserInfo: toUserInfo(u), Phone: u.Phone}
	if a := u.DefaultAddress; a != nil {
		resp.DefaultAddress = &AddressDTO{
			RecipientName: a.RecipientName,
			Phone:         a.Phone,
			PostalCode:    a.PostalCode,
			Address:       a.Address,
			AddressDetail: a.AddressDetail,
		}
	}
	return resp, nil
}

// UpdateAddressUseCase 保存默认收货地址
type UpdateAddressUseCase struct {
	userRepo user.Repository
}

func NewUpdateAddressUseCase(userRepo user.Repository) *UpdateAddressUseCase {
	return &UpdateAddressUseCase{userRepo: userRepo}
}

func (uc *UpdateAddressUseCase) Execute(ctx context.Context, userID uint, addr AddressDTO) error {
	return uc.userRepo.UpdateDefaultAddress(ctx, userID, user.Address{
		RecipientName: addr.RecipientName,
		Phone:         addr.Phone,
		PostalCode:    addr.PostalCode,
		Address:       addr.Address,
		AddressDetail: addr.AddressDetail,
	})
}
