package order

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// ListOrdersUseCase 我的订单列表
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

func (uc *ListOrdersUseCase) Execute(ctx context.Context, userID uint, page, pageSize int) (*OrderPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	orders, total, err := uc.orderRepo.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return toPage(orders, total, page, pageSize, false), nil
}

// GetOrderUseCase 订单详情(只能查看自己的订单)
type GetOrderUseCase struct {
	orderRepo order.Repository
}

func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// Execute 他人订单同样返回ErrOrderNotFound，不暴露订单是否存在
func (uc *GetOrderUseCase) Execute(ctx context.Context, userID uint, orderID string) (*OrderDetail, error) {
	o, err := uc.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, order.ErrOrderNotFound
	}
	return toDetail(o, false), nil
}

// AdminListOrdersUseCase 后台订单列表，status为空表示全部
type AdminListOrdersUseCase struct {
	orderRepo order.Repository
}

func NewAdminListOrdersUseCase(orderRepo order.Repository) *AdminListOrdersUseCase {
	return &AdminListOrdersUseCase{orderRepo: orderRepo}
}

func (uc *AdminListOrdersUseCase) Execute(ctx context.Context, status string, page, pageSize int) (*OrderPage, error) {
	s := order.Status(status)
	if s != "" && !s.Valid() {
		return nil, order.ErrInvalidStatus
	}
	page, pageSize = normalizePage(page, pageSize)
	orders, total, err := uc.orderRepo.List(ctx, s, page, pageSize)
	if err != nil {
		return nil, err
	}
	return toPage(orders, total, page, pageSize, true), nil
}
