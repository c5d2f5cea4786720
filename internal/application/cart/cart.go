package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/product"
)

// AddToCartUseCase 加入购物车
// 1. 商品必须存在且未下架(售罄商品允许加入，下单时再检查)
// 2. 商品有规格时必须选择合法的规格下标，规格文本复制到购物车行
// 3. 同商品同规格的行累加数量，不检查库存
type AddToCartUseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
}

func NewAddToCartUseCase(cartRepo cart.Repository, productRepo product.Repository) *AddToCartUseCase {
	return &AddToCartUseCase{cartRepo: cartRepo, productRepo: productRepo}
}

// AddToCartRequest 加购请求
type AddToCartRequest struct {
	UserID      uint
	ProductID   uint
	Quantity    int
	OptionIndex *int
}

// CartItemDTO 购物车行
type CartItemDTO struct {
	ID              uint   `json:"id"`
	ProductID       uint   `json:"product_id"`
	Name            string `json:"name"`
	Option          string `json:"option,omitempty"`
	Quantity        int    `json:"quantity"`
	UnitPrice       int64  `json:"unit_price"`
	DiscountPercent int    `json:"discount_percent"`
	DiscountedPrice int64  `json:"discounted_price"`
	LineTotal       int64  `json:"line_total"`
	Image           string `json:"image,omitempty"`
	Available       bool   `json:"available"` // 商品被删除或下架时为false，结算前需要移除
}

func (uc *AddToCartUseCase) Execute(ctx context.Context, req AddToCartRequest) (*CartItemDTO, error) {
	if req.Quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	p, err := uc.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if p.Status == product.StatusInactive {
		return nil, product.ErrProductUnavailable
	}

	option, err := p.ResolveOption(req.OptionIndex)
	if err != nil {
		return nil, err
	}

	c, err := uc.cartRepo.GetOrCreate(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	item, err := cart.NewItem(c.ID, p.ID, req.Quantity, option)
	if err != nil {
		return nil, err
	}
	merged, err := uc.cartRepo.AddOrIncrement(ctx, item)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("加入购物车",
		zap.Uint("user_id", req.UserID),
		zap.Uint("product_id", p.ID),
		zap.String("option", option),
		zap.Int("quantity", merged.Quantity),
	)
	dto := toItemDTO(*merged, p)
	return &dto, nil
}

// GetCartUseCase 查询购物车(价格按商品当前价格计算)
type GetCartUseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
}

func NewGetCartUseCase(cartRepo cart.Repository, productRepo product.Repository) *GetCartUseCase {
	return &GetCartUseCase{cartRepo: cartRepo, productRepo: productRepo}
}

// CartDTO 购物车
type CartDTO struct {
	Items    []CartItemDTO `json:"items"`
	Subtotal int64         `json:"subtotal"` // 可购买行的折后小计
}

func (uc *GetCartUseCase) Execute(ctx context.Context, userID uint) (*CartDTO, error) {
	c, err := uc.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return &CartDTO{Items: []CartItemDTO{}}, nil
	}

	ids := make([]uint, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &CartDTO{Items: make([]CartItemDTO, 0, len(c.Items))}
	for _, it := range c.Items {
		dto := toItemDTO(it, products[it.ProductID])
		if dto.Available {
			result.Subtotal += dto.LineTotal
		}
		result.Items = append(result.Items, dto)
	}
	return result, nil
}

// UpdateQuantityUseCase 修改购物车行数量
type UpdateQuantityUseCase struct {
	cartRepo cart.Repository
}

func NewUpdateQuantityUseCase(cartRepo cart.Repository) *UpdateQuantityUseCase {
	return &UpdateQuantityUseCase{cartRepo: cartRepo}
}

func (uc *UpdateQuantityUseCase) Execute(ctx context.Context, userID, itemID uint, quantity int) error {
	if quantity < 1 {
		return cart.ErrInvalidQuantity
	}
	return uc.cartRepo.UpdateQuantity(ctx, userID, itemID, quantity)
}

// RemoveItemsUseCase 删除购物车行(只能删除自己的)
type RemoveItemsUseCase struct {
	cartRepo cart.Repository
}

func NewRemoveItemsUseCase(cartRepo cart.Repository) *RemoveItemsUseCase {
	return &RemoveItemsUseCase{cartRepo: cartRepo}
}

// Execute 返回实际删除的行数；一行都没删除时返回ErrCartItemNotFound
func (uc *RemoveItemsUseCase) Execute(ctx context.Context, userID uint, itemIDs []uint) (int64, error) {
	n, err := uc.cartRepo.DeleteItems(ctx, userID, itemIDs)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, cart.ErrCartItemNotFound
	}
	return n, nil
}

// toItemDTO p为nil表示商品已删除
func toItemDTO(it cart.Item, p *product.Product) CartItemDTO {
	dto := CartItemDTO{
		ID:        it.ID,
		ProductID: it.ProductID,
		Option:    it.Option,
		Quantity:  it.Quantity,
	}
	if p == nil {
		return dto
	}
	discounted := p.DiscountedPrice()
	dto.Name = p.Name
	dto.UnitPrice = p.Price
	dto.DiscountPercent = p.DiscountPercent
	dto.DiscountedPrice = discounted
	dto.LineTotal = discounted * int64(it.Quantity)
	dto.Image = p.MainImage()
	dto.Available = p.Purchasable()
	return dto
}
