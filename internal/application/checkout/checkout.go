package checkout

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/coupon"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// maxStageAttempts 订单号冲突时的最大尝试次数
const maxStageAttempts = 3

// CheckoutUseCase 结算用例(生成临时订单)
// 流程:
// 1. 读取购物车，按当前商品价格重新计算(不信任客户端金额)
// 2. 应用优惠券，得到价格明细
// 3. 分配订单号并保存临时订单，等待支付网关回调
type CheckoutUseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
	couponRepo  coupon.Repository
	userRepo    user.Repository
	tempRepo    order.TemporaryRepository
	ids         *OrderIDGenerator
	stagingTTL  time.Duration
}

// NewCheckoutUseCase 创建结算用例
func NewCheckoutUseCase(
	cartRepo cart.Repository,
	productRepo product.Repository,
	couponRepo coupon.Repository,
	userRepo user.Repository,
	tempRepo order.TemporaryRepository,
	ids *OrderIDGenerator,
	stagingTTL time.Duration,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		userRepo:    userRepo,
		tempRepo:    tempRepo,
		ids:         ids,
		stagingTTL:  stagingTTL,
	}
}

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	UserID               uint
	Delivery             order.Delivery
	CouponCode           string
	SaveAsDefaultAddress bool
}

// CheckoutResponse 结算响应
// 前端直接把这几个字段交给支付窗口SDK，因此沿用SDK的camelCase命名
type CheckoutResponse struct {
	OrderID      string `json:"orderId"`
	Amount       int64  `json:"amount"`
	OrderName    string `json:"orderName"`
	CustomerName string `json:"customerName"`
}

// Execute 执行结算
func (uc *CheckoutUseCase) Execute(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	resp, err := uc.execute(ctx, req)
	if err != nil {
		metrics.ObserveCheckout("failed")
		return nil, err
	}
	metrics.ObserveCheckout("staged")
	return resp, nil
}

func (uc *CheckoutUseCase) execute(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	c, err := uc.cartRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, cart.ErrEmptyCart
	}

	lines, err := uc.buildLines(ctx, c)
	if err != nil {
		return nil, err
	}

	var cp *coupon.Coupon
	if code := coupon.NormalizeCode(req.CouponCode); code != "" {
		if cp, err = uc.couponRepo.FindByCode(ctx, code); err != nil {
			return nil, err
		}
	}

	price, err := order.CalculateBreakdown(lines, cp)
	if err != nil {
		return nil, err
	}
	// 网关不接受0元支付，暂存后也无法确认
	if price.Total <= 0 {
		return nil, order.ErrZeroAmount
	}

	snapshot := order.Snapshot{
		OrderName:            order.OrderName(lines),
		Lines:                lines,
		Delivery:             req.Delivery,
		Price:                price,
		SaveAsDefaultAddress: req.SaveAsDefaultAddress,
	}

	tmp, err := uc.stage(ctx, req.UserID, snapshot)
	if err != nil {
		return nil, err
	}

	return &CheckoutResponse{
		OrderID:      tmp.OrderID,
		Amount:       tmp.Amount,
		OrderName:    snapshot.OrderName,
		CustomerName: uc.customerName(ctx, req),
	}, nil
}

// buildLines 按购物车顺序生成订单行，价格取商品当前价格
func (uc *CheckoutUseCase) buildLines(ctx context.Context, c *cart.Cart) ([]order.Line, error) {
	ids := make([]uint, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(c.Items))
	for _, it := range c.Items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, product.ErrProductNotFound
		}
		if !p.Purchasable() {
			return nil, product.ErrProductUnavailable
		}
		if p.Stock < it.Quantity {
			return nil, product.ErrInsufficientStock
		}
		line, err := order.NewLine(it.ID, p, it.Option, it.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// stage 分配订单号并保存临时订单
// 订单号与历史数据冲突时重新分配，最多尝试maxStageAttempts次
func (uc *CheckoutUseCase) stage(ctx context.Context, userID uint, snapshot order.Snapshot) (*order.TemporaryOrder, error) {
	var lastErr error
	for attempt := 1; attempt <= maxStageAttempts; attempt++ {
		orderID, err := uc.ids.Next(ctx)
		if err != nil {
			return nil, err
		}

		tmp := order.NewTemporaryOrder(orderID, userID, snapshot, uc.stagingTTL)
		err = uc.tempRepo.Create(ctx, tmp)
		if err == nil {
			return tmp, nil
		}
		if !errors.Is(err, order.ErrDuplicateOrderID) {
			return nil, err
		}

		zap.L().Warn("订单号冲突，重新分配",
			zap.String("order_id", orderID),
			zap.Int("attempt", attempt),
		)
		lastErr = err
	}
	return nil, order.ErrOrderNoGenerate.WithErr(lastErr)
}

// customerName 支付窗口显示的购买人，取用户昵称，查不到时用收件人
func (uc *CheckoutUseCase) customerName(ctx context.Context, req CheckoutRequest) string {
	u, err := uc.userRepo.FindByID(ctx, req.UserID)
	if err != nil || u.Nickname == "" {
		return req.Delivery.RecipientName
	}
	return u.Nickname
}
