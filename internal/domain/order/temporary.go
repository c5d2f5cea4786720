package order

import (
	"time"
)

// Snapshot 结账时的订单快照(以JSON存入临时订单)
type Snapshot struct {
	OrderName            string    `json:"orderName"`
	Lines                []Line    `json:"lines"`
	Delivery             Delivery  `json:"delivery"`
	Price                Breakdown `json:"price"`
	SaveAsDefaultAddress bool      `json:"saveAsDefaultAddress"`
}

// CartItemIDs 下单涉及的购物车明细ID(支付成功后只清除这些行)
func (s Snapshot) CartItemIDs() []uint {
	ids := make([]uint, 0, len(s.Lines))
	for _, l := range s.Lines {
		if l.CartItemID != 0 {
			ids = append(ids, l.CartItemID)
		}
	}
	return ids
}

// StockDeductions 支付成功时需要扣减的库存(productID→数量)，同一商品的多个选项合并
func (s Snapshot) StockDeductions() map[uint]int {
	return quantitiesByProduct(s.Lines)
}

// TemporaryOrder 临时订单(等待支付网关回调)
type TemporaryOrder struct {
	OrderID   string
	UserID    uint
	Amount    int64
	Snapshot  Snapshot
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewTemporaryOrder 创建临时订单，Amount取快照中的应付总额
func NewTemporaryOrder(orderID string, userID uint, snapshot Snapshot, ttl time.Duration) *TemporaryOrder {
	now := time.Now()
	return &TemporaryOrder{
		OrderID:   orderID,
		UserID:    userID,
		Amount:    snapshot.Price.Total,
		Snapshot:  snapshot,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired 是否已过期
func (t *TemporaryOrder) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// BelongsTo 是否属于指定用户
func (t *TemporaryOrder) BelongsTo(userID uint) bool {
	return t.UserID == userID
}

// MatchesAmount 回调金额必须与暂存金额完全一致
func (t *TemporaryOrder) MatchesAmount(amount int64) bool {
	return t.Amount == amount
}
