package checkout

import (
	"context"
	"time"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// OrderIDGenerator 订单号生成器 YYYYMMDD####
// 日期按店铺时区计算，序号由order_sequences表的行锁串行分配
type OrderIDGenerator struct {
	seq order.SequenceRepository
	loc *time.Location
	now func() time.Time
}

// NewOrderIDGenerator 创建订单号生成器
func NewOrderIDGenerator(seq order.SequenceRepository, loc *time.Location) *OrderIDGenerator {
	return &OrderIDGenerator{seq: seq, loc: loc, now: time.Now}
}

// Next 分配下一个订单号
// 当日序号超过9999时返回ErrDailySequenceExhausted
func (g *OrderIDGenerator) Next(ctx context.Context) (string, error) {
	day := order.DayKey(g.now(), g.loc)
	n, err := g.seq.Next(ctx, day)
	if err != nil {
		return "", err
	}
	return order.FormatOrderNo(day, n)
}
