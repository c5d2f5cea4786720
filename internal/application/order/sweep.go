package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// SweepStagingUseCase 清理过期临时订单(用户关闭支付窗口、回调丢失等留下的孤儿数据)
type SweepStagingUseCase struct {
	tempRepo order.TemporaryRepository
	batch    int
	now      func() time.Time
}

func NewSweepStagingUseCase(tempRepo order.TemporaryRepository, batch int) *SweepStagingUseCase {
	if batch <= 0 {
		batch = 500
	}
	return &SweepStagingUseCase{tempRepo: tempRepo, batch: batch, now: time.Now}
}

// Execute 分批删除，返回删除总数
// 每批单独提交，避免长时间锁表
func (uc *SweepStagingUseCase) Execute(ctx context.Context) (int64, error) {
	before := uc.now()
	var total int64
	for {
		n, err := uc.tempRepo.DeleteExpired(ctx, before, uc.batch)
		total += n
		if err != nil {
			metrics.AddStagingSwept(total)
			return total, err
		}
		if n < int64(uc.batch) {
			break
		}
		if err := ctx.Err(); err != nil {
			break
		}
	}

	metrics.AddStagingSwept(total)
	if total > 0 {
		zap.L().Info("已清理过期临时订单", zap.Int64("count", total))
	}
	return total, nil
}
