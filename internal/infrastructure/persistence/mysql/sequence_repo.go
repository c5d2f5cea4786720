package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/storefront/internal/domain/order"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// sequenceRepository 每日订单序号
// 使用独立事务(不参与调用方事务)：
// INSERT ... ON DUPLICATE KEY UPDATE持有行锁直到提交，并发调用在此排队，
// 每个调用方读到的都是自己递增后的值
type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository 创建序号仓储
func NewSequenceRepository(db *gorm.DB) order.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next 递增并返回当日序号
func (r *sequenceRepository) Next(ctx context.Context, day string) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := OrderSequenceModel{Day: day, LastSeq: 1}
		err := tx.Clauses(clause.OnConflict{
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_seq": gorm.Expr("last_seq + 1"),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		var current OrderSequenceModel
		if err := tx.Where("day = ?", day).First(&current).Error; err != nil {
			return err
		}
		seq = current.LastSeq
		return nil
	})
	if err != nil {
		return 0, apperrors.WrapDB(err, "生成订单序号失败")
	}
	return seq, nil
}
