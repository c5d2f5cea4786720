package mysql

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/product"
)

// 需要真实MySQL：
//   STOREFRONT_TEST_MYSQL_DSN="root:root@tcp(127.0.0.1:3306)/storefront_test?charset=utf8mb4&parseTime=true" go test ./...
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("STOREFRONT_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("未设置STOREFRONT_TEST_MYSQL_DSN，跳过MySQL测试")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// uniqueDay 测试专用的8位日期键，避免与真实数据冲突
func uniqueDay() string {
	return fmt.Sprintf("9%07d", time.Now().UnixNano()%10000000)
}

func TestSequenceRepository_ConcurrentNext(t *testing.T) {
	db := newTestDB(t)
	repo := NewSequenceRepository(db)
	day := uniqueDay()
	t.Cleanup(func() { db.Where("day = ?", day).Delete(&OrderSequenceModel{}) })

	const workers = 30
	results := make([]int64, workers)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			seq, err := repo.Next(context.Background(), day)
			results[i] = seq
			return err
		})
	}
	require.NoError(t, g.Wait())

	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	for i, seq := range results {
		assert.Equal(t, int64(i+1), seq, "并发获取的序号必须连续且不重复")
	}
}

func createTestProduct(t *testing.T, db *gorm.DB, stock int) *product.Product {
	t.Helper()
	repo := NewProductRepository(db)
	p := product.NewProduct("테스트 상품", "test product", "", 100000, 10, stock, nil)
	require.NoError(t, repo.Create(context.Background(), p))
	t.Cleanup(func() { db.Unscoped().Delete(&ProductModel{}, p.ID) })
	return p
}

func TestProductRepository_UpdateStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	p := createTestProduct(t, db, 2)

	t.Run("库存不足不扣减", func(t *testing.T) {
		err := repo.UpdateStock(ctx, p.ID, -3)
		assert.ErrorIs(t, err, product.ErrInsufficientStock)

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Stock)
	})

	t.Run("扣减到0后售罄", func(t *testing.T) {
		require.NoError(t, repo.UpdateStock(ctx, p.ID, -2))

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Stock)
		assert.Equal(t, product.StatusSoldOut, got.Status)
	})

	t.Run("商品不存在", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdateStock(ctx, 0x7fffffff, -1), product.ErrProductNotFound)
	})
}

func TestTxManager_RollbackRestoresStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	txm := NewTxManager(db)
	ctx := context.Background()
	p := createTestProduct(t, db, 5)

	errAbort := errors.New("abort")
	err := txm.Transaction(ctx, func(ctx context.Context) error {
		if err := repo.UpdateStock(ctx, p.ID, -5); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock, "事务回滚后库存应恢复")
}

func TestTemporaryOrderRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewTemporaryOrderRepository(db)
	ctx := context.Background()

	orderID := uniqueDay() + "0001"
	snapshot := order.Snapshot{
		OrderName: "테스트 상품 외 1건",
		Lines: []order.Line{
			{CartItemID: 11, ProductID: 1, Name: "테스트 상품", Quantity: 1, UnitPrice: 100000, DiscountPercent: 10, DiscountedPrice: 90000, LineTotal: 90000},
		},
		Price: order.Breakdown{OriginalSubtotal: 100000, ProductDiscount: 10000, Subtotal: 90000, CouponCode: "WELCOME", CouponDiscount: 5000, Total: 85000},
	}
	temp := order.NewTemporaryOrder(orderID, 7, snapshot, 30*time.Minute)
	require.NoError(t, repo.Create(ctx, temp))
	t.Cleanup(func() { db.Where("order_id = ?", orderID).Delete(&TemporaryOrderModel{}) })

	t.Run("订单号重复", func(t *testing.T) {
		assert.ErrorIs(t, repo.Create(ctx, temp), order.ErrDuplicateOrderID)
	})

	t.Run("快照原样读回", func(t *testing.T) {
		got, err := repo.FindByOrderID(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, int64(85000), got.Amount)
		assert.Equal(t, snapshot, got.Snapshot)
		assert.Equal(t, []uint{11}, got.Snapshot.CartItemIDs())
	})

	t.Run("只能删除自己的临时订单", func(t *testing.T) {
		n, err := repo.DeleteForUser(ctx, 8, orderID)
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = repo.DeleteForUser(ctx, 7, orderID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = repo.FindByOrderID(ctx, orderID)
		assert.ErrorIs(t, err, order.ErrStagingNotFound)
	})
}
