// Package mocks 应用层单元测试使用的testify mock实现
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/category"
	"github.com/xiebiao/storefront/internal/domain/coupon"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/payment"
	"github.com/xiebiao/storefront/internal/domain/post"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/user"
)

// =========================================
// 事务
// =========================================

// TxManager 直接执行fn，记录调用次数
// CommitErr非空时模拟fn成功后提交失败
type TxManager struct {
	Calls     int
	CommitErr error
}

func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return m.CommitErr
}

// =========================================
// 商品
// =========================================

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *product.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]*product.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*product.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) Get(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductCache) Set(ctx context.Context, p *product.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductCache) Evict(ctx context.Context, ids ...uint) error {
	return m.Called(ctx, ids).Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Remove(path string) error {
	return m.Called(path).Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListWithSubCategories(ctx context.Context) ([]*category.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// =========================================
// 购物车、优惠券
// =========================================

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetOrCreate(ctx context.Context, userID uint) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) AddOrIncrement(ctx context.Context, item *cart.Item) (*cart.Item, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Item), args.Error(1)
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) error {
	return m.Called(ctx, userID, itemID, quantity).Error(0)
}

func (m *MockCartRepository) DeleteItems(ctx context.Context, userID uint, itemIDs []uint) (int64, error) {
	args := m.Called(ctx, userID, itemIDs)
	return args.Get(0).(int64), args.Error(1)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

// =========================================
// 订单
// =========================================

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) List(ctx context.Context, status order.Status, page, pageSize int) ([]*order.Order, int64, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) CompareAndSetStatus(ctx context.Context, orderID string, from, to order.Status) error {
	return m.Called(ctx, orderID, from, to).Error(0)
}

func (m *MockOrderRepository) UpdateTracking(ctx context.Context, orderID string, update order.TrackingUpdate) error {
	return m.Called(ctx, orderID, update).Error(0)
}

type MockTemporaryRepository struct {
	mock.Mock
}

func (m *MockTemporaryRepository) Create(ctx context.Context, t *order.TemporaryOrder) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemporaryRepository) FindByOrderID(ctx context.Context, orderID string) (*order.TemporaryOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.TemporaryOrder), args.Error(1)
}

func (m *MockTemporaryRepository) Delete(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockTemporaryRepository) DeleteForUser(ctx context.Context, userID uint, orderID string) (int64, error) {
	args := m.Called(ctx, userID, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTemporaryRepository) DeleteExpired(ctx context.Context, before time.Time, limit int) (int64, error) {
	args := m.Called(ctx, before, limit)
	return args.Get(0).(int64), args.Error(1)
}

type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, day string) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) OrderPaid(ctx context.Context, e order.PaidEvent) {
	m.Called(ctx, e)
}

func (m *MockEventPublisher) StatusChanged(ctx context.Context, e order.StatusChangedEvent) {
	m.Called(ctx, e)
}

// =========================================
// 支付
// =========================================

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*payment.Confirmation, error) {
	args := m.Called(ctx, paymentKey, orderID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Confirmation), args.Error(1)
}

func (m *MockGateway) Cancel(ctx context.Context, paymentKey, reason string) error {
	return m.Called(ctx, paymentKey, reason).Error(0)
}

// Locker 内存锁，Held中的订单号视为已被占用
type Locker struct {
	Held     map[string]bool
	Released []string
}

func (l *Locker) Acquire(ctx context.Context, orderID string, ttl time.Duration) (func(context.Context) error, error) {
	if l.Held == nil {
		l.Held = map[string]bool{}
	}
	if l.Held[orderID] {
		return nil, payment.ErrPaymentInProgress
	}
	l.Held[orderID] = true
	return func(context.Context) error {
		delete(l.Held, orderID)
		l.Released = append(l.Released, orderID)
		return nil
	}, nil
}

// =========================================
// 用户、帖子
// =========================================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) UpdateDefaultAddress(ctx context.Context, userID uint, addr user.Address) error {
	return m.Called(ctx, userID, addr).Error(0)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) ListPublished(ctx context.Context, t post.Type, page, pageSize int) ([]*post.Post, int64, error) {
	args := m.Called(ctx, t, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*post.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) FindPublished(ctx context.Context, id uint) (*post.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*post.Post), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	return m.Called(ctx, userID, data, ttl).Error(0)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockSessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	return m.Called(ctx, token, ttl).Error(0)
}
