package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/storefront/internal/domain/payment"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// releaseScript 只删除自己持有的锁（token一致才删除）
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PaymentLocker 订单级支付确认锁
// SET key token NX PX ttl 加锁，Lua脚本比较token后删除
type PaymentLocker struct {
	client *redis.Client
	keys   Keys
}

// NewPaymentLocker 创建支付锁
func NewPaymentLocker(client *redis.Client, keys Keys) *PaymentLocker {
	return &PaymentLocker{client: client, keys: keys}
}

var _ payment.Locker = (*PaymentLocker)(nil)

// Acquire 加锁，锁已被占用时返回ErrPaymentInProgress
func (l *PaymentLocker) Acquire(ctx context.Context, orderID string, ttl time.Duration) (func(context.Context) error, error) {
	key := l.keys.paymentLock(orderID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeRedisError, "获取支付锁失败").WithErr(err)
	}
	if !ok {
		return nil, payment.ErrPaymentInProgress
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return apperrors.New(apperrors.ErrCodeRedisError, "释放支付锁失败").WithErr(err)
		}
		return nil
	}
	return release, nil
}
