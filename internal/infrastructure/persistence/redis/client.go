package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

// NewClient 创建Redis客户端
// 1. 配置连接池参数（PoolSize、MinIdleConns）
// 2. 配置超时参数（DialTimeout、ReadTimeout、WriteTimeout）
// 3. 测试连接可用性
func NewClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	zap.L().Info("Redis连接成功", zap.String("addr", cfg.Redis.Addr()))
	return client, nil
}

// Keys Redis key命名(冒号分隔命名空间)
type Keys struct {
	prefix string
}

// NewKeys 创建key生成器，prefix形如"storefront:"
func NewKeys(cfg *config.Config) Keys {
	return Keys{prefix: cfg.Redis.KeyPrefix}
}

func (k Keys) session(userID uint) string {
	return fmt.Sprintf("%ssession:%d", k.prefix, userID)
}

func (k Keys) blacklist(token string) string {
	return k.prefix + "blacklist:" + token
}

func (k Keys) paymentLock(orderID string) string {
	return k.prefix + "payment:lock:" + orderID
}

func (k Keys) product(id uint) string {
	return fmt.Sprintf("%sproduct:%d", k.prefix, id)
}
