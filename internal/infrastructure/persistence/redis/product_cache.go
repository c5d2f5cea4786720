package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/storefront/internal/domain/product"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// ProductCache 商品详情缓存(Cache-Aside)
// 先查缓存，未命中再查数据库；商品删除后删除缓存
type ProductCache struct {
	client *redis.Client
	keys   Keys
	ttl    time.Duration
}

// NewProductCache 创建商品缓存
func NewProductCache(client *redis.Client, keys Keys, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, keys: keys, ttl: ttl}
}

var _ product.Cache = (*ProductCache)(nil)

// Get 缓存未命中返回(nil, nil)
func (c *ProductCache) Get(ctx context.Context, id uint) (*product.Product, error) {
	val, err := c.client.Get(ctx, c.keys.product(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.New(apperrors.ErrCodeRedisError, "获取商品缓存失败").WithErr(err)
	}

	var p product.Product
	if err := json.Unmarshal(val, &p); err != nil {
		// 缓存内容损坏，按未命中处理
		_ = c.client.Del(ctx, c.keys.product(id)).Err()
		return nil, nil
	}
	return &p, nil
}

// Set 写入缓存
func (c *ProductCache) Set(ctx context.Context, p *product.Product) error {
	val, err := json.Marshal(p)
	if err != nil {
		return apperrors.Wrap(err, "序列化商品失败")
	}
	if err := c.client.Set(ctx, c.keys.product(p.ID), val, c.ttl).Err(); err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "写入商品缓存失败").WithErr(err)
	}
	return nil
}

// Evict 删除缓存
func (c *ProductCache) Evict(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.keys.product(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "删除商品缓存失败").WithErr(err)
	}
	return nil
}
