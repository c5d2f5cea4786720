package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// SessionStore 会话存储
// 1. 使用Redis存储用户登录会话
// 2. 支持JWT黑名单（用户登出、强制下线）
// 3. Key设计：{prefix}session:{user_id}、{prefix}blacklist:{token}
type SessionStore struct {
	client *redis.Client
	keys   Keys
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client, keys Keys) *SessionStore {
	return &SessionStore{client: client, keys: keys}
}

// SaveSession 保存用户会话（过期时间与Refresh Token一致）
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error {
	key := s.keys.session(userID)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, sessionData)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "保存会话失败").WithErr(err)
	}
	return nil
}

// GetSession 获取用户会话
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, s.keys.session(userID)).Result()
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeRedisError, "获取会话失败").WithErr(err)
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除用户会话（用于登出）
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, s.keys.session(userID)).Err(); err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "删除会话失败").WithErr(err)
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单(登出、Token泄露后强制失效)
// ttl取Access Token剩余有效期，过期后自动删除
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.keys.blacklist(token), "revoked", ttl).Err(); err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "添加Token到黑名单失败").WithErr(err)
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keys.blacklist(token)).Result()
	if err != nil {
		return false, apperrors.New(apperrors.ErrCodeRedisError, "检查黑名单失败").WithErr(err)
	}
	return exists > 0, nil
}
