package post

import (
	"context"
	"time"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Type 帖子类型
type Type string

const (
	TypeNotice Type = "notice" // 공지사항
	TypeEvent  Type = "event"  // 이벤트
)

// Valid 是否为合法类型
func (t Type) Valid() bool {
	return t == TypeNotice || t == TypeEvent
}

// Post 公告/活动
type Post struct {
	ID          uint
	Type        Type
	Title       string
	Content     string
	Thumbnail   string
	Published   bool
	PublishedAt *time.Time
	CreatedAt   time.Time
}

// Repository 帖子仓储接口
type Repository interface {
	// ListPublished 已发布帖子，按发布时间倒序
	ListPublished(ctx context.Context, t Type, page, pageSize int) ([]*Post, int64, error)

	// FindPublished 查询已发布帖子，未发布或不存在返回ErrPostNotFound
	FindPublished(ctx context.Context, id uint) (*Post, error)
}

var (
	ErrPostNotFound = apperrors.New(apperrors.ErrCodePostNotFound, "게시글을 찾을 수 없습니다.")
	ErrInvalidType  = apperrors.New(apperrors.ErrCodeInvalidParams, "게시글 유형이 올바르지 않습니다.")
)
