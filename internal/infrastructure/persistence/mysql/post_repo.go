package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/post"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建公告/活动仓储
func NewPostRepository(db *gorm.DB) post.Repository {
	return &postRepository{db: db}
}

// ListPublished 已发布帖子列表
func (r *postRepository) ListPublished(ctx context.Context, t post.Type, page, pageSize int) ([]*post.Post, int64, error) {
	var models []PostModel
	var total int64

	query := dbFromContext(ctx, r.db).Model(&PostModel{}).
		Where("type = ? AND published = ?", string(t), true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询帖子总数失败")
	}

	page, pageSize = normalizePage(page, pageSize)
	err := query.Order("published_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询帖子列表失败")
	}

	posts := make([]*post.Post, len(models))
	for i := range models {
		posts[i] = toPostEntity(&models[i])
	}
	return posts, total, nil
}

// FindPublished 查询已发布帖子
func (r *postRepository) FindPublished(ctx context.Context, id uint) (*post.Post, error) {
	var model PostModel
	err := dbFromContext(ctx, r.db).Where("published = ?", true).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, post.ErrPostNotFound
		}
		return nil, apperrors.WrapDB(err, "查询帖子失败")
	}
	return toPostEntity(&model), nil
}

func toPostEntity(m *PostModel) *post.Post {
	return &post.Post{
		ID:          m.ID,
		Type:        post.Type(m.Type),
		Title:       m.Title,
		Content:     m.Content,
		Thumbnail:   m.Thumbnail,
		Published:   m.Published,
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
	}
}
