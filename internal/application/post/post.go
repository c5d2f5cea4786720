package post

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/post"
)

const timeLayout = "2006-01-02 15:04:05"

// ListPostsUseCase 公告/活动列表(只返回已发布)
type ListPostsUseCase struct {
	postRepo post.Repository
}

func NewListPostsUseCase(postRepo post.Repository) *ListPostsUseCase {
	return &ListPostsUseCase{postRepo: postRepo}
}

// PostListItem 列表项(不含正文)
type PostListItem struct {
	ID          uint   `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	PublishedAt string `json:"published_at"`
}

// PostDetail 详情
type PostDetail struct {
	PostListItem
	Content string `json:"content"`
}

// PostPage 分页结果
type PostPage struct {
	List     []PostListItem
	Total    int64
	Page     int
	PageSize int
}

func (uc *ListPostsUseCase) Execute(ctx context.Context, postType string, page, pageSize int) (*PostPage, error) {
	t := post.Type(postType)
	if !t.Valid() {
		return nil, post.ErrInvalidType
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	posts, total, err := uc.postRepo.ListPublished(ctx, t, page, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]PostListItem, len(posts))
	for i, p := range posts {
		list[i] = toListItem(p)
	}
	return &PostPage{List: list, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetPostUseCase 公告/活动详情
type GetPostUseCase struct {
	postRepo post.Repository
}

func NewGetPostUseCase(postRepo post.Repository) *GetPostUseCase {
	return &GetPostUseCase{postRepo: postRepo}
}

func (uc *GetPostUseCase) Execute(ctx context.Context, id uint) (*PostDetail, error) {
	p, err := uc.postRepo.FindPublished(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PostDetail{PostListItem: toListItem(p), Content: p.Content}, nil
}

func toListItem(p *post.Post) PostListItem {
	item := PostListItem{
		ID:        p.ID,
		Type:      string(p.Type),
		Title:     p.Title,
		Thumbnail: p.Thumbnail,
	}
	if p.PublishedAt != nil {
		item.PublishedAt = p.PublishedAt.Format(timeLayout)
	}
	return item
}
