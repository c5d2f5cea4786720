package post

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/post"
	"github.com/xiebiao/storefront/internal/mocks"
)

func TestListPostsUseCase_Execute(t *testing.T) {
	published := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := new(mocks.MockPostRepository)
	repo.On("ListPublished", mock.Anything, post.TypeEvent, 1, 10).Return([]*post.Post{
		{ID: 1, Type: post.TypeEvent, Title: "봄맞이 이벤트", Published: true, PublishedAt: &published},
	}, int64(1), nil)

	page, err := NewListPostsUseCase(repo).Execute(context.Background(), "event", 0, 0)

	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "2024-03-01 09:00:00", page.List[0].PublishedAt)
	repo.AssertExpectations(t)
}

func TestListPostsUseCase_InvalidType(t *testing.T) {
	_, err := NewListPostsUseCase(new(mocks.MockPostRepository)).Execute(context.Background(), "faq", 1, 10)
	assert.ErrorIs(t, err, post.ErrInvalidType)
}

func TestGetPostUseCase_Execute(t *testing.T) {
	repo := new(mocks.MockPostRepository)
	repo.On("FindPublished", mock.Anything, uint(1)).Return(&post.Post{ID: 1, Type: post.TypeNotice, Title: "배송 안내", Content: "설 연휴 배송 지연"}, nil)
	repo.On("FindPublished", mock.Anything, uint(2)).Return(nil, post.ErrPostNotFound)
	uc := NewGetPostUseCase(repo)

	detail, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "설 연휴 배송 지연", detail.Content)

	_, err = uc.Execute(context.Background(), 2)
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}
