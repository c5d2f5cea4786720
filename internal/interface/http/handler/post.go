package handler

import (
	"github.com/gin-gonic/gin"

	apppost "github.com/xiebiao/storefront/internal/application/post"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/pkg/response"
)

// PostHandler 公告/活动
type PostHandler struct {
	listPostsUseCase *apppost.ListPostsUseCase
	getPostUseCase   *apppost.GetPostUseCase
}

func NewPostHandler(listPostsUseCase *apppost.ListPostsUseCase, getPostUseCase *apppost.GetPostUseCase) *PostHandler {
	return &PostHandler{listPostsUseCase: listPostsUseCase, getPostUseCase: getPostUseCase}
}

// ListPosts 公告/活动列表
// @Summary      公告/活动列表
// @Tags         公告
// @Produce      json
// @Param        type      query string true  "类型" Enums(notice, event)
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]apppost.PostListItem}}
// @Router       /api/v1/posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	var q dto.ListPostsQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.listPostsUseCase.Execute(c.Request.Context(), q.Type, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetPost 公告/活动详情
// @Summary      公告/活动详情
// @Tags         公告
// @Produce      json
// @Param        id path int true "ID"
// @Success      200 {object} response.Response{data=apppost.PostDetail}
// @Router       /api/v1/posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	result, err := h.getPostUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
