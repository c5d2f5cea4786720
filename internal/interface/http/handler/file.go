package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/storage"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/response"
)

// FileHandler 商品图片等上传文件
type FileHandler struct {
	store        *storage.LocalStore
	cacheControl string
}

// NewFileHandler 创建文件处理器
func NewFileHandler(store *storage.LocalStore, cfg *config.Config) *FileHandler {
	return &FileHandler{store: store, cacheControl: cfg.Upload.CacheControl}
}

// Serve 读取上传目录下的文件
// @Summary      图片读取
// @Description  文件名带内容哈希，响应可长期缓存
// @Tags         文件
// @Produce      octet-stream
// @Param        filepath path string true "相对上传目录的路径"
// @Success      200 {file} file
// @Failure      404 {object} response.Response "文件不存在(40406)"
// @Router       /files/{filepath} [get]
func (h *FileHandler) Serve(c *gin.Context) {
	abs, err := h.store.Resolve(c.Param("filepath"))
	if err != nil {
		appErr := apperrors.GetAppError(err)
		c.JSON(http.StatusNotFound, response.Response{Code: appErr.Code, Message: appErr.Message})
		return
	}

	c.Header("Cache-Control", h.cacheControl)
	c.File(abs)
}
