package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// ErrFileNotFound 文件不存在(含非法路径，不区分以免暴露目录结构)
var ErrFileNotFound = apperrors.New(apperrors.ErrCodeFileNotFound, "파일을 찾을 수 없습니다.")

// LocalStore 本地磁盘图片存储，所有路径都相对于upload.dir
type LocalStore struct {
	root string
}

// NewLocalStore 创建本地存储
func NewLocalStore(cfg *config.Config) (*LocalStore, error) {
	root, err := filepath.Abs(cfg.Upload.Dir)
	if err != nil {
		return nil, apperrors.Wrap(err, "解析上传目录失败")
	}
	return &LocalStore{root: root}, nil
}

var _ product.ImageStore = (*LocalStore)(nil)

// Root 上传目录的绝对路径
func (s *LocalStore) Root() string {
	return s.root
}

// Resolve 将相对路径解析为磁盘路径
// 拒绝 ../ 逃逸、绝对路径和目录
func (s *LocalStore) Resolve(rel string) (string, error) {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
	if rel == "" || !fs.ValidPath(rel) {
		return "", ErrFileNotFound
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", ErrFileNotFound
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", ErrFileNotFound
	}
	return full, nil
}

// Remove 删除文件，文件不存在时返回nil
func (s *LocalStore) Remove(rel string) error {
	full, err := s.Resolve(rel)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil
		}
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrapf(err, "删除文件失败: %s", rel)
	}
	return nil
}
