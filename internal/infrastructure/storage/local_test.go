package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

func newStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "products", "7"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products", "7", "main.jpg"), []byte("jpeg"), 0o644))

	s, err := NewLocalStore(&config.Config{Upload: config.UploadConfig{Dir: dir}})
	require.NoError(t, err)
	return s, dir
}

func TestLocalStore_Resolve(t *testing.T) {
	s, dir := newStore(t)
	// 上级目录中放一个不应被读到的文件
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "secret.txt"), []byte("x"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"正常路径", "products/7/main.jpg", false},
		{"带前导斜杠", "/products/7/main.jpg", false},
		{"目录穿越", "../secret.txt", true},
		{"中间穿越", "products/../../secret.txt", true},
		{"目录本身", "products/7", true},
		{"不存在", "products/7/none.jpg", true},
		{"空路径", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full, err := s.Resolve(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrFileNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(s.Root(), "products", "7", "main.jpg"), full)
		})
	}
}

func TestLocalStore_Remove(t *testing.T) {
	s, dir := newStore(t)

	require.NoError(t, s.Remove("products/7/main.jpg"))
	_, err := os.Stat(filepath.Join(dir, "products", "7", "main.jpg"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove("products/7/main.jpg"), "重复删除不报错")
	assert.NoError(t, s.Remove("../outside.jpg"))
}
