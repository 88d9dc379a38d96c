package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage はローカルファイルシステムにファイルを保存する Storage 実装。
// 書き込みは一時ファイル経由で行い、途中で失敗しても不完全なファイルを残さない。
type LocalStorage struct {
	baseDir   string // ディスク上のルートディレクトリ (例: "./reports")
	urlPrefix string // HTTP で配信する際の URL プレフィックス (例: "/reports")
}

// NewLocalStorage は LocalStorage を生成する。
func NewLocalStorage(baseDir, urlPrefix string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

// BaseDir は保存先のルートディレクトリを返す（静的配信用）
func (s *LocalStorage) BaseDir() string { return s.baseDir }

// resolve は key を検証し、ディスク上のパスを返す
func (s *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if key == "" || clean == "" || clean != key {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}

func (s *LocalStorage) Save(ctx context.Context, key string, data io.Reader, _ string) (string, error) {
	dest, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("storage: create: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("storage: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("storage: rename: %w", err)
	}

	return s.urlPrefix + "/" + key, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	dest, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}
