package upload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Sink 是檔案實際儲存的位置
type Sink interface {
	// Save 儲存檔案並回傳可公開存取的參考路徑
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	// Remove 刪除參考路徑指向的檔案；檔案不存在或不屬於這個 Sink 時不回傳錯誤
	Remove(ctx context.Context, ref string) error
}

// LocalSink 將檔案寫到本機目錄，並以 URLPrefix 公開
type LocalSink struct {
	Dir       string
	URLPrefix string
}

func NewLocalSink(dir, urlPrefix string) *LocalSink {
	urlPrefix = "/" + strings.Trim(urlPrefix, "/")
	return &LocalSink{Dir: dir, URLPrefix: urlPrefix}
}

func (s *LocalSink) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	const op = "LocalSink.Save"
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("[%s] Fail to create upload directory, err=%w", op, err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("[%s] Fail to write file, err=%w", op, err)
	}
	return path.Join(s.URLPrefix, name), nil
}

func (s *LocalSink) Remove(ctx context.Context, ref string) error {
	const op = "LocalSink.Remove"
	if !strings.HasPrefix(ref, s.URLPrefix+"/") {
		return nil
	}
	name := strings.TrimPrefix(ref, s.URLPrefix+"/")
	if name == "" || SecureFilename(name) != name {
		return nil
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("[%s] Fail to remove file, err=%w", op, err)
	}
	return nil
}
