package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"
)

const DefaultMaxSize = 5 << 20

// Resolver 決定上傳欄位最後要儲存的參考路徑
type Resolver struct {
	sink    Sink
	options ResolverOptions
}

type ResolverOptions struct {
	MaxSize           int64
	AllowedExtensions []string
}

type ResolverOption func(*ResolverOptions)

// WithMaxSize 設定單一檔案的大小上限
func WithMaxSize(maxSize int64) ResolverOption {
	return func(o *ResolverOptions) {
		o.MaxSize = maxSize
	}
}

// WithAllowedExtensions 設定允許的副檔名(小寫、不含 .)
func WithAllowedExtensions(exts ...string) ResolverOption {
	return func(o *ResolverOptions) {
		o.AllowedExtensions = exts
	}
}

func NewResolver(sink Sink, opts ...ResolverOption) *Resolver {
	options := ResolverOptions{
		MaxSize:           DefaultMaxSize,
		AllowedExtensions: DefaultAllowedExtensions,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Resolver{sink: sink, options: options}
}

// Allowed 判斷檔名的副檔名是否在允許清單中
func (r *Resolver) Allowed(name string) bool {
	ext := Extension(name)
	return ext != "" && slices.Contains(r.options.AllowedExtensions, ext)
}

// Resolve 處理單一上傳檔案
//   - 沒有檔案、檔名為空、副檔名不允許、檔案為空或超過大小上限時回傳 fallback
//   - 否則儲存檔案並回傳參考路徑
//
// fallback 為空字串代表「保留原本的值」，由呼叫端判斷
func (r *Resolver) Resolve(ctx context.Context, fh *multipart.FileHeader, fallback string) (string, error) {
	const op = "Resolver.Resolve"
	if fh == nil || strings.TrimSpace(fh.Filename) == "" || !r.Allowed(fh.Filename) {
		return fallback, nil
	}
	name := SecureFilename(fh.Filename)
	if name == "" || !r.Allowed(name) {
		return fallback, nil
	}
	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to open uploaded file, err=%w", op, err)
	}
	defer file.Close()
	data, err := io.ReadAll(NewMaxSizeReader(file, r.options.MaxSize))
	if errors.As(err, &ErrReachLimitType) {
		slog.Warn("Reject uploaded file", slog.String("op", op), slog.String("filename", name), slog.Any("error", err))
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to read uploaded file, err=%w", op, err)
	}
	if len(data) == 0 {
		return fallback, nil
	}
	ref, err := r.sink.Save(ctx, name, http.DetectContentType(data), data)
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to store uploaded file, err=%w", op, err)
	}
	return ref, nil
}

// ResolveMany 依序處理多個上傳檔案，無效的檔案直接略過
func (r *Resolver) ResolveMany(ctx context.Context, fhs []*multipart.FileHeader) ([]string, error) {
	const op = "Resolver.ResolveMany"
	refs := make([]string, 0, len(fhs))
	for _, fh := range fhs {
		ref, err := r.Resolve(ctx, fh, "")
		if err != nil {
			return refs, fmt.Errorf("[%s] Fail to resolve %q, err=%w", op, fh.Filename, err)
		}
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// Remove 刪除已儲存的檔案，檔案不存在時不回傳錯誤
func (r *Resolver) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return r.sink.Remove(ctx, ref)
}
