package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI 是 S3Operator 會用到的 S3 客戶端方法
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Operator 把上傳檔案存到 S3 相容的物件儲存
type S3Operator struct {
	// Client 是 S3 客戶端。
	Client ObjectAPI
	// Bucket 是 S3 存儲桶的名稱。
	Bucket string
	// Prefix 是物件 key 的前綴，例如 uploads。
	Prefix string
	// PublicEndpoint 是 S3 存儲桶的公開 Endpoint。
	PublicEndpoint *url.URL
}

func NewS3Operator(client ObjectAPI, bucket, prefix, publicBaseURL string) (*S3Operator, error) {
	const op = "NewS3Operator"
	publicEndpoint, err := url.Parse(publicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to parse public base URL, err=%w", op, err)
	}
	if publicEndpoint.Scheme == "" || publicEndpoint.Host == "" {
		return nil, fmt.Errorf("[%s] Public base URL must be absolute, url=%s", op, publicBaseURL)
	}
	return &S3Operator{
		Client:         client,
		Bucket:         bucket,
		Prefix:         strings.Trim(prefix, "/"),
		PublicEndpoint: publicEndpoint,
	}, nil
}

func (s *S3Operator) key(name string) string {
	if s.Prefix == "" {
		return name
	}
	return s.Prefix + "/" + name
}

// Save 上傳檔案並回傳公開網址
func (s *S3Operator) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	const op = "S3Operator.Save"
	key := s.key(name)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to upload file to S3, err=%w", op, err)
	}
	uri := *s.PublicEndpoint
	uri.Path = path.Join("/", uri.Path, key)
	return uri.String(), nil
}

// Remove 刪除公開網址指向的物件，不屬於這個 bucket 的網址直接忽略
func (s *S3Operator) Remove(ctx context.Context, ref string) error {
	const op = "S3Operator.Remove"
	key, ok := s.keyOf(ref)
	if !ok {
		return nil
	}
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("[%s] Fail to delete file from S3, err=%w", op, err)
	}
	return nil
}

func (s *S3Operator) keyOf(ref string) (string, bool) {
	uri, err := url.Parse(ref)
	if err != nil || uri.Host != s.PublicEndpoint.Host {
		return "", false
	}
	base := strings.Trim(s.PublicEndpoint.Path, "/")
	key := strings.TrimPrefix(uri.Path, "/")
	if base != "" {
		if !strings.HasPrefix(key, base+"/") {
			return "", false
		}
		key = strings.TrimPrefix(key, base+"/")
	}
	if s.Prefix != "" && !strings.HasPrefix(key, s.Prefix+"/") {
		return "", false
	}
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
