package redis

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"dealership/adapters/session"
)

// Store 實現了 session.IStore 介面，以 Redis hash 保存 session 資料
type Store struct {
	client  redis.UniversalClient
	options StoreOptions
}

// StoreOptions 定義了 Store 的配置選項
type StoreOptions struct {
	Prefix string
	TTL    time.Duration
}

type StoreOption func(*StoreOptions)

// WithStorePrefix 設定 Store 的 key 前綴
func WithStorePrefix(prefix string) StoreOption {
	return func(o *StoreOptions) {
		o.Prefix = prefix
	}
}

// WithStoreTTL 設定 session 的存活時間，0 代表不過期
func WithStoreTTL(ttl time.Duration) StoreOption {
	return func(o *StoreOptions) {
		o.TTL = ttl
	}
}

// NewStore 建立一個新的 Store 實例
func NewStore(client redis.UniversalClient, opts ...StoreOption) session.IStore {
	options := StoreOptions{
		Prefix: "dealership:session:",
		TTL:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Store{client: client, options: options}
}

// Load 從 Redis 中載入指定名稱的資料，key 不存在時回傳空 map
func (s *Store) Load(ctx context.Context, name string) (map[string]string, error) {
	const op = "redis.Store.Load"
	result, err := s.client.HGetAll(ctx, s.options.Prefix+name).Result()
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to get hash, err=%w", op, err)
	}
	return result, nil
}

// saveScript 原子性地覆寫 hash 並設定過期時間
// ARGV[1] 是 TTL 秒數，其餘為 field/value
var saveScript = redis.NewScript(`
local key = KEYS[1]
local ttl = tonumber(ARGV[1])
redis.call('DEL', key)
if #ARGV > 1 then
    redis.call('HSET', key, unpack(ARGV, 2))
    if ttl > 0 then
        redis.call('EXPIRE', key, ttl)
    end
end
return 1
`)

// Save 將資料儲存到 Redis 中，空資料等同刪除
func (s *Store) Save(ctx context.Context, name string, data map[string]string) error {
	const op = "redis.Store.Save"
	args := make([]any, 0, len(data)*2+1)
	args = append(args, int64(s.options.TTL/time.Second))
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		args = append(args, k, data[k])
	}
	if err := saveScript.Run(ctx, s.client, []string{s.options.Prefix + name}, args...).Err(); err != nil {
		return fmt.Errorf("[%s] Fail to execute save script, err=%w", op, err)
	}
	return nil
}

// Connect 依照 redis:// URL 建立客戶端並確認連線
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	const op = "redis.Connect"
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to parse redis url, err=%w", op, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[%s] Fail to ping redis, err=%w", op, err)
	}
	return client, nil
}
