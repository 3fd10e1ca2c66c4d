package session

import (
	"context"
	"maps"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore 將 session 保存在行程記憶體中，適合單一實例部署
type MemoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryStore 建立 MemoryStore，ttl 之後 session 會過期
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Load(ctx context.Context, name string) (map[string]string, error) {
	v, ok := s.cache.Get(name)
	if !ok {
		return map[string]string{}, nil
	}
	return maps.Clone(v.(map[string]string)), nil
}

func (s *MemoryStore) Save(ctx context.Context, name string, data map[string]string) error {
	if len(data) == 0 {
		s.cache.Delete(name)
		return nil
	}
	s.cache.Set(name, maps.Clone(data), s.ttl)
	return nil
}
