//go:generate mockgen -package=session -destination=mock.go -source=interfaces.go

package session

import "context"

// IStore 是 session 資料的儲存層
type IStore interface {
	Load(ctx context.Context, name string) (map[string]string, error)
	Save(ctx context.Context, name string, data map[string]string) error
}

type ISession interface {
	ID() string
	Load() error
	Get(key string) string
	Set(key, value string)
	Delete(key string)
	Clear()
	Regenerate()
	Save() error
}
