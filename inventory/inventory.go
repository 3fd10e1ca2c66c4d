package inventory

import (
	"github.com/microcosm-cc/bluemonday"

	"dealership/adapters/database"
	"dealership/adapters/upload"
)

const (
	DefaultPerPage     = 6
	DefaultCarImage    = "/static/images/default_car.jpg"
	DefaultSellerPhoto = "/static/images/default_seller.jpg"
)

// Inventory 提供車輛、賣家與帳號的讀寫操作
type Inventory struct {
	store    *database.Store
	resolver *upload.Resolver
	options  Options
}

type Options struct {
	PerPage int
	Hasher  PasswordHasher
	Policy  *bluemonday.Policy
}

type Option func(*Options)

// WithPerPage 設定列表每頁的車輛數量
func WithPerPage(perPage int) Option {
	return func(o *Options) {
		if perPage > 0 {
			o.PerPage = perPage
		}
	}
}

// WithPasswordHasher 設定密碼雜湊的實作
func WithPasswordHasher(hasher PasswordHasher) Option {
	return func(o *Options) {
		o.Hasher = hasher
	}
}

// WithPolicy 設定描述類欄位使用的 HTML 清理規則
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(o *Options) {
		o.Policy = policy
	}
}

func New(store *database.Store, resolver *upload.Resolver, opts ...Option) *Inventory {
	options := Options{
		PerPage: DefaultPerPage,
		Policy:  bluemonday.UGCPolicy(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Hasher == nil {
		options.Hasher = NewBcryptHasher(0)
	}
	return &Inventory{store: store, resolver: resolver, options: options}
}

func (inv *Inventory) PerPage() int {
	return inv.options.PerPage
}

func (inv *Inventory) sanitize(text string) string {
	return inv.options.Policy.Sanitize(text)
}
