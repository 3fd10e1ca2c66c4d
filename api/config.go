package api

import "time"

type ServerConfig struct {
	DB      DBConfig
	Upload  UploadConfig
	S3      S3Config
	Session SessionConfig
	Redis   RedisConfig
	Mail    MailConfig
	Seed    SeedConfig
	Listing ListingConfig
}

// DBConfig 決定使用哪一個資料庫後端，URL 為空時使用本機 SQLite
type DBConfig struct {
	URL     string
	Path    string
	SSLMode string
}

// UploadConfig 是本機上傳目錄的設定，S3 啟用時 Dir 不會被使用
type UploadConfig struct {
	Dir       string
	URLPrefix string
	MaxSize   int64
}

type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Region          string
	Bucket          string
	Prefix          string
	PublicBaseURL   string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type SessionConfig struct {
	KeyForCookie   string
	CookieMaxAge   time.Duration
	CookieSecure   bool
	CookieSameSite string
}

// RedisConfig 不為空時 session 與啟動鎖改用 Redis
type RedisConfig struct {
	URL       string
	KeyPrefix string
}

func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SeedConfig struct {
	AdminPassword string
}

type ListingConfig struct {
	PerPage int
}
