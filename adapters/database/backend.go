package database

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Config 決定要連線到哪一個後端
//   - URL 不為空時使用託管的 PostgreSQL
//   - 否則使用本機檔案型的 SQLite
type Config struct {
	URL     string
	Path    string
	SSLMode string
}

// Backend 封裝兩種資料庫在語法與行為上的差異，
// Store 只透過這個介面和實際的資料庫互動。
type Backend interface {
	// Name 回傳後端名稱，用於日誌
	Name() string
	// DriverName 回傳 database/sql 使用的 driver 名稱
	DriverName() string
	// DSN 回傳連線字串
	DSN() string
	// Dialector 以既有的連線池建立 gorm 的 dialector
	Dialector(conn gorm.ConnPool) gorm.Dialector
	// PrimaryKeyDDL 回傳自動遞增主鍵的欄位定義
	PrimaryKeyDDL() string
	// ColumnsQuery 回傳查詢資料表欄位的語句，結果必須包含 name 欄位
	ColumnsQuery(table string) (string, []any)
	// IsDuplicateColumn 判斷錯誤是否為新增已存在欄位所造成
	IsDuplicateColumn(err error) bool

	configure(db *sqlx.DB)
	insert(ctx context.Context, db *sqlx.DB, query string, args []any) (int64, error)
}

// SelectBackend 依照設定選擇後端，整個程式只在啟動時呼叫一次
func SelectBackend(config Config) (Backend, error) {
	const op = "SelectBackend"
	if config.URL == "" {
		path := config.Path
		if path == "" {
			path = DefaultSQLitePath
		}
		return &sqliteBackend{path: path}, nil
	}
	dsn, err := withSSLMode(config.URL, config.SSLMode)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to parse database URL, err=%w", op, err)
	}
	return &postgresBackend{dsn: dsn}, nil
}

// withSSLMode 在連線字串沒有指定 sslmode 時補上預設值
func withSSLMode(rawURL, sslMode string) (string, error) {
	if sslMode == "" {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	query := u.Query()
	if query.Get("sslmode") != "" {
		return rawURL, nil
	}
	query.Set("sslmode", sslMode)
	u.RawQuery = query.Encode()
	return u.String(), nil
}
