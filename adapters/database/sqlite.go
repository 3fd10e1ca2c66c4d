package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const DefaultSQLitePath = "cars.db"

type sqliteBackend struct {
	path string
}

func (b *sqliteBackend) Name() string {
	return "sqlite"
}

func (b *sqliteBackend) DriverName() string {
	return "sqlite3"
}

func (b *sqliteBackend) DSN() string {
	return b.path + "?_foreign_keys=on&_busy_timeout=5000"
}

func (b *sqliteBackend) Dialector(conn gorm.ConnPool) gorm.Dialector {
	return &sqlite.Dialector{DriverName: b.DriverName(), Conn: conn}
}

func (b *sqliteBackend) PrimaryKeyDDL() string {
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// ColumnsQuery 的 table 只會是程式內的常數，不接受使用者輸入
func (b *sqliteBackend) ColumnsQuery(table string) (string, []any) {
	return fmt.Sprintf("PRAGMA table_info(%s)", table), nil
}

func (b *sqliteBackend) IsDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}

// SQLite 同時只允許一個寫入者，而且 :memory: 資料庫只存在於單一連線中
func (b *sqliteBackend) configure(db *sqlx.DB) {
	db.SetMaxOpenConns(1)
}

func (b *sqliteBackend) insert(ctx context.Context, db *sqlx.DB, query string, args []any) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
