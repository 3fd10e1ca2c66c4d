package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store 是兩種後端共用的存取介面
//   - Query/Modify/Select 接受以 ? 作為佔位符的 SQL，由 Store 轉換成後端的語法
//   - Gorm 提供同一個連線池上的 ORM 操作
//
// 每次呼叫都會從連線池取得連線，並在回傳前釋放
type Store struct {
	backend Backend
	db      *sqlx.DB
	gorm    *gorm.DB
}

// Open 建立連線並確認資料庫可用；連線失敗時直接回傳錯誤，不重試
func Open(ctx context.Context, config Config) (*Store, error) {
	const op = "database.Open"
	backend, err := SelectBackend(config)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to select backend, err=%w", op, err)
	}
	db, err := sqlx.Open(backend.DriverName(), backend.DSN())
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to open %s database, err=%w", op, backend.Name(), err)
	}
	backend.configure(db)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("[%s] Fail to connect to %s database, err=%w", op, backend.Name(), err)
	}
	gormDB, err := gorm.Open(backend.Dialector(db.DB), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("[%s] Fail to initial gorm, err=%w", op, err)
	}
	slog.Info("Database connected", slog.String("backend", backend.Name()))
	return &Store{backend: backend, db: db, gorm: gormDB}, nil
}

func (s *Store) Backend() Backend {
	return s.backend
}

// Query 執行查詢並以欄位名稱回傳每一列
func (s *Store) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	const op = "Store.Query"
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to execute query, err=%w", op, err)
	}
	defer rows.Close()
	var result []Row
	for rows.Next() {
		row := Row{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("[%s] Fail to scan row, err=%w", op, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("[%s] Fail to iterate rows, err=%w", op, err)
	}
	return result, nil
}

// Modify 執行寫入語句
//   - INSERT 回傳新增資料的主鍵
//   - 其他語句回傳影響的列數
func (s *Store) Modify(ctx context.Context, query string, args ...any) (int64, error) {
	const op = "Store.Modify"
	query = s.db.Rebind(query)
	if isInsert(query) {
		id, err := s.backend.insert(ctx, s.db, query, args)
		if err != nil {
			return 0, fmt.Errorf("[%s] Fail to insert, err=%w", op, err)
		}
		return id, nil
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("[%s] Fail to execute statement, err=%w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		// 部分 driver 不支援，只能盡力回報
		return 0, nil
	}
	return affected, nil
}

// Select 將查詢結果掃描到 dest (slice of struct)，欄位依照 db tag 對應
func (s *Store) Select(ctx context.Context, dest any, query string, args ...any) error {
	const op = "Store.Select"
	if err := s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("[%s] Fail to select, err=%w", op, err)
	}
	return nil
}

// Gorm 回傳綁定 ctx 的 gorm session
func (s *Store) Gorm(ctx context.Context) *gorm.DB {
	return s.gorm.WithContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isInsert(query string) bool {
	fields := strings.Fields(query)
	return len(fields) > 0 && strings.EqualFold(fields[0], "INSERT")
}
