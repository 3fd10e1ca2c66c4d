package database

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgreSQL duplicate_column
const pgDuplicateColumn = "42701"

var returningClause = regexp.MustCompile(`(?i)\bRETURNING\b`)

type postgresBackend struct {
	dsn string
}

func (b *postgresBackend) Name() string {
	return "postgres"
}

func (b *postgresBackend) DriverName() string {
	return "pgx"
}

func (b *postgresBackend) DSN() string {
	return b.dsn
}

func (b *postgresBackend) Dialector(conn gorm.ConnPool) gorm.Dialector {
	return postgres.New(postgres.Config{Conn: conn})
}

func (b *postgresBackend) PrimaryKeyDDL() string {
	return "SERIAL PRIMARY KEY"
}

func (b *postgresBackend) ColumnsQuery(table string) (string, []any) {
	return `SELECT column_name AS name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ?`, []any{table}
}

func (b *postgresBackend) IsDuplicateColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgDuplicateColumn
}

func (b *postgresBackend) configure(db *sqlx.DB) {}

// PostgreSQL 沒有 LastInsertId，改用 RETURNING 取回主鍵
func (b *postgresBackend) insert(ctx context.Context, db *sqlx.DB, query string, args []any) (int64, error) {
	var id int64
	if err := db.QueryRowxContext(ctx, withReturningID(query), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func withReturningID(query string) string {
	query = strings.TrimRight(strings.TrimSpace(query), ";")
	if returningClause.MatchString(query) {
		return query
	}
	return query + " RETURNING id"
}
