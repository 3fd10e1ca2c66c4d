package database

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBackend(t *testing.T) {
	tests := []struct {
		name       string
		config     Config
		wantName   string
		wantDriver string
		wantDSN    string
		wantPKey   string
	}{
		{
			name:       "no url uses sqlite default path",
			config:     Config{},
			wantName:   "sqlite",
			wantDriver: "sqlite3",
			wantDSN:    "cars.db?_foreign_keys=on&_busy_timeout=5000",
			wantPKey:   "INTEGER PRIMARY KEY AUTOINCREMENT",
		},
		{
			name:       "custom sqlite path",
			config:     Config{Path: "/tmp/dealer.db"},
			wantName:   "sqlite",
			wantDriver: "sqlite3",
			wantDSN:    "/tmp/dealer.db?_foreign_keys=on&_busy_timeout=5000",
			wantPKey:   "INTEGER PRIMARY KEY AUTOINCREMENT",
		},
		{
			name:       "url uses postgres and adds sslmode",
			config:     Config{URL: "postgres://u:p@db:5432/cars", SSLMode: "require"},
			wantName:   "postgres",
			wantDriver: "pgx",
			wantDSN:    "postgres://u:p@db:5432/cars?sslmode=require",
			wantPKey:   "SERIAL PRIMARY KEY",
		},
		{
			name:       "explicit sslmode is kept",
			config:     Config{URL: "postgres://u:p@db:5432/cars?sslmode=disable", SSLMode: "require"},
			wantName:   "postgres",
			wantDriver: "pgx",
			wantDSN:    "postgres://u:p@db:5432/cars?sslmode=disable",
			wantPKey:   "SERIAL PRIMARY KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := SelectBackend(tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, backend.Name())
			assert.Equal(t, tt.wantDriver, backend.DriverName())
			assert.Equal(t, tt.wantDSN, backend.DSN())
			assert.Equal(t, tt.wantPKey, backend.PrimaryKeyDDL())
		})
	}
}

func TestSelectBackend_InvalidURL(t *testing.T) {
	_, err := SelectBackend(Config{URL: "postgres://u:p@db:5432/%zz", SSLMode: "require"})
	assert.Error(t, err)
}

func TestWithReturningID(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "append returning",
			query: "INSERT INTO cars (title) VALUES ($1)",
			want:  "INSERT INTO cars (title) VALUES ($1) RETURNING id",
		},
		{
			name:  "strip trailing semicolon",
			query: "INSERT INTO cars (title) VALUES ($1);",
			want:  "INSERT INTO cars (title) VALUES ($1) RETURNING id",
		},
		{
			name:  "keep existing returning",
			query: "INSERT INTO cars (title) VALUES ($1) returning id",
			want:  "INSERT INTO cars (title) VALUES ($1) returning id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withReturningID(tt.query))
		})
	}
}

func TestPostgresBackend_IsDuplicateColumn(t *testing.T) {
	backend := &postgresBackend{}
	assert.True(t, backend.IsDuplicateColumn(&pgconn.PgError{Code: "42701"}))
	assert.False(t, backend.IsDuplicateColumn(&pgconn.PgError{Code: "42P01"}))
	assert.False(t, backend.IsDuplicateColumn(errors.New("duplicate column name: x")))
}

func TestPostgresBackend_ColumnsQuery(t *testing.T) {
	query, args := (&postgresBackend{}).ColumnsQuery("cars")
	assert.Contains(t, query, "information_schema.columns")
	assert.Equal(t, []any{"cars"}, args)
}

func TestIsInsert(t *testing.T) {
	assert.True(t, isInsert("  INSERT INTO cars VALUES (1)"))
	assert.True(t, isInsert("insert\ninto cars values (1)"))
	assert.False(t, isInsert("UPDATE cars SET title = 'INSERT'"))
	assert.False(t, isInsert(""))
}
