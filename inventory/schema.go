package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"dealership/adapters/database"
)

// carColumn 是舊版資料庫可能缺少、需要補上的 cars 欄位
type carColumn struct {
	Name string
	DDL  string
}

var additiveCarColumns = []carColumn{
	{Name: "mileage", DDL: "TEXT"},
	{Name: "body_condition", DDL: "TEXT"},
	{Name: "fuel_efficiency", DDL: "TEXT"},
	{Name: "engine_performance", DDL: "TEXT"},
	{Name: "seller_id", DDL: "INTEGER"},
	{Name: "main_image", DDL: "TEXT"},
}

func tableDDL(pk string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
	id %s,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL
)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sellers (
	id %s,
	name TEXT NOT NULL,
	contact_email TEXT,
	phone TEXT,
	address TEXT,
	about TEXT,
	photo TEXT
)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS cars (
	id %s,
	title TEXT NOT NULL,
	description TEXT,
	price REAL,
	category TEXT,
	mileage TEXT,
	body_condition TEXT,
	fuel_efficiency TEXT,
	engine_performance TEXT,
	main_image TEXT,
	seller_name TEXT,
	seller_photo TEXT,
	seller_id INTEGER REFERENCES sellers(id),
	date_added TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS car_images (
	id %s,
	car_id INTEGER REFERENCES cars(id),
	image_path TEXT
)`, pk),
	}
}

// EnsureSchema 建立缺少的資料表並補齊 cars 的欄位，可以在每次啟動時重複執行
func EnsureSchema(ctx context.Context, store *database.Store) error {
	const op = "inventory.EnsureSchema"
	backend := store.Backend()
	for _, ddl := range tableDDL(backend.PrimaryKeyDDL()) {
		if _, err := store.Modify(ctx, ddl); err != nil {
			return fmt.Errorf("[%s] Fail to create table, err=%w", op, err)
		}
	}

	columns, err := tableColumns(ctx, store, "cars")
	if err != nil {
		return fmt.Errorf("[%s] Fail to inspect cars columns, err=%w", op, err)
	}
	for _, column := range additiveCarColumns {
		if columns[column.Name] {
			continue
		}
		_, err := store.Modify(ctx, fmt.Sprintf("ALTER TABLE cars ADD COLUMN %s %s", column.Name, column.DDL))
		if backend.IsDuplicateColumn(err) {
			slog.Debug("Column already exists", slog.String("op", op), slog.String("column", column.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("[%s] Fail to add column %s, err=%w", op, column.Name, err)
		}
		slog.Info("Column added", slog.String("op", op), slog.String("table", "cars"), slog.String("column", column.Name))
	}
	return nil
}

func tableColumns(ctx context.Context, store *database.Store, table string) (map[string]bool, error) {
	query, args := store.Backend().ColumnsQuery(table)
	rows, err := store.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	columns := make(map[string]bool, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(row.String("name"))] = true
	}
	return columns, nil
}

// Bootstrap 建立資料表並寫入預設資料
func Bootstrap(ctx context.Context, store *database.Store, hasher PasswordHasher, adminPassword string) error {
	const op = "inventory.Bootstrap"
	if err := EnsureSchema(ctx, store); err != nil {
		return fmt.Errorf("[%s] Fail to ensure schema, err=%w", op, err)
	}
	if err := Seed(ctx, store, hasher, adminPassword); err != nil {
		return fmt.Errorf("[%s] Fail to seed, err=%w", op, err)
	}
	return nil
}
