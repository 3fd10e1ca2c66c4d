package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"dealership/adapters/database"
	"dealership/models"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "password123"
)

var seedSellers = []models.Seller{
	{Name: "Alice Johnson", ContactEmail: "alice@example.com", Phone: "08012345678", Address: "Lagos", About: "Trusted luxury car dealer.", Photo: DefaultSellerPhoto},
	{Name: "Bob Smith", ContactEmail: "bob@example.com", Phone: "08123456789", Address: "Abuja", About: "Certified used car dealer.", Photo: DefaultSellerPhoto},
	{Name: "Carol White", ContactEmail: "carol@example.com", Phone: "09098765432", Address: "Port Harcourt", About: "SUV specialist.", Photo: DefaultSellerPhoto},
}

// seedCars 以 SellerName 對應到 seedSellers
var seedCars = []models.Car{
	{Title: "2023 Executive Sedan", Description: "Luxury sedan.", Price: 45000, MainImage: "/static/images/sedan.jpg", Category: "Sedan", Mileage: "10,000 km", BodyCondition: "Excellent", FuelEfficiency: "15 km/L", EnginePerformance: "V6 Turbo", SellerName: "Alice Johnson"},
	{Title: "2022 Sport Coupe", Description: "Sport coupe.", Price: 38500, MainImage: "/static/images/coupe.jpg", Category: "Coupe", Mileage: "8,000 km", BodyCondition: "Very Good", FuelEfficiency: "14 km/L", EnginePerformance: "2.0L Turbo", SellerName: "Bob Smith"},
	{Title: "2021 Family SUV", Description: "Spacious SUV.", Price: 29900, MainImage: "/static/images/suv.jpg", Category: "SUV", Mileage: "20,000 km", BodyCondition: "Good", FuelEfficiency: "12 km/L", EnginePerformance: "3.0L V6", SellerName: "Carol White"},
}

// Seed 在資料表為空時寫入預設帳號、賣家與車輛，已有資料的資料表不會被修改
func Seed(ctx context.Context, store *database.Store, hasher PasswordHasher, adminPassword string) error {
	const op = "inventory.Seed"
	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}
	steps := []struct {
		table string
		seed  func(ctx context.Context) error
	}{
		{table: "users", seed: func(ctx context.Context) error { return seedAdmin(ctx, store, hasher, adminPassword) }},
		{table: "sellers", seed: func(ctx context.Context) error { return seedSellerRows(ctx, store) }},
		{table: "cars", seed: func(ctx context.Context) error { return seedCarRows(ctx, store) }},
	}
	for _, step := range steps {
		total, err := countRows(ctx, store, step.table)
		if err != nil {
			return fmt.Errorf("[%s] Fail to count %s, err=%w", op, step.table, err)
		}
		if total > 0 {
			continue
		}
		if err := step.seed(ctx); err != nil {
			return fmt.Errorf("[%s] Fail to seed %s, err=%w", op, step.table, err)
		}
		slog.Info("Table seeded", slog.String("op", op), slog.String("table", step.table))
	}
	return nil
}

// countRows 的 table 只接受程式內的常數
func countRows(ctx context.Context, store *database.Store, table string) (int64, error) {
	rows, err := store.Query(ctx, fmt.Sprintf("SELECT COUNT(*) AS total FROM %s", table))
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int64("total"), nil
}

func seedAdmin(ctx context.Context, store *database.Store, hasher PasswordHasher, password string) error {
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	_, err = store.Modify(ctx, `INSERT INTO users (username, password) VALUES (?, ?)`, DefaultAdminUsername, hash)
	return err
}

func seedSellerRows(ctx context.Context, store *database.Store) error {
	for _, s := range seedSellers {
		_, err := store.Modify(ctx,
			`INSERT INTO sellers (name, contact_email, phone, address, about, photo) VALUES (?, ?, ?, ?, ?, ?)`,
			s.Name, s.ContactEmail, s.Phone, s.Address, s.About, s.Photo,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedCarRows(ctx context.Context, store *database.Store) error {
	for _, c := range seedCars {
		var sellerID any
		sellerPhoto := ""
		rows, err := store.Query(ctx, `SELECT id, photo FROM sellers WHERE name = ? ORDER BY id LIMIT 1`, c.SellerName)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			sellerID = rows[0].Int64("id")
			sellerPhoto = rows[0].String("photo")
		}
		_, err = store.Modify(ctx,
			`INSERT INTO cars (title, description, price, main_image, category, mileage, body_condition, fuel_efficiency, engine_performance, seller_name, seller_photo, seller_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Title, c.Description, c.Price, c.MainImage, c.Category, c.Mileage, c.BodyCondition,
			c.FuelEfficiency, c.EnginePerformance, c.SellerName, sellerPhoto, sellerID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
