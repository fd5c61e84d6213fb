package repo

import (
	"context"
	"database/sql"
	"fmt"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/security"
)

// EnsureSchema creates the tables if they do not exist yet. Statements run
// in dependency order (stores before items, orders before order_items).
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(100),
			middle_name VARCHAR(100),
			last_name VARCHAR(100),
			dob DATE,
			role VARCHAR(50) DEFAULT 'employee',
			avatar_url TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS stores (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			location VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			sku VARCHAR(64) UNIQUE,
			name VARCHAR(255) NOT NULL,
			store_id BIGINT,
			category VARCHAR(100),
			quantity INT NOT NULL DEFAULT 0,
			location VARCHAR(100),
			price_cents BIGINT NOT NULL DEFAULT 0,
			image_url TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT,
			total_cents BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			item_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			price_cents_each BIGINT NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE RESTRICT
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_events (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			item_id BIGINT,
			sku VARCHAR(64),
			action VARCHAR(50),
			detail TEXT,
			delta INT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE SET NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Seed inserts an admin user and a few sample items, but only into empty
// tables, so it is safe to run on every startup.
func Seed(ctx context.Context, db *sql.DB, adminEmail, adminPassword string) error {
	var userCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if userCount == 0 {
		hash, err := security.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		if _, err := db.ExecContext(ctx, `
INSERT INTO users (email, password_hash, first_name, last_name, role)
VALUES (?, ?, 'Admin', 'User', ?)`, adminEmail, hash, domain.RoleAdmin); err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
	}

	var itemCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&itemCount); err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if itemCount > 0 {
		return nil
	}

	samples := []struct {
		sku, name, category, location string
		quantity                      int
		priceCents                    int64
	}{
		{"SKU-001", "USB-C Cable", "Accessories", "Aisle 1", 120, 1250},
		{"SKU-002", "Wireless Mouse", "Peripherals", "Aisle 2", 45, 2990},
		{"SKU-003", "Laptop Stand", "Accessories", "Aisle 3", 30, 5400},
	}
	for _, s := range samples {
		if _, err := db.ExecContext(ctx, `
INSERT INTO items (sku, name, category, quantity, location, price_cents)
VALUES (?, ?, ?, ?, ?, ?)`,
			s.sku, s.name, s.category, s.quantity, s.location, s.priceCents); err != nil {
			return fmt.Errorf("seed item %s: %w", s.sku, err)
		}
	}
	return nil
}
