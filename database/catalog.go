package database

import (
	"context"
	"database/sql"
	"fmt"

	"campuseats/models"
)

// Schema is portable between Postgres and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS canteens (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT,
		is_open BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		canteen_id TEXT NOT NULL REFERENCES canteens(id),
		name TEXT NOT NULL,
		description TEXT,
		category TEXT,
		price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		is_vegetarian BOOLEAN NOT NULL DEFAULT FALSE,
		image_url TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_canteen ON menu_items (canteen_id)`,
}

// CatalogStore reads canteens and menu items from SQL.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// Migrate creates the catalog tables if they are missing.
func (s *CatalogStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ListCanteens returns every canteen ordered by id.
func (s *CatalogStore) ListCanteens(ctx context.Context) ([]models.Canteen, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, COALESCE(location, ''), is_open FROM canteens ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("query canteens: %w", err)
	}
	defer rows.Close()

	canteens := []models.Canteen{}
	for rows.Next() {
		var c models.Canteen
		if err := rows.Scan(&c.ID, &c.Name, &c.Location, &c.IsOpen); err != nil {
			return nil, fmt.Errorf("scan canteen: %w", err)
		}
		canteens = append(canteens, c)
	}
	return canteens, rows.Err()
}

// ListMenuItems returns the menu of one canteen ordered by id.
func (s *CatalogStore) ListMenuItems(ctx context.Context, canteenID string) ([]models.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, canteen_id, name, COALESCE(description, ''), COALESCE(category, ''),
		       price, is_available, is_vegetarian, COALESCE(image_url, '')
		FROM menu_items
		WHERE canteen_id = $1
		ORDER BY id ASC
	`, canteenID)
	if err != nil {
		return nil, fmt.Errorf("query menu items for %s: %w", canteenID, err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.CanteenID, &it.Name, &it.Description, &it.Category,
			&it.Price, &it.IsAvailable, &it.IsVegetarian, &it.ImageURL); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Seed inserts canteens and items in one transaction.
func (s *CatalogStore) Seed(ctx context.Context, canteens []models.Canteen, items []models.MenuItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, c := range canteens {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO canteens (id, name, location, is_open) VALUES ($1, $2, $3, $4)",
			c.ID, c.Name, c.Location, c.IsOpen); err != nil {
			return fmt.Errorf("insert canteen %s: %w", c.ID, err)
		}
	}
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO menu_items (id, canteen_id, name, description, category, price, is_available, is_vegetarian, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, it.ID, it.CanteenID, it.Name, it.Description, it.Category, it.Price, it.IsAvailable, it.IsVegetarian, it.ImageURL); err != nil {
			return fmt.Errorf("insert menu item %s: %w", it.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
