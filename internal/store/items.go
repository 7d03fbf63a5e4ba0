package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/zaloga/internal/apperror"
	"github.com/mlakar/zaloga/internal/model"
)

// CreateItem creates a new item. Image may be empty (API-created items
// without an upload).
func CreateItem(ctx context.Context, db *sql.DB, name string, price model.Cents, quantity int, image string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, price_cents, quantity, image) VALUES (?, ?, ?, ?)`,
		name, int64(price), quantity, image,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, price_cents, quantity, image, created_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.Image, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperror.New(apperror.NotFound, "item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items in insertion order.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, price_cents, quantity, image, created_at
		 FROM items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.Image, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's fields, including its image reference.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name string, price model.Cents, quantity int, image string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, price_cents = ?, quantity = ?, image = ? WHERE id = ?`,
		name, int64(price), quantity, image, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return nil, apperror.New(apperror.NotFound, "item not found")
	}

	return GetItem(ctx, db, id)
}

// DeleteItem removes an item and returns the deleted record so callers
// can clean up its stored file.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting item: %w", err)
	}

	return item, nil
}
