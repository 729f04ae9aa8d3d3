// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"restaubot/internal/models"
)

// OrderStore handles dish sale records.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore creates a new OrderStore with the given database connection.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// RecordSale inserts one sale. A zero orderedAt means "now".
func (s *OrderStore) RecordSale(ctx context.Context, restaurantID, menuItemID uuid.UUID, quantity int, source string, orderedAt time.Time) (*models.Order, error) {
	if orderedAt.IsZero() {
		orderedAt = time.Now()
	}

	o := &models.Order{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO orders (restaurant_id, menu_item_id, quantity, source, ordered_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, restaurant_id, menu_item_id, quantity, source, ordered_at
	`, restaurantID, menuItemID, quantity, source, orderedAt).Scan(
		&o.ID, &o.RestaurantID, &o.MenuItemID, &o.Quantity, &o.Source, &o.OrderedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}
	return o, nil
}

// ListBetween returns all sales of a restaurant within [from, to].
func (s *OrderStore) ListBetween(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, restaurant_id, menu_item_id, quantity, source, ordered_at
		FROM orders
		WHERE restaurant_id = $1 AND ordered_at >= $2 AND ordered_at <= $3
		ORDER BY ordered_at ASC
	`, restaurantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.RestaurantID, &o.MenuItemID, &o.Quantity, &o.Source, &o.OrderedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
