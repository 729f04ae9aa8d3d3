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

// PurchaseOrderStore handles supplier orders and their lines.
type PurchaseOrderStore struct {
	db *sql.DB
}

// NewPurchaseOrderStore creates a new PurchaseOrderStore with the given database connection.
func NewPurchaseOrderStore(db *sql.DB) *PurchaseOrderStore {
	return &PurchaseOrderStore{db: db}
}

// PurchaseOrderSummary is one row of the purchase order list view.
type PurchaseOrderSummary struct {
	models.PurchaseOrder
	SupplierName string `json:"supplier_name"`
	LineCount    int    `json:"line_count"`
}

// Create inserts a purchase order and its lines in one transaction.
func (s *PurchaseOrderStore) Create(ctx context.Context, order *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create purchase order begin: %w", err)
	}
	defer tx.Rollback()

	out := &models.PurchaseOrder{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO purchase_orders (restaurant_id, supplier_id, status, expected_delivery_date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, restaurant_id, supplier_id, status, expected_delivery_date, notes, created_at
	`, order.RestaurantID, order.SupplierID, order.Status, order.ExpectedDeliveryDate, order.Notes).Scan(
		&out.ID, &out.RestaurantID, &out.SupplierID, &out.Status,
		&out.ExpectedDeliveryDate, &out.Notes, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}

	for _, line := range order.Lines {
		var inserted models.PurchaseOrderLine
		err := tx.QueryRowContext(ctx, `
			INSERT INTO purchase_order_lines (purchase_order_id, ingredient_id, quantity_ordered, unit)
			VALUES ($1, $2, $3, $4)
			RETURNING id, purchase_order_id, ingredient_id, quantity_ordered, unit
		`, out.ID, line.IngredientID, line.QuantityOrdered, line.Unit).Scan(
			&inserted.ID, &inserted.PurchaseOrderID, &inserted.IngredientID,
			&inserted.QuantityOrdered, &inserted.Unit,
		)
		if err != nil {
			return nil, fmt.Errorf("create purchase order line: %w", err)
		}
		inserted.IngredientName = line.IngredientName
		out.Lines = append(out.Lines, inserted)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create purchase order commit: %w", err)
	}
	return out, nil
}

// GetByID retrieves one purchase order with its lines and ingredient
// names. Returns nil if not found.
func (s *PurchaseOrderStore) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*models.PurchaseOrder, error) {
	po := &models.PurchaseOrder{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, restaurant_id, supplier_id, status, expected_delivery_date, notes, created_at
		FROM purchase_orders WHERE restaurant_id = $1 AND id = $2
	`, restaurantID, id).Scan(
		&po.ID, &po.RestaurantID, &po.SupplierID, &po.Status,
		&po.ExpectedDeliveryDate, &po.Notes, &po.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase order: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.purchase_order_id, l.ingredient_id, l.quantity_ordered, l.unit,
		       COALESCE(i.name, '')
		FROM purchase_order_lines l
		LEFT JOIN ingredients i ON i.id = l.ingredient_id
		WHERE l.purchase_order_id = $1
		ORDER BY COALESCE(i.name, '') ASC
	`, po.ID)
	if err != nil {
		return nil, fmt.Errorf("get purchase order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.PurchaseOrderLine
		if err := rows.Scan(
			&line.ID, &line.PurchaseOrderID, &line.IngredientID,
			&line.QuantityOrdered, &line.Unit, &line.IngredientName,
		); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		po.Lines = append(po.Lines, line)
	}
	return po, rows.Err()
}

// List returns a restaurant's purchase orders newest first, each with its
// supplier name and line count. A deleted supplier leaves an empty name.
func (s *PurchaseOrderStore) List(ctx context.Context, restaurantID uuid.UUID) ([]PurchaseOrderSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT po.id, po.restaurant_id, po.supplier_id, po.status,
		       po.expected_delivery_date, po.notes, po.created_at,
		       COALESCE(sup.name, ''),
		       (SELECT COUNT(*) FROM purchase_order_lines l WHERE l.purchase_order_id = po.id)
		FROM purchase_orders po
		LEFT JOIN suppliers sup ON sup.id = po.supplier_id
		WHERE po.restaurant_id = $1
		ORDER BY po.created_at DESC
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var out []PurchaseOrderSummary
	for rows.Next() {
		var sum PurchaseOrderSummary
		if err := rows.Scan(
			&sum.ID, &sum.RestaurantID, &sum.SupplierID, &sum.Status,
			&sum.ExpectedDeliveryDate, &sum.Notes, &sum.CreatedAt,
			&sum.SupplierName, &sum.LineCount,
		); err != nil {
			return nil, fmt.Errorf("scan purchase order summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// LastOrder is the most recent purchase of one ingredient.
type LastOrder struct {
	Date     time.Time
	Quantity float64
}

// LastOrders returns, per ingredient, the date and quantity of its most
// recent purchase order line.
func (s *PurchaseOrderStore) LastOrders(ctx context.Context, restaurantID uuid.UUID) (map[uuid.UUID]LastOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT ON (l.ingredient_id)
		       l.ingredient_id, po.created_at, l.quantity_ordered
		FROM purchase_order_lines l
		JOIN purchase_orders po ON po.id = l.purchase_order_id
		WHERE po.restaurant_id = $1
		ORDER BY l.ingredient_id, po.created_at DESC
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("last orders: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]LastOrder)
	for rows.Next() {
		var id uuid.UUID
		var lo LastOrder
		if err := rows.Scan(&id, &lo.Date, &lo.Quantity); err != nil {
			return nil, fmt.Errorf("scan last order: %w", err)
		}
		out[id] = lo
	}
	return out, rows.Err()
}
