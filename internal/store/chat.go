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

// ChatStore handles chat widget exchange records. Reply generation lives
// outside this service; these rows only feed the dashboard statistics.
type ChatStore struct {
	db *sql.DB
}

// NewChatStore creates a new ChatStore with the given database connection.
func NewChatStore(db *sql.DB) *ChatStore {
	return &ChatStore{db: db}
}

// Record inserts one chat exchange.
func (s *ChatStore) Record(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	out := &models.ChatMessage{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_history (restaurant_id, session_id, user_prompt, assistant_reply)
		VALUES ($1, $2, $3, $4)
		RETURNING id, restaurant_id, session_id, user_prompt, assistant_reply, created_at
	`, msg.RestaurantID, msg.SessionID, msg.UserPrompt, msg.AssistantReply).Scan(
		&out.ID, &out.RestaurantID, &out.SessionID, &out.UserPrompt, &out.AssistantReply, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record chat message: %w", err)
	}
	return out, nil
}

// ListForTenant returns all chat exchanges of a tenant's restaurants
// within [from, to], oldest first.
func (s *ChatStore) ListForTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ch.id, ch.restaurant_id, ch.session_id, ch.user_prompt, ch.assistant_reply, ch.created_at
		FROM chat_history ch
		JOIN restaurants r ON r.id = ch.restaurant_id
		WHERE r.tenant_id = $1 AND ch.created_at >= $2 AND ch.created_at <= $3
		ORDER BY ch.created_at ASC
	`, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list chat for tenant: %w", err)
	}
	defer rows.Close()

	return scanChatRows(rows)
}

// ListForRestaurant returns one restaurant's chat exchanges within
// [from, to], oldest first.
func (s *ChatStore) ListForRestaurant(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, restaurant_id, session_id, user_prompt, assistant_reply, created_at
		FROM chat_history
		WHERE restaurant_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC
	`, restaurantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list chat for restaurant: %w", err)
	}
	defer rows.Close()

	return scanChatRows(rows)
}

func scanChatRows(rows *sql.Rows) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.SessionID, &m.UserPrompt, &m.AssistantReply, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
