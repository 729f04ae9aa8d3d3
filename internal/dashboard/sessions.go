// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dashboard aggregates chat history, menu documents and billing
// state into the snapshot the dashboard view consumes.
package dashboard

import (
	"time"

	"github.com/google/uuid"

	"restaubot/internal/models"
)

// Session is one grouped chat conversation.
type Session struct {
	Key          string
	RestaurantID uuid.UUID
	StartedAt    time.Time
	Messages     int
	Resolved     bool
}

// GroupSessions folds chat messages into conversations. Messages sharing
// a session id belong together; rows without one count as single-message
// sessions. A session is resolved as soon as any of its messages carries
// an assistant reply.
func GroupSessions(rows []models.ChatMessage) map[string]*Session {
	sessions := make(map[string]*Session)
	for _, row := range rows {
		key := sessionKey(row)
		session, ok := sessions[key]
		if !ok {
			session = &Session{
				Key:          key,
				RestaurantID: row.RestaurantID,
				StartedAt:    row.CreatedAt,
			}
			sessions[key] = session
		} else if !row.CreatedAt.IsZero() && (session.StartedAt.IsZero() || row.CreatedAt.Before(session.StartedAt)) {
			session.StartedAt = row.CreatedAt
		}
		session.Messages++
		if row.AssistantReply != "" {
			session.Resolved = true
		}
	}
	return sessions
}

func sessionKey(row models.ChatMessage) string {
	if row.SessionID != nil {
		return row.SessionID.String()
	}
	return row.RestaurantID.String() + ":" + row.ID.String()
}

// CountUserMessages counts the messages customers sent, as opposed to
// assistant replies.
func CountUserMessages(rows []models.ChatMessage) int {
	total := 0
	for _, row := range rows {
		if row.UserPrompt != "" {
			total++
		}
	}
	return total
}
