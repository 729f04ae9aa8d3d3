// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one exchange recorded by the chat widget: the visitor's
// prompt and the assistant's reply. Reply generation happens elsewhere;
// this record only feeds the dashboard statistics.
type ChatMessage struct {
	ID             uuid.UUID  `json:"id"`
	RestaurantID   uuid.UUID  `json:"restaurant_id"`
	SessionID      *uuid.UUID `json:"session_id,omitempty"`
	UserPrompt     string     `json:"user_prompt"`
	AssistantReply string     `json:"assistant_reply"`
	CreatedAt      time.Time  `json:"created_at"`
}
