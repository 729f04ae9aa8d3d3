// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"restaubot/internal/cache"
	"restaubot/internal/menudoc"
	"restaubot/internal/models"
	"restaubot/internal/store"
)

// Public serves the unauthenticated surface: the customer-facing menu
// and the chat transcript intake.
type Public struct {
	restaurants *store.RestaurantStore
	chat        *store.ChatStore
	menuCache   *cache.MenuCache
}

// NewPublic creates a new Public handler group.
func NewPublic(restaurants *store.RestaurantStore, chat *store.ChatStore, menuCache *cache.MenuCache) *Public {
	return &Public{restaurants: restaurants, chat: chat, menuCache: menuCache}
}

// Menu returns a restaurant's menu by slug. Responses are cached in
// Valkey; the dashboard invalidates entries on menu edits. The stored
// document is normalized before serving so the public payload is always
// canonical, even for menus saved before a format change.
func (p *Public) Menu(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if payload, ok := p.menuCache.Get(r.Context(), slug); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	restaurant, err := p.restaurants.GetBySlug(r.Context(), slug)
	if err != nil {
		slog.Error("public menu lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if restaurant == nil {
		writeError(w, http.StatusNotFound, "Restaurant introuvable.")
		return
	}

	m := menudoc.New()
	m.LoadFromText(string(restaurant.MenuDocument))

	payload, err := json.Marshal(map[string]any{
		"restaurant": restaurant.DisplayName,
		"slug":       restaurant.Slug,
		"menu":       m.Document(),
	})
	if err != nil {
		slog.Error("public menu encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	p.menuCache.Set(r.Context(), slug, payload)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

type chatRequest struct {
	SessionID      *uuid.UUID `json:"session_id"`
	UserPrompt     string     `json:"user_prompt"`
	AssistantReply string     `json:"assistant_reply"`
}

// RecordChat stores one customer chat exchange for a restaurant. The
// assistant runs elsewhere; this endpoint only keeps the transcript so
// the dashboard can report on it.
func (p *Public) RecordChat(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserPrompt == "" {
		writeError(w, http.StatusBadRequest, "Le message est requis.")
		return
	}
	if len(req.UserPrompt) > maxNotesLen || len(req.AssistantReply) > maxMenuDocLen {
		writeError(w, http.StatusBadRequest, "Message trop long.")
		return
	}

	restaurant, err := p.restaurants.GetBySlug(r.Context(), slug)
	if err != nil {
		slog.Error("chat restaurant lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if restaurant == nil {
		writeError(w, http.StatusNotFound, "Restaurant introuvable.")
		return
	}

	msg, err := p.chat.Record(r.Context(), &models.ChatMessage{
		RestaurantID:   restaurant.ID,
		SessionID:      req.SessionID,
		UserPrompt:     req.UserPrompt,
		AssistantReply: req.AssistantReply,
	})
	if err != nil {
		slog.Error("chat record failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
