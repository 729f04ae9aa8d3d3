// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"restaubot/internal/cache"
	"restaubot/internal/dashboard"
	"restaubot/internal/menudoc"
	"restaubot/internal/middleware"
	"restaubot/internal/models"
	"restaubot/internal/session"
	"restaubot/internal/slug"
	"restaubot/internal/store"
)

// Dashboard serves the owner dashboard payload and restaurant management.
type Dashboard struct {
	users       *store.UserStore
	profiles    *store.ProfileStore
	restaurants *store.RestaurantStore
	chat        *store.ChatStore
	menuCache   *cache.MenuCache
}

// NewDashboard creates a new Dashboard handler group.
func NewDashboard(users *store.UserStore, profiles *store.ProfileStore, restaurants *store.RestaurantStore, chat *store.ChatStore, menuCache *cache.MenuCache) *Dashboard {
	return &Dashboard{
		users:       users,
		profiles:    profiles,
		restaurants: restaurants,
		chat:        chat,
		menuCache:   menuCache,
	}
}

// parseDateParam reads an optional YYYY-MM-DD query parameter.
func parseDateParam(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// Snapshot returns the full dashboard payload: KPIs, statistics,
// billing and profile, over an optional start/end date range.
func (d *Dashboard) Snapshot(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := d.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("dashboard user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	profile, err := d.profiles.Get(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("dashboard profile lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if profile == nil {
		profile = &models.Profile{ID: sess.UserID, FullName: sess.FullName}
	}

	restaurants, err := d.restaurants.ListByTenant(r.Context(), sess.TenantID)
	if err != nil {
		slog.Error("dashboard restaurants lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	now := time.Now()
	start, end := dashboard.ResolveRange(parseDateParam(r, "start"), parseDateParam(r, "end"), now)

	chatRows, err := d.chat.ListForTenant(r.Context(), sess.TenantID, start, end)
	if err != nil {
		slog.Error("dashboard chat lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	snapshot := dashboard.BuildSnapshot(*user, *profile, restaurants, chatRows, start, end, now)
	writeJSON(w, http.StatusOK, snapshot)
}

type profileRequest struct {
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
	Country     string `json:"country"`
	Timezone    string `json:"timezone"`
}

// UpdateProfile saves the editable profile fields. Plan changes go
// through their own endpoint.
func (d *Dashboard) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req profileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FullName == "" {
		writeError(w, http.StatusBadRequest, "Le nom complet est requis.")
		return
	}

	current, err := d.profiles.Get(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("profile lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	plan := models.PlanDiscovery
	if current != nil && current.Plan != "" {
		plan = current.Plan
	}

	updated, err := d.profiles.Upsert(r.Context(), &models.Profile{
		ID:          sess.UserID,
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
		Country:     req.Country,
		Timezone:    req.Timezone,
		Plan:        plan,
	})
	if err != nil {
		slog.Error("profile upsert failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

type planRequest struct {
	Plan string `json:"plan"`
}

// UpdatePlan switches the account to another subscription plan.
func (d *Dashboard) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req planRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	switch req.Plan {
	case models.PlanDiscovery, models.PlanPro, models.PlanPremium:
	default:
		writeError(w, http.StatusBadRequest, "Formule inconnue.")
		return
	}

	if err := d.profiles.UpdatePlan(r.Context(), sess.UserID, req.Plan); err != nil {
		slog.Error("plan update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"plan": req.Plan})
}

// ListRestaurants returns the tenant's restaurants.
func (d *Dashboard) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	restaurants, err := d.restaurants.ListByTenant(r.Context(), sess.TenantID)
	if err != nil {
		slog.Error("restaurants list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

type restaurantRequest struct {
	DisplayName  string          `json:"display_name"`
	MenuDocument json.RawMessage `json:"menu_document"`
}

// normalizeMenu round-trips a menu document through the model so the
// stored form is always canonical. Unparseable input degrades to an
// empty menu rather than failing the request.
func normalizeMenu(raw json.RawMessage) json.RawMessage {
	m := menudoc.New()
	m.LoadFromText(string(raw))
	return json.RawMessage(m.SerializeToText())
}

// CreateRestaurant adds a restaurant to the tenant.
func (d *Dashboard) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req restaurantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateRestaurant(req.DisplayName, string(req.MenuDocument)); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	restaurantSlug, err := d.uniqueSlug(r, req.DisplayName, uuid.Nil)
	if err != nil {
		slog.Error("restaurant slug failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	restaurant, err := d.restaurants.Create(r.Context(), sess.TenantID, req.DisplayName, restaurantSlug, normalizeMenu(req.MenuDocument))
	if err != nil {
		slog.Error("restaurant create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusCreated, restaurant)
}

// UpdateRestaurant saves a restaurant's name and menu document. The
// slug follows the display name; the public menu cache entry for the
// old slug is invalidated either way.
func (d *Dashboard) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	current, ok := d.ownedRestaurant(w, r, sess)
	if !ok {
		return
	}

	var req restaurantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateRestaurant(req.DisplayName, string(req.MenuDocument)); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	newSlug := current.Slug
	if req.DisplayName != current.DisplayName {
		var err error
		newSlug, err = d.uniqueSlug(r, req.DisplayName, current.ID)
		if err != nil {
			slog.Error("restaurant slug failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Erreur interne.")
			return
		}
	}

	updated, err := d.restaurants.Update(r.Context(), current.ID, req.DisplayName, newSlug, normalizeMenu(req.MenuDocument))
	if err != nil {
		slog.Error("restaurant update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	d.menuCache.Invalidate(r.Context(), current.Slug)
	if newSlug != current.Slug {
		d.menuCache.Invalidate(r.Context(), newSlug)
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteRestaurant removes a restaurant and everything attached to it.
func (d *Dashboard) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	current, ok := d.ownedRestaurant(w, r, sess)
	if !ok {
		return
	}

	if err := d.restaurants.Delete(r.Context(), current.ID); err != nil {
		slog.Error("restaurant delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	d.menuCache.Invalidate(r.Context(), current.Slug)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ownedRestaurant resolves the {restaurantID} URL parameter and checks
// tenant ownership. On failure the response is already written.
func (d *Dashboard) ownedRestaurant(w http.ResponseWriter, r *http.Request, sess *session.Data) (*models.Restaurant, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "restaurantID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Identifiant de restaurant invalide.")
		return nil, false
	}
	restaurant, err := d.restaurants.GetByID(r.Context(), id)
	if err != nil {
		slog.Error("restaurant lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return nil, false
	}
	if restaurant == nil || restaurant.TenantID != sess.TenantID {
		writeError(w, http.StatusForbidden, "Accès refusé à ce restaurant.")
		return nil, false
	}
	return restaurant, true
}

// uniqueSlug derives a free slug from a display name. The exclude ID
// lets an update keep its own slug when the name is unchanged enough
// to produce the same one.
func (d *Dashboard) uniqueSlug(r *http.Request, name string, exclude uuid.UUID) (string, error) {
	base := slug.Generate(name)
	if base == "" {
		base = "restaurant"
	}
	candidate := base
	for i := 2; ; i++ {
		existing, err := d.restaurants.GetBySlug(r.Context(), candidate)
		if err != nil {
			return "", err
		}
		if existing == nil || existing.ID == exclude {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
