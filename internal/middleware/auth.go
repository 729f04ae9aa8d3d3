// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"restaubot/internal/models"
	"restaubot/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"

	// RestaurantKey is the context key for the resolved restaurant.
	RestaurantKey contextKey = "restaurant"

	// RestaurantHeader carries the active restaurant's ID on every
	// dashboard API request.
	RestaurantHeader = "X-Restaurant-Id"
)

// RestaurantLoader resolves a restaurant by ID. Implemented by the
// restaurant store.
type RestaurantLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

// LoadSession retrieves the session from Valkey and stores it in the
// request context. Downstream handlers can access it via SessionFromCtx().
// This middleware does NOT enforce authentication — it just loads the
// session if one exists.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				// Log but don't block — treat as unauthenticated.
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects unauthenticated requests with 401.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil {
			JSONError(w, http.StatusUnauthorized, "Authentification requise.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Require2FA rejects users who haven't completed two-factor verification
// for this session. Must be applied after RequireAuth.
func Require2FA(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess != nil && !sess.TwoFADone {
			JSONError(w, http.StatusForbidden, "Vérification en deux étapes requise.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireOwner returns 403 if the authenticated user does not own the
// tenant account. Must be applied after RequireAuth.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil || sess.Role != string(models.RoleOwner) {
			JSONError(w, http.StatusForbidden, "Accès réservé au propriétaire.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRestaurant resolves the X-Restaurant-Id header to a restaurant
// owned by the session's tenant and stores it in the request context.
// Must be applied after RequireAuth.
func RequireRestaurant(loader RestaurantLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromCtx(r.Context())
			if sess == nil {
				JSONError(w, http.StatusUnauthorized, "Authentification requise.")
				return
			}

			raw := r.Header.Get(RestaurantHeader)
			if raw == "" {
				JSONError(w, http.StatusUnauthorized, "Restaurant non authentifié.")
				return
			}

			id, err := uuid.Parse(raw)
			if err != nil {
				JSONError(w, http.StatusBadRequest, "Identifiant de restaurant invalide.")
				return
			}

			restaurant, err := loader.GetByID(r.Context(), id)
			if err != nil {
				JSONError(w, http.StatusInternalServerError, "Erreur interne.")
				return
			}
			if restaurant == nil || restaurant.TenantID != sess.TenantID {
				JSONError(w, http.StatusForbidden, "Accès refusé à ce restaurant.")
				return
			}

			ctx := context.WithValue(r.Context(), RestaurantKey, restaurant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// RestaurantFromCtx extracts the resolved restaurant from the request
// context. Returns nil outside of RequireRestaurant-protected routes.
func RestaurantFromCtx(ctx context.Context) *models.Restaurant {
	restaurant, _ := ctx.Value(RestaurantKey).(*models.Restaurant)
	return restaurant
}

// JSONError writes a small JSON error body in the shape the dashboard
// frontend expects: {"detail": "..."}.
func JSONError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
