// Package router sets up all HTTP routes and middleware chains for the
// RestauBot API. Routes split into the public menu surface and the
// authenticated dashboard API; the purchasing group additionally scopes
// every request to one restaurant via the X-Restaurant-Id header.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"restaubot/internal/handlers"
	"restaubot/internal/middleware"
	"restaubot/internal/session"
	"restaubot/internal/store"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	sessionStore *session.Store,
	restaurants *store.RestaurantStore,
	auth *handlers.Auth,
	dashboard *handlers.Dashboard,
	purchasing *handlers.Purchasing,
	public *handlers.Public,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Public surface — the customer-facing menu and chat intake.
	r.Route("/r/{slug}", func(r chi.Router) {
		r.Get("/menu", public.Menu)
		r.Post("/chat", public.RecordChat)
	})

	// Dashboard API.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Auth — accessible without a session. Credential endpoints are
		// rate-limited per IP to slow down guessing.
		authLimiter := middleware.NewRateLimiter(10, time.Minute)
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/auth/signup", auth.Signup)
			r.Post("/auth/login", auth.Login)
		})
		r.Post("/auth/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/auth/me", auth.Me)
			r.Post("/auth/2fa/setup", auth.TwoFASetup)
			r.Post("/auth/2fa/verify", auth.TwoFAVerify)
		})

		// Authenticated + 2FA-verified area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Re-enrollment requires a fully verified session.
			r.Post("/auth/2fa/reset", auth.TwoFAReset)

			// Dashboard
			r.Get("/dashboard", dashboard.Snapshot)
			r.Put("/profile", dashboard.UpdateProfile)
			r.Put("/profile/plan", dashboard.UpdatePlan)

			// Restaurants
			r.Route("/restaurants", func(r chi.Router) {
				r.Get("/", dashboard.ListRestaurants)
				r.Post("/", dashboard.CreateRestaurant)
				r.Put("/{restaurantID}", dashboard.UpdateRestaurant)
				r.Delete("/{restaurantID}", dashboard.DeleteRestaurant)
			})

			// Purchasing — scoped to one restaurant per request.
			r.Route("/purchasing", func(r chi.Router) {
				r.Use(middleware.RequireRestaurant(restaurants))

				r.Get("/recommendations", purchasing.Recommendations)
				r.Get("/summary", purchasing.Summary)
				r.Get("/stock", purchasing.StockOverview)

				r.Route("/ingredients", func(r chi.Router) {
					r.Get("/", purchasing.ListIngredients)
					r.Post("/", purchasing.CreateIngredient)
					r.Put("/{ingredientID}", purchasing.UpdateIngredient)
					r.Delete("/{ingredientID}", purchasing.DeleteIngredient)
					r.Put("/{ingredientID}/stock", purchasing.UpdateStock)
					r.Put("/{ingredientID}/safety-stock", purchasing.UpdateSafetyStock)
					r.Put("/{ingredientID}/supplier", purchasing.SetSupplierOverride)
					r.Delete("/{ingredientID}/supplier", purchasing.DeleteSupplierOverride)
				})

				r.Route("/suppliers", func(r chi.Router) {
					r.Get("/", purchasing.ListSuppliers)
					r.Post("/", purchasing.CreateSupplier)
					r.Put("/{supplierID}", purchasing.UpdateSupplier)
					r.Delete("/{supplierID}", purchasing.DeleteSupplier)
				})

				r.Route("/menu-items", func(r chi.Router) {
					r.Get("/", purchasing.ListMenuItems)
					r.Post("/", purchasing.CreateMenuItem)
					r.Post("/bootstrap", purchasing.BootstrapMenuItems)
					r.Put("/{menuItemID}", purchasing.UpdateMenuItem)
					r.Delete("/{menuItemID}", purchasing.DeleteMenuItem)
					r.Get("/{menuItemID}/recipe", purchasing.GetRecipe)
					r.Put("/{menuItemID}/recipe", purchasing.SaveRecipe)
				})

				r.Post("/sales", purchasing.RecordSale)

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", purchasing.ListPurchaseOrders)
					r.Post("/", purchasing.CreatePurchaseOrder)
					r.Get("/{orderID}", purchasing.GetPurchaseOrder)
				})
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
