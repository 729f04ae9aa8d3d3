// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"restaubot/internal/middleware"
	"restaubot/internal/models"
	"restaubot/internal/purchasing"
	"restaubot/internal/stock"
	"restaubot/internal/store"
)

// Purchasing serves the procurement dashboard: recommendations, stock,
// the ingredient and supplier catalogs, recipes with costing, sales and
// purchase orders. Every handler runs behind RequireRestaurant.
type Purchasing struct {
	ingredients    *store.IngredientStore
	suppliers      *store.SupplierStore
	menuItems      *store.MenuItemStore
	recipes        *store.RecipeStore
	orders         *store.OrderStore
	purchaseOrders *store.PurchaseOrderStore

	reorderCycleDays    int
	defaultLeadTimeDays int
}

// NewPurchasing creates a new Purchasing handler group.
func NewPurchasing(
	ingredients *store.IngredientStore,
	suppliers *store.SupplierStore,
	menuItems *store.MenuItemStore,
	recipes *store.RecipeStore,
	orders *store.OrderStore,
	purchaseOrders *store.PurchaseOrderStore,
	reorderCycleDays, defaultLeadTimeDays int,
) *Purchasing {
	return &Purchasing{
		ingredients:         ingredients,
		suppliers:           suppliers,
		menuItems:           menuItems,
		recipes:             recipes,
		orders:              orders,
		purchaseOrders:      purchaseOrders,
		reorderCycleDays:    reorderCycleDays,
		defaultLeadTimeDays: defaultLeadTimeDays,
	}
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Identifiant invalide.")
		return uuid.Nil, false
	}
	return id, true
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// planningData is everything a recommendation run loads from the store.
type planningData struct {
	recommendations []purchasing.Recommendation
	history         purchasing.SalesHistory
	params          purchasing.Params
}

// loadPlanningData resolves the requested date range, loads the catalog,
// sales, stock and supplier data, and computes recommendations.
func (p *Purchasing) loadPlanningData(r *http.Request, restaurantID uuid.UUID) (*planningData, error) {
	from, to, err := purchasing.ResolveDateRange(parseDateParam(r, "date_from"), parseDateParam(r, "date_to"), time.Now())
	if err != nil {
		return nil, err
	}
	params := purchasing.Params{
		DateFrom:            from,
		DateTo:              to,
		ReorderCycleDays:    p.reorderCycleDays,
		DefaultLeadTimeDays: p.defaultLeadTimeDays,
	}

	ctx := r.Context()
	ingredients, err := p.ingredients.List(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	stockRows, err := p.ingredients.ListStock(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	suppliers, err := p.suppliers.List(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	overrides, err := p.suppliers.ListOverrides(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	menuItems, err := p.menuItems.List(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	recipes, err := p.recipes.ListAll(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	orders, err := p.orders.ListBetween(ctx, restaurantID, from, to.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	lastOrders, err := p.purchaseOrders.LastOrders(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	itemNames := make(map[uuid.UUID]string, len(menuItems))
	for _, it := range menuItems {
		itemNames[it.ID] = it.Name
	}
	history := purchasing.AggregateSales(orders, recipes, itemNames)

	ingredientInputs := make([]purchasing.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		input := purchasing.Ingredient{
			ID:                ing.ID,
			Name:              ing.Name,
			Unit:              ing.Unit,
			DefaultSupplierID: ing.DefaultSupplierID,
		}
		if last, ok := lastOrders[ing.ID]; ok {
			date, qty := last.Date, last.Quantity
			input.LastOrderDate = &date
			input.LastOrderQuantity = &qty
		}
		ingredientInputs = append(ingredientInputs, input)
	}

	stockLevels := make(map[uuid.UUID]purchasing.StockLevel, len(stockRows))
	for _, row := range stockRows {
		stockLevels[row.IngredientID] = purchasing.StockLevel{
			CurrentStock: row.CurrentStock,
			SafetyStock:  row.SafetyStock,
		}
	}
	supplierInputs := make(map[uuid.UUID]purchasing.Supplier, len(suppliers))
	for _, sup := range suppliers {
		lead := sup.DefaultLeadTimeDays
		supplierInputs[sup.ID] = purchasing.Supplier{
			ID:                  sup.ID,
			Name:                sup.Name,
			ContactEmail:        sup.ContactEmail,
			DefaultLeadTimeDays: &lead,
		}
	}
	overrideInputs := make(map[uuid.UUID]purchasing.SupplierOverride, len(overrides))
	for _, ov := range overrides {
		overrideInputs[ov.IngredientID] = purchasing.SupplierOverride{
			SupplierID:   ov.SupplierID,
			LeadTimeDays: ov.LeadTimeDays,
		}
	}

	recs, err := purchasing.ComputeRecommendations(ingredientInputs, history.Consumption, stockLevels, overrideInputs, supplierInputs, params)
	if err != nil {
		return nil, err
	}
	return &planningData{recommendations: recs, history: history, params: params}, nil
}

// Recommendations returns the per-ingredient purchase recommendations
// for the requested window.
func (p *Purchasing) Recommendations(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	data, err := p.loadPlanningData(r, restaurant.ID)
	if err != nil {
		if errors.Is(err, purchasing.ErrDateRange) {
			writeError(w, http.StatusBadRequest, "Plage de dates invalide.")
			return
		}
		slog.Error("recommendations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date_from":       data.params.DateFrom.Format("2006-01-02"),
		"date_to":         data.params.DateTo.Format("2006-01-02"),
		"recommendations": data.recommendations,
	})
}

// Summary returns the purchasing dashboard KPIs for the requested window.
func (p *Purchasing) Summary(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	data, err := p.loadPlanningData(r, restaurant.ID)
	if err != nil {
		if errors.Is(err, purchasing.ErrDateRange) {
			writeError(w, http.StatusBadRequest, "Plage de dates invalide.")
			return
		}
		slog.Error("purchasing summary failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	writeJSON(w, http.StatusOK, purchasing.BuildSummary(data.recommendations, data.history, data.params))
}

// StockOverview returns the normalized stock status of every ingredient.
func (p *Purchasing) StockOverview(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	ingredients, err := p.ingredients.List(r.Context(), restaurant.ID)
	if err != nil {
		slog.Error("stock overview failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	stockRows, err := p.ingredients.ListStock(r.Context(), restaurant.ID)
	if err != nil {
		slog.Error("stock overview failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	levels := make(map[uuid.UUID]models.IngredientStock, len(stockRows))
	for _, row := range stockRows {
		levels[row.IngredientID] = row
	}

	overview := stock.Overview{Items: make([]stock.StatusRow, 0, len(ingredients))}
	for _, ing := range ingredients {
		overview.Items = append(overview.Items, stock.BuildStatusRow(ing, levels[ing.ID]))
	}
	writeJSON(w, http.StatusOK, overview)
}

type ingredientRequest struct {
	Name              string     `json:"name"`
	Unit              string     `json:"unit"`
	DefaultSupplierID *uuid.UUID `json:"default_supplier_id"`
}

// ListIngredients returns the ingredient catalog with stock levels.
func (p *Purchasing) ListIngredients(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	ingredients, err := p.ingredients.List(r.Context(), restaurant.ID)
	if err != nil {
		slog.Error("ingredients list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	stockRows, err := p.ingredients.ListStock(r.Context(), restaurant.ID)
	if err != nil {
		slog.Error("ingredients list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	levels := make(map[uuid.UUID]models.IngredientStock, len(stockRows))
	for _, row := range stockRows {
		levels[row.IngredientID] = row
	}

	type ingredientRow struct {
		models.Ingredient
		CurrentStock float64 `json:"current_stock"`
		SafetyStock  float64 `json:"safety_stock"`
		UnitCost     float64 `json:"unit_cost"`
	}
	rows := make([]ingredientRow, 0, len(ingredients))
	for _, ing := range ingredients {
		level := levels[ing.ID]
		rows = append(rows, ingredientRow{
			Ingredient:   ing,
			CurrentStock: level.CurrentStock,
			SafetyStock:  level.SafetyStock,
			UnitCost:     level.UnitCost,
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

// CreateIngredient adds an ingredient to the catalog.
func (p *Purchasing) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	var req ingredientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateIngredient(req.Name, req.Unit); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ing, err := p.ingredients.Create(r.Context(), restaurant.ID, req.Name, req.Unit, req.DefaultSupplierID)
	if err != nil {
		slog.Error("ingredient create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusCreated, ing)
}

// UpdateIngredient updates an ingredient's name, unit and supplier.
func (p *Purchasing) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	id, ok := parseUUIDParam(w, r, "ingredientID")
	if !ok {
		return
	}

	var req ingredientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateIngredient(req.Name, req.Unit); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ing, err := p.ingredients.Update(r.Context(), restaurant.ID, id, req.Name, req.Unit, req.DefaultSupplierID)
	if err != nil {
		slog.Error("ingredient update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if ing == nil {
		writeError(w, http.StatusNotFound, "Ingrédient introuvable.")
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

// DeleteIngredient removes an ingredient and its stock and recipe lines.
func (p *Purchasing) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	id, ok := parseUUIDParam(w, r, "ingredientID")
	if !ok {
		return
	}

	if err := p.ingredients.Delete(r.Context(), restaurant.ID, id); err != nil {
		slog.Error("ingredient delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type stockRequest struct {
	CurrentStock float64 `json:"current_stock"`
	SafetyStock  float64 `json:"safety_stock"`
	UnitCost     float64 `json:"unit_cost"`
}

// UpdateStock stores a manual stock count for one ingredient.
func (p *Purchasing) UpdateStock(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	id, ok := parseUUIDParam(w, r, "ingredientID")
	if !ok {
		return
	}

	var req stockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CurrentStock < 0 || req.SafetyStock < 0 || req.UnitCost < 0 {
		writeError(w, http.StatusBadRequest, "Les quantités doivent être positives.")
		return
	}

	if err := p.ingredients.UpsertStock(r.Context(), restaurant.ID, id, req.CurrentStock, req.SafetyStock, req.UnitCost); err != nil {
		slog.Error("stock update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	level, err := p.ingredients.GetStock(r.Context(), restaurant.ID, id)
	if err != nil || level == nil {
		slog.Error("stock readback failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, level)
}

type safetyStockRequest struct {
	SafetyStock float64 `json:"safety_stock"`
}

// UpdateSafetyStock adjusts only the safety threshold.
func (p *Purchasing) UpdateSafetyStock(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	id, ok := parseUUIDParam(w, r, "ingredientID")
	if !ok {
		return
	}

	var req safetyStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SafetyStock < 0 {
		writeError(w, http.StatusBadRequest, "Les quantités doivent être positives.")
		return
	}

	if err := p.ingredients.UpdateSafetyStock(r.Context(), restaurant.ID, id, req.SafetyStock); err != nil {
		slog.Error("safety stock update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"safety_stock": req.SafetyStock})
}

type supplierRequest struct {
	Name                string `json:"name"`
	ContactEmail        string `json:"contact_email"`
	DefaultLeadTimeDays int    `json:"default_lead_time_days"`
}

// ListSuppliers returns the supplier catalog.
func (p *Purchasing) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	suppliers, err := p.suppliers.List(r.Context(), restaurant.ID)
	if err != nil {
		slog.Error("suppliers list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

// CreateSupplier adds a supplier.
func (p *Purchasing) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	var req supplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateSupplier(req.Name, req.ContactEmail, req.DefaultLeadTimeDays); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sup, err := p.suppliers.Create(r.Context(), restaurant.ID, req.Name, req.ContactEmail, req.DefaultLeadTimeDays)
	if err != nil {
		slog.Error("supplier create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusCreated, sup)
}

// UpdateSupplier updates a supplier's contact and lead time.
func (p *Purchasing) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	id, ok := parseUUIDParam(w, r, "supplierID")
	if !ok {
		return
	}

	var req supplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateSupplier(req.Name, req.ContactEmail, req.DefaultLeadTimeDays); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sup, err := p.suppliers.Update(r.Context(), restaurant.ID, id, req.Name, req.ContactEmail, req.DefaultLeadTimeDays)
	if err != nil {
		slog.Error("supplier update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if sup == nil {
		writeError(w, http.StatusNotFound, "Fournisseur introuvable.")
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

// DeleteSupplier removes a supplier. Ingredients that pointed to it fall
// back to no default supplier.
func (p *Purchasing) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	id, ok := parseUUIDParam(w, r, "supplierID")
	if !ok {
		return
	}

	if err := p.suppliers.Delete(r.Context(), restaurant.ID, id); err != nil {
		slog.Error("supplier delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type supplierOverrideRequest struct {
	SupplierID   uuid.UUID `json:"supplier_id"`
	LeadTimeDays *int      `json:"lead_time_days"`
}

// SetSupplierOverride assigns a supplier to one ingredient, taking
// precedence over the ingredient's default.
func (p *Purchasing) SetSupplierOverride(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	ingredientID, ok := parseUUIDParam(w, r, "ingredientID")
	if !ok {
		return
	}

	var req supplierOverrideRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SupplierID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "Le fournisseur est requis.")
		return
	}
	if req.LeadTimeDays != nil && *req.LeadTimeDays < 0 {
		writeError(w, http.StatusBadRequest, "Le délai de livraison doit être positif.")
		return
	}

	if err := p.suppliers.SetOverride(r.Context(), restaurant.ID, ingredientID, req.SupplierID, req.LeadTimeDays); err != nil {
		slog.Error("supplier override failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// DeleteSupplierOverride removes an ingredient's supplier override.
func (p *Purchasing) DeleteSupplierOverride(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	ingredientID, ok := parseUUIDParam(w, r, "ingredientID")
	if !ok {
		return
	}

	if err := p.suppliers.DeleteOverride(r.Context(), restaurant.ID, ingredientID); err != nil {
		slog.Error("supplier override delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
