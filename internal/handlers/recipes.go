// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"restaubot/internal/menudoc"
	"restaubot/internal/middleware"
	"restaubot/internal/models"
	"restaubot/internal/recipecost"
	"restaubot/internal/stock"
)

// menuItemRow is a menu item enriched with its derived production cost
// and margin for the listing view.
type menuItemRow struct {
	models.MenuItem
	Cost         float64  `json:"cost"`
	Margin       *float64 `json:"margin,omitempty"`
	IsManualCost bool     `json:"is_manual_cost"`
	LineCount    int      `json:"line_count"`
}

// ListMenuItems returns the dish catalog with recipe-derived costs.
// A manual production cost supersedes the sum of recipe lines.
func (p *Purchasing) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	items, err := p.menuItems.List(r.Context(), restaurant.ID)
	if err != nil {
		slog.Error("menu items list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	recipes, err := p.recipes.ListAll(r.Context(), restaurant.ID)
	if err != nil {
		slog.Error("menu items list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	stockRows, err := p.ingredients.ListStock(r.Context(), restaurant.ID)
	if err != nil {
		slog.Error("menu items list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	unitCosts := make(map[uuid.UUID]float64, len(stockRows))
	for _, row := range stockRows {
		unitCosts[row.IngredientID] = row.UnitCost
	}
	linesByItem := make(map[uuid.UUID][]models.RecipeLine, len(items))
	for _, line := range recipes {
		linesByItem[line.MenuItemID] = append(linesByItem[line.MenuItemID], line)
	}

	rows := make([]menuItemRow, 0, len(items))
	for _, item := range items {
		lines := linesByItem[item.ID]
		var cost float64
		if item.HasManualCost() {
			cost = *item.ProductionCost
		} else {
			for _, line := range lines {
				cost += line.QuantityPerUnit * unitCosts[line.IngredientID]
			}
		}
		row := menuItemRow{
			MenuItem:     item,
			Cost:         round2(cost),
			IsManualCost: item.HasManualCost(),
			LineCount:    len(lines),
		}
		if item.MenuPrice != nil {
			if margin, ok := recipecost.Margin(*item.MenuPrice, cost); ok {
				rounded := round1(margin)
				row.Margin = &rounded
			}
		}
		rows = append(rows, row)
	}
	writeJSON(w, http.StatusOK, rows)
}

type menuItemRequest struct {
	Name         string   `json:"name"`
	Category     *string  `json:"category"`
	MenuPrice    *float64 `json:"menu_price"`
	Instructions *string  `json:"instructions"`
}

// CreateMenuItem adds a dish to the catalog.
func (p *Purchasing) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	var req menuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateMenuItem(req.Name, req.MenuPrice); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := p.menuItems.Create(r.Context(), &models.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Category:     req.Category,
		MenuPrice:    req.MenuPrice,
		Instructions: req.Instructions,
	})
	if err != nil {
		slog.Error("menu item create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateMenuItem updates a dish's name, category, price and instructions.
func (p *Purchasing) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	id, ok := parseUUIDParam(w, r, "menuItemID")
	if !ok {
		return
	}

	var req menuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateMenuItem(req.Name, req.MenuPrice); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := p.menuItems.Update(r.Context(), &models.MenuItem{
		ID:           id,
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Category:     req.Category,
		MenuPrice:    req.MenuPrice,
		Instructions: req.Instructions,
	})
	if err != nil {
		slog.Error("menu item update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Plat introuvable.")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteMenuItem removes a dish and its recipe.
func (p *Purchasing) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	id, ok := parseUUIDParam(w, r, "menuItemID")
	if !ok {
		return
	}

	if err := p.menuItems.Delete(r.Context(), restaurant.ID, id); err != nil {
		slog.Error("menu item delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// maxBootstrapItems caps how many dishes one bootstrap run creates.
const maxBootstrapItems = 200

// BootstrapMenuItems creates menu items from the names found in the
// restaurant's menu document. Existing items with the same name are
// left alone.
func (p *Purchasing) BootstrapMenuItems(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	m := menudoc.New()
	m.LoadFromText(string(restaurant.MenuDocument))
	names := menudoc.ItemNames(m.Document(), maxBootstrapItems)

	created, err := p.menuItems.BootstrapFromNames(r.Context(), restaurant.ID, names)
	if err != nil {
		slog.Error("menu item bootstrap failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created, "found": len(names)})
}

// recipePayload is the costing view of one dish's recipe.
type recipePayload struct {
	MenuItemID   uuid.UUID         `json:"menu_item_id"`
	Lines        []recipecost.Line `json:"lines"`
	TotalCost    float64           `json:"total_cost"`
	Margin       *float64          `json:"margin,omitempty"`
	IsManualCost bool              `json:"is_manual_cost"`
}

func buildRecipePayload(item *models.MenuItem, session *recipecost.Session) recipePayload {
	cost := session.TotalCost()
	_, manual := session.ManualOverride()
	payload := recipePayload{
		MenuItemID:   item.ID,
		Lines:        session.Lines(),
		TotalCost:    round2(cost),
		IsManualCost: manual,
	}
	if payload.Lines == nil {
		payload.Lines = []recipecost.Line{}
	}
	if item.MenuPrice != nil {
		if margin, ok := recipecost.Margin(*item.MenuPrice, cost); ok {
			rounded := round1(margin)
			payload.Margin = &rounded
		}
	}
	return payload
}

// GetRecipe returns a dish's recipe lines with cost and margin.
func (p *Purchasing) GetRecipe(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	itemID, ok := parseUUIDParam(w, r, "menuItemID")
	if !ok {
		return
	}

	item, err := p.menuItems.GetByID(r.Context(), restaurant.ID, itemID)
	if err != nil {
		slog.Error("recipe lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Plat introuvable.")
		return
	}

	lines, err := p.recipes.EditLines(r.Context(), restaurant.ID, itemID)
	if err != nil {
		slog.Error("recipe lines failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	session := recipecost.BeginEdit(lines, item.ProductionCost)
	writeJSON(w, http.StatusOK, buildRecipePayload(item, session))
}

type recipeLineRequest struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Quantity     float64   `json:"quantity_per_unit"`
	Unit         string    `json:"unit"`
}

type recipeSaveRequest struct {
	Lines []recipeLineRequest `json:"lines"`
	// Null leaves the cost derived from the lines; a value switches the
	// dish to a hand-entered production cost.
	ProductionCost *float64 `json:"production_cost"`
}

// SaveRecipe replaces a dish's recipe with the submitted lines. The
// edit is applied through a session so only the changed lines are
// written, and a line whose unit changed also updates the ingredient's
// master unit. Unit update failures do not fail the save; they are
// reported in the response.
func (p *Purchasing) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	itemID, ok := parseUUIDParam(w, r, "menuItemID")
	if !ok {
		return
	}

	var req recipeSaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductionCost != nil && *req.ProductionCost < 0 {
		writeError(w, http.StatusBadRequest, "Le coût de production doit être positif.")
		return
	}

	item, err := p.menuItems.GetByID(r.Context(), restaurant.ID, itemID)
	if err != nil {
		slog.Error("recipe save lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Plat introuvable.")
		return
	}

	persisted, err := p.recipes.EditLines(r.Context(), restaurant.ID, itemID)
	if err != nil {
		slog.Error("recipe save lines failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	session := recipecost.BeginEdit(persisted, item.ProductionCost)

	if msg := p.applyRecipeEdits(r, restaurant.ID, session, req.Lines); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	session.SetManualOverride(req.ProductionCost)

	result, err := recipecost.NewSaver(p.recipes, slog.Default()).Save(r.Context(), restaurant.ID, itemID, session)
	if err != nil {
		slog.Error("recipe save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "La sauvegarde de la recette a échoué.")
		return
	}
	if err := p.menuItems.SetProductionCost(r.Context(), restaurant.ID, itemID, req.ProductionCost); err != nil {
		slog.Error("production cost save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	item.ProductionCost = req.ProductionCost

	response := struct {
		recipePayload
		FailedUnitSyncs []uuid.UUID `json:"failed_unit_syncs,omitempty"`
	}{recipePayload: buildRecipePayload(item, session)}
	for _, failure := range result.FailedUnitSyncs {
		response.FailedUnitSyncs = append(response.FailedUnitSyncs, failure.IngredientID)
	}
	writeJSON(w, http.StatusOK, response)
}

// applyRecipeEdits reconciles the submitted lines against the session:
// missing lines are removed, existing ones updated in place, new ones
// added from the ingredient catalog. Returns a user-facing message on
// invalid input, empty string on success.
func (p *Purchasing) applyRecipeEdits(r *http.Request, restaurantID uuid.UUID, session *recipecost.Session, requested []recipeLineRequest) string {
	wanted := make(map[uuid.UUID]recipeLineRequest, len(requested))
	for _, line := range requested {
		if line.IngredientID == uuid.Nil {
			return "Chaque ligne doit référencer un ingrédient."
		}
		if line.Quantity <= 0 {
			return "Les quantités doivent être strictement positives."
		}
		wanted[line.IngredientID] = line
	}

	current := session.Lines()
	for i := len(current) - 1; i >= 0; i-- {
		if _, keep := wanted[current[i].IngredientID]; !keep {
			if err := session.RemoveIngredient(i); err != nil {
				return "Recette invalide."
			}
		}
	}

	current = session.Lines()
	index := make(map[uuid.UUID]int, len(current))
	for i, line := range current {
		index[line.IngredientID] = i
	}

	for _, line := range requested {
		if i, exists := index[line.IngredientID]; exists {
			if err := session.UpdateLineQuantity(i, line.Quantity); err != nil {
				return "Les quantités doivent être strictement positives."
			}
			if line.Unit != "" {
				if err := session.UpdateLineUnit(i, line.Unit); err != nil {
					return "Recette invalide."
				}
			}
			continue
		}

		ing, err := p.ingredients.GetByID(r.Context(), restaurantID, line.IngredientID)
		if err != nil || ing == nil {
			return "Ingrédient introuvable."
		}
		level, err := p.ingredients.GetStock(r.Context(), restaurantID, line.IngredientID)
		if err != nil {
			return "Ingrédient introuvable."
		}
		var unitCost float64
		if level != nil {
			unitCost = level.UnitCost
		}
		if err := session.AddIngredient(recipecost.CatalogIngredient{
			ID:       ing.ID,
			Name:     ing.Name,
			Unit:     ing.Unit,
			UnitCost: unitCost,
		}, line.Quantity); err != nil {
			return "Les quantités doivent être strictement positives."
		}
		if line.Unit != "" && line.Unit != ing.Unit {
			added := session.Lines()
			for i, l := range added {
				if l.IngredientID == ing.ID {
					if err := session.UpdateLineUnit(i, line.Unit); err != nil {
						return "Recette invalide."
					}
					break
				}
			}
		}
	}
	return ""
}

type saleRequest struct {
	MenuItemID uuid.UUID  `json:"menu_item_id"`
	Quantity   int        `json:"quantity"`
	OrderedAt  *time.Time `json:"ordered_at"`
}

// RecordSale registers a manual sale and decrements the stock of the
// dish's recipe ingredients.
func (p *Purchasing) RecordSale(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	var req saleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "La quantité doit être strictement positive.")
		return
	}

	item, err := p.menuItems.GetByID(r.Context(), restaurant.ID, req.MenuItemID)
	if err != nil {
		slog.Error("sale lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Plat introuvable.")
		return
	}

	var orderedAt time.Time
	if req.OrderedAt != nil {
		orderedAt = *req.OrderedAt
	}
	order, err := p.orders.RecordSale(r.Context(), restaurant.ID, req.MenuItemID, req.Quantity, "manual_dashboard", orderedAt)
	if err != nil {
		slog.Error("sale record failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	recipeLines, err := p.recipes.ListByMenuItem(r.Context(), restaurant.ID, req.MenuItemID)
	if err != nil {
		slog.Error("sale recipe lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	consumption := stock.ConsumptionForOrder(recipeLines, req.Quantity)
	if err := p.ingredients.DecrementStock(r.Context(), restaurant.ID, consumption); err != nil {
		slog.Error("stock decrement failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
