// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"restaubot/internal/middleware"
	"restaubot/internal/models"
	"restaubot/internal/purchasing"
)

type purchaseOrderLineRequest struct {
	IngredientID    uuid.UUID `json:"ingredient_id"`
	QuantityOrdered float64   `json:"quantity_ordered"`
	Unit            string    `json:"unit"`
}

type purchaseOrderRequest struct {
	SupplierID           uuid.UUID                  `json:"supplier_id"`
	ExpectedDeliveryDate *string                    `json:"expected_delivery_date"`
	Notes                *string                    `json:"notes"`
	Lines                []purchaseOrderLineRequest `json:"lines"`
}

// CreatePurchaseOrder records a draft order with a supplier.
func (p *Purchasing) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	var req purchaseOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SupplierID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "Le fournisseur est requis.")
		return
	}
	if len(req.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "Une commande doit contenir au moins une ligne.")
		return
	}
	for _, line := range req.Lines {
		if line.IngredientID == uuid.Nil || line.QuantityOrdered <= 0 {
			writeError(w, http.StatusBadRequest, "Chaque ligne doit avoir un ingrédient et une quantité positive.")
			return
		}
	}

	supplier, err := p.suppliers.GetByID(r.Context(), restaurant.ID, req.SupplierID)
	if err != nil {
		slog.Error("purchase order supplier lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if supplier == nil {
		writeError(w, http.StatusNotFound, "Fournisseur introuvable.")
		return
	}

	var delivery *time.Time
	if req.ExpectedDeliveryDate != nil && *req.ExpectedDeliveryDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.ExpectedDeliveryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Date de livraison invalide.")
			return
		}
		delivery = &parsed
	}

	order := &models.PurchaseOrder{
		RestaurantID:         restaurant.ID,
		SupplierID:           req.SupplierID,
		Status:               models.PurchaseOrderDraft,
		ExpectedDeliveryDate: delivery,
		Notes:                req.Notes,
	}
	for _, line := range req.Lines {
		order.Lines = append(order.Lines, models.PurchaseOrderLine{
			IngredientID:    line.IngredientID,
			QuantityOrdered: line.QuantityOrdered,
			Unit:            line.Unit,
		})
	}

	created, err := p.purchaseOrders.Create(r.Context(), order)
	if err != nil {
		slog.Error("purchase order create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListPurchaseOrders returns the restaurant's purchase orders newest
// first.
func (p *Purchasing) ListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())

	orders, err := p.purchaseOrders.List(r.Context(), restaurant.ID)
	if err != nil {
		slog.Error("purchase orders list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetPurchaseOrder returns one purchase order with its lines and a
// ready-to-send email draft for the supplier.
func (p *Purchasing) GetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	restaurant := middleware.RestaurantFromCtx(r.Context())
	id, ok := parseUUIDParam(w, r, "orderID")
	if !ok {
		return
	}

	order, err := p.purchaseOrders.GetByID(r.Context(), restaurant.ID, id)
	if err != nil {
		slog.Error("purchase order lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "Commande introuvable.")
		return
	}

	var supplierName, supplierEmail string
	if supplier, err := p.suppliers.GetByID(r.Context(), restaurant.ID, order.SupplierID); err == nil && supplier != nil {
		supplierName = supplier.Name
		supplierEmail = supplier.ContactEmail
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"order":          order,
		"supplier_name":  supplierName,
		"supplier_email": supplierEmail,
		"email_draft":    purchasing.ComposeOrderEmail(*order, supplierName),
	})
}
