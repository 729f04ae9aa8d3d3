package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for account and catalog fields.
const (
	maxNameLen     = 200
	maxEmailLen    = 320
	maxSlugLen     = 200
	maxUnitLen     = 50
	maxNotesLen    = 2_000
	maxMenuDocLen  = 200_000
	minPasswordLen = 8
)

// validateSignup checks signup form inputs and returns the first error found.
func validateSignup(email, password, fullName, restaurantName string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "Adresse e-mail invalide."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Adresse e-mail trop longue."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Le mot de passe doit contenir au moins 8 caractères."
	}
	if strings.TrimSpace(fullName) == "" {
		return "Le nom complet est requis."
	}
	if utf8.RuneCountInString(fullName) > maxNameLen {
		return "Nom complet trop long (200 caractères max)."
	}
	if strings.TrimSpace(restaurantName) == "" {
		return "Le nom du restaurant est requis."
	}
	if utf8.RuneCountInString(restaurantName) > maxNameLen {
		return "Nom du restaurant trop long (200 caractères max)."
	}
	return ""
}

// validateRestaurant checks restaurant create/update inputs.
func validateRestaurant(displayName, menuDocument string) string {
	if strings.TrimSpace(displayName) == "" {
		return "Le nom du restaurant est requis."
	}
	if utf8.RuneCountInString(displayName) > maxNameLen {
		return "Nom du restaurant trop long (200 caractères max)."
	}
	if utf8.RuneCountInString(menuDocument) > maxMenuDocLen {
		return "Document de menu trop volumineux."
	}
	return ""
}

// validateIngredient checks catalog ingredient inputs.
func validateIngredient(name, unit string) string {
	if strings.TrimSpace(name) == "" {
		return "Le nom de l'ingrédient est requis."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Nom d'ingrédient trop long (200 caractères max)."
	}
	if utf8.RuneCountInString(unit) > maxUnitLen {
		return "Unité trop longue (50 caractères max)."
	}
	return ""
}

// validateSupplier checks supplier inputs.
func validateSupplier(name, contactEmail string, leadTimeDays int) string {
	if strings.TrimSpace(name) == "" {
		return "Le nom du fournisseur est requis."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Nom de fournisseur trop long (200 caractères max)."
	}
	if contactEmail != "" && !strings.Contains(contactEmail, "@") {
		return "Adresse e-mail du fournisseur invalide."
	}
	if leadTimeDays < 0 {
		return "Le délai de livraison ne peut pas être négatif."
	}
	return ""
}

// validateMenuItem checks menu item inputs.
func validateMenuItem(name string, menuPrice *float64) string {
	if strings.TrimSpace(name) == "" {
		return "Le nom du plat est requis."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Nom du plat trop long (200 caractères max)."
	}
	if menuPrice != nil && *menuPrice < 0 {
		return "Le prix ne peut pas être négatif."
	}
	return ""
}
