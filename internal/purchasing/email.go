// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package purchasing

import (
	"fmt"
	"strings"

	"restaubot/internal/models"
)

// ComposeOrderEmail builds the confirmation email body sent to a
// supplier for a purchase order. The body is in French, matching the
// product's audience.
func ComposeOrderEmail(order models.PurchaseOrder, supplierName string) string {
	if supplierName == "" {
		supplierName = "Partenaire"
	}

	lines := make([]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		name := line.IngredientName
		if name == "" {
			name = line.IngredientID.String()
		}
		lines = append(lines, fmt.Sprintf("- %s: %v %s", name, line.QuantityOrdered, line.Unit))
	}

	var expected string
	if order.ExpectedDeliveryDate != nil {
		expected = fmt.Sprintf(" pour une livraison prévue le %s", order.ExpectedDeliveryDate.Format("2006-01-02"))
	}

	return fmt.Sprintf(
		"Bonjour %s,\n\nMerci de confirmer la commande %s%s.\nVoici le détail:\n%s\n\nBien cordialement,\nL'équipe RestauBot",
		supplierName,
		order.ID,
		expected,
		strings.Join(lines, "\n"),
	)
}
